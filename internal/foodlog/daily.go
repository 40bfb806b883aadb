// Package foodlog keeps per-day food logs with an undo history and a store
// that maps calendar dates to logs.
//
// Neither DailyLog nor Store is safe for concurrent use; the owner is expected
// to serialize calls and to persist after every mutation.
package foodlog

import (
	"fmt"
	"math"
	"strings"

	"github.com/starford/yada/internal/apperr"
	"github.com/starford/yada/internal/models"
)

// DailyLog is the list of foods consumed on one date. Entries are unique by
// food identifier; adding a food again merges the servings.
type DailyLog struct {
	date    string
	entries []models.LogEntry
	undo    []undoAction
}

// NewDailyLog returns an empty log for date.
func NewDailyLog(date string) *DailyLog {
	return &DailyLog{date: date}
}

// RestoreDailyLog rebuilds a log from a persisted snapshot. The undo history
// starts empty.
func RestoreDailyLog(snap models.DaySnapshot) (*DailyLog, error) {
	l := NewDailyLog(snap.Date)
	for _, e := range snap.Entries {
		if !validServings(e.Servings) {
			return nil, fmt.Errorf("%w: %s on %s has %v servings", apperr.ErrInconsistentState, e.FoodID, snap.Date, e.Servings)
		}
		if l.find(e.FoodID) >= 0 {
			return nil, fmt.Errorf("%w: duplicate entry %s on %s", apperr.ErrInconsistentState, e.FoodID, snap.Date)
		}
		l.entries = append(l.entries, e)
	}
	return l, nil
}

// Date returns the log's date (YYYY-MM-DD).
func (l *DailyLog) Date() string {
	return l.date
}

// Entries returns a copy of the entries in log order.
func (l *DailyLog) Entries() []models.LogEntry {
	return append([]models.LogEntry{}, l.entries...)
}

// Entry returns the entry for the given food.
func (l *DailyLog) Entry(foodID string) (models.LogEntry, bool) {
	i := l.find(foodID)
	if i < 0 {
		return models.LogEntry{}, false
	}
	return l.entries[i], true
}

// Len returns the number of entries.
func (l *DailyLog) Len() int {
	return len(l.entries)
}

// UndoDepth returns how many actions can be undone.
func (l *DailyLog) UndoDepth() int {
	return len(l.undo)
}

// Snapshot returns the persistable form of the log.
func (l *DailyLog) Snapshot() models.DaySnapshot {
	return models.DaySnapshot{Date: l.date, Entries: l.Entries()}
}

// TotalCalories sums servings times rate over all entries.
func (l *DailyLog) TotalCalories() float64 {
	var total float64
	for _, e := range l.entries {
		total += e.Calories()
	}
	return total
}

// AddEntry logs servings of food. A new entry captures the food's current
// calorie rate; an existing entry keeps its rate and gains the servings.
func (l *DailyLog) AddEntry(food models.AtomicFood, servings float64) error {
	if !validServings(servings) {
		return fmt.Errorf("%w: got %v", apperr.ErrInvalidServings, servings)
	}
	if i := l.find(food.Identifier); i >= 0 {
		e := l.entries[i]
		merged := e.Servings + servings
		if !validServings(merged) || !l.fits(e.CaloriesPerServing*(merged-e.Servings)) {
			return fmt.Errorf("%w: %s would reach %v servings", apperr.ErrInvalidServings, e.FoodID, merged)
		}
		l.undo = append(l.undo, mergedAdd{foodID: e.FoodID, previous: e.Servings})
		l.entries[i].Servings = merged
		return nil
	}
	if !l.fits(food.CaloriesPerServing * servings) {
		return fmt.Errorf("%w: %v servings of %s exceed the calorie range", apperr.ErrInvalidServings, servings, food.Identifier)
	}
	l.entries = append(l.entries, models.LogEntry{
		FoodID:             food.Identifier,
		Servings:           servings,
		CaloriesPerServing: food.CaloriesPerServing,
	})
	l.undo = append(l.undo, mergedAdd{foodID: food.Identifier})
	return nil
}

// RemoveEntry deletes the entry for foodID.
func (l *DailyLog) RemoveEntry(foodID string) error {
	i := l.find(foodID)
	if i < 0 {
		return fmt.Errorf("%w: %s is not logged on %s", apperr.ErrNotFound, foodID, l.date)
	}
	removed := l.entries[i]
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	l.undo = append(l.undo, removedEntry{entry: removed})
	return nil
}

// Undo reverts the most recent add or remove.
func (l *DailyLog) Undo() error {
	n := len(l.undo)
	if n == 0 {
		return apperr.ErrNothingToUndo
	}
	action := l.undo[n-1]
	l.undo = l.undo[:n-1]
	return action.revert(l)
}

func (l *DailyLog) find(foodID string) int {
	for i, e := range l.entries {
		if strings.EqualFold(e.FoodID, foodID) {
			return i
		}
	}
	return -1
}

// fits reports whether adding kcal keeps the day's total finite.
func (l *DailyLog) fits(kcal float64) bool {
	total := l.TotalCalories() + kcal
	return !math.IsInf(total, 0) && !math.IsNaN(total)
}

func validServings(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
