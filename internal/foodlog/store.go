package foodlog

import (
	"fmt"
	"sort"

	"github.com/starford/yada/internal/apperr"
	"github.com/starford/yada/internal/models"
)

// Store maps dates to daily logs for one owner and tracks the active date that
// add, remove and undo operate on.
type Store struct {
	owner  string
	active string
	logs   map[string]*DailyLog
}

// NewStore returns an empty store with no active date.
func NewStore(owner string) *Store {
	return &Store{owner: owner, logs: make(map[string]*DailyLog)}
}

// Restore builds a store from persisted snapshots. Each date may appear once.
func Restore(owner string, snapshots []models.DaySnapshot) (*Store, error) {
	s := NewStore(owner)
	for _, snap := range snapshots {
		if _, err := ParseDate(snap.Date); err != nil {
			return nil, err
		}
		if _, ok := s.logs[snap.Date]; ok {
			return nil, fmt.Errorf("%w: date %s appears twice", apperr.ErrInconsistentState, snap.Date)
		}
		l, err := RestoreDailyLog(snap)
		if err != nil {
			return nil, err
		}
		s.logs[snap.Date] = l
	}
	return s, nil
}

// Owner returns the key the store belongs to.
func (s *Store) Owner() string {
	return s.owner
}

// ActiveDate returns the active date, or "" if none has been set.
func (s *Store) ActiveDate() string {
	return s.active
}

// SetActiveDate makes date the target of later mutations, creating an empty
// log for it if needed.
func (s *Store) SetActiveDate(date string) error {
	if _, err := ParseDate(date); err != nil {
		return err
	}
	s.active = date
	if _, ok := s.logs[date]; !ok {
		s.logs[date] = NewDailyLog(date)
	}
	return nil
}

func (s *Store) activeLog() (*DailyLog, error) {
	l, ok := s.logs[s.active]
	if !ok {
		if s.active == "" {
			return nil, fmt.Errorf("%w: no active date", apperr.ErrNoLogForDate)
		}
		return nil, fmt.Errorf("%w: %s", apperr.ErrNoLogForDate, s.active)
	}
	return l, nil
}

// AddFood logs servings of food on the active date.
func (s *Store) AddFood(food models.AtomicFood, servings float64) error {
	l, err := s.activeLog()
	if err != nil {
		return err
	}
	return l.AddEntry(food, servings)
}

// RemoveFood removes foodID from the active date's log.
func (s *Store) RemoveFood(foodID string) error {
	l, err := s.activeLog()
	if err != nil {
		return err
	}
	return l.RemoveEntry(foodID)
}

// Undo reverts the last mutation of the active date's log.
func (s *Store) Undo() error {
	l, err := s.activeLog()
	if err != nil {
		return err
	}
	return l.Undo()
}

// Log returns the log for date.
func (s *Store) Log(date string) (*DailyLog, bool) {
	l, ok := s.logs[date]
	return l, ok
}

// Dates returns every date that has a log, ascending.
func (s *Store) Dates() []string {
	out := make([]string, 0, len(s.logs))
	for d := range s.logs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// CaloriesFor returns the total calories logged on date, or 0 without a log.
func (s *Store) CaloriesFor(date string) float64 {
	if l, ok := s.logs[date]; ok {
		return l.TotalCalories()
	}
	return 0
}

// Compare returns the intake of date against target. It reports false when
// the date has no log.
func (s *Store) Compare(date string, target float64) (models.DaySummary, bool) {
	l, ok := s.logs[date]
	if !ok {
		return models.DaySummary{}, false
	}
	return summary(date, l.TotalCalories(), target), true
}

// RangeSummary compares every date from start to end inclusive against
// target. Dates without a log count as zero intake.
func (s *Store) RangeSummary(start, end string, target float64) ([]models.DaySummary, error) {
	from, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", apperr.ErrInvalidRange, start, end)
	}

	var out []models.DaySummary
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := FormatDate(d)
		out = append(out, summary(date, s.CaloriesFor(date), target))
	}
	return out, nil
}

// Snapshots returns every log in date order for persistence.
func (s *Store) Snapshots() []models.DaySnapshot {
	dates := s.Dates()
	out := make([]models.DaySnapshot, 0, len(dates))
	for _, d := range dates {
		out = append(out, s.logs[d].Snapshot())
	}
	return out
}

func summary(date string, actual, target float64) models.DaySummary {
	return models.DaySummary{Date: date, Actual: actual, Target: target, Difference: actual - target}
}
