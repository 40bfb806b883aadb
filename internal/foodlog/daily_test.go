package foodlog

import (
	"errors"
	"math"
	"testing"

	"github.com/starford/yada/internal/apperr"
	"github.com/starford/yada/internal/models"
)

var (
	apple        = models.AtomicFood{Identifier: "apple", CaloriesPerServing: 95}
	peanutButter = models.AtomicFood{Identifier: "peanut_butter", CaloriesPerServing: 190}
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAddMergeUndoSequence(t *testing.T) {
	l := NewDailyLog("2024-03-01")
	if err := l.AddEntry(apple, 1); err != nil {
		t.Fatal(err)
	}
	if err := l.AddEntry(apple, 2); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 1 {
		t.Fatalf("entries = %d, want 1", l.Len())
	}
	if e, _ := l.Entry("apple"); !approx(e.Servings, 3) {
		t.Fatalf("servings = %v, want 3", e.Servings)
	}

	if err := l.Undo(); err != nil {
		t.Fatalf("first undo: %v", err)
	}
	if e, _ := l.Entry("apple"); !approx(e.Servings, 1) {
		t.Fatalf("servings after undo = %v, want 1", e.Servings)
	}

	if err := l.Undo(); err != nil {
		t.Fatalf("second undo: %v", err)
	}
	if _, ok := l.Entry("apple"); ok {
		t.Fatal("entry should be gone after undoing its creation")
	}

	if err := l.Undo(); !errors.Is(err, apperr.ErrNothingToUndo) {
		t.Fatalf("third undo err = %v, want ErrNothingToUndo", err)
	}
}

func TestAddThenUndoRestoresPreviousState(t *testing.T) {
	l := NewDailyLog("2024-03-01")
	_ = l.AddEntry(peanutButter, 1.5)
	before := l.Entries()

	// New entry case.
	_ = l.AddEntry(apple, 2)
	_ = l.Undo()
	assertEntries(t, l, before)

	// Merge case.
	_ = l.AddEntry(peanutButter, 4)
	_ = l.Undo()
	assertEntries(t, l, before)
}

func TestRemoveThenUndoRestoresEntry(t *testing.T) {
	l := NewDailyLog("2024-03-01")
	_ = l.AddEntry(apple, 2)
	_ = l.AddEntry(peanutButter, 1)

	if err := l.RemoveEntry("APPLE"); err != nil {
		t.Fatalf("RemoveEntry: %v", err)
	}
	if _, ok := l.Entry("apple"); ok {
		t.Fatal("apple still logged")
	}
	if err := l.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}

	e, ok := l.Entry("apple")
	if !ok || !approx(e.Servings, 2) || !approx(e.CaloriesPerServing, 95) {
		t.Fatalf("restored entry = %+v, %v", e, ok)
	}
	// Restored entries go to the end.
	entries := l.Entries()
	if entries[len(entries)-1].FoodID != "apple" {
		t.Errorf("restored entry position: %+v", entries)
	}
}

func TestRemoveMissing(t *testing.T) {
	l := NewDailyLog("2024-03-01")
	if err := l.RemoveEntry("apple"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if l.UndoDepth() != 0 {
		t.Error("failed remove must not push an undo action")
	}
}

func TestAddEntry_InvalidServings(t *testing.T) {
	l := NewDailyLog("2024-03-01")
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := l.AddEntry(apple, v); !errors.Is(err, apperr.ErrInvalidServings) {
			t.Errorf("AddEntry(%v) err = %v", v, err)
		}
	}
	if l.Len() != 0 || l.UndoDepth() != 0 {
		t.Error("invalid add must not change the log")
	}
}

func TestAddEntry_OverflowRejected(t *testing.T) {
	water := models.AtomicFood{Identifier: "water", CaloriesPerServing: 0}
	l := NewDailyLog("2024-03-01")
	if err := l.AddEntry(water, math.MaxFloat64); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := l.AddEntry(water, math.MaxFloat64); !errors.Is(err, apperr.ErrInvalidServings) {
		t.Errorf("overflowing merge err = %v", err)
	}
	if l.UndoDepth() != 1 {
		t.Errorf("undo depth = %d, want 1", l.UndoDepth())
	}

	if err := l.AddEntry(apple, 1e307); !errors.Is(err, apperr.ErrInvalidServings) {
		t.Errorf("overflowing calories err = %v", err)
	}
	if err := l.AddEntry(apple, 1e306); err != nil {
		t.Fatalf("large add: %v", err)
	}
	if err := l.AddEntry(apple, 1e307); !errors.Is(err, apperr.ErrInvalidServings) {
		t.Errorf("merge overflowing calories err = %v", err)
	}
	if _, err := RestoreDailyLog(l.Snapshot()); err != nil {
		t.Errorf("snapshot no longer restores: %v", err)
	}
	if math.IsInf(l.TotalCalories(), 0) {
		t.Error("total must stay finite")
	}
}

func TestRateSnapshotSurvivesCatalogChange(t *testing.T) {
	l := NewDailyLog("2024-03-01")
	_ = l.AddEntry(apple, 1)
	repriced := apple
	repriced.CaloriesPerServing = 500
	_ = l.AddEntry(repriced, 1)

	if got := l.TotalCalories(); !approx(got, 190) {
		t.Errorf("total = %v, want 190", got)
	}
}

func TestTotalCalories(t *testing.T) {
	l := NewDailyLog("2024-03-01")
	// Two servings of a snack, already expanded into atomic portions.
	_ = l.AddEntry(apple, 2)
	_ = l.AddEntry(peanutButter, 4)
	if got := l.TotalCalories(); !approx(got, 950) {
		t.Errorf("total = %v, want 950", got)
	}
}

func TestUndo_InconsistentState(t *testing.T) {
	l := NewDailyLog("2024-03-01")
	_ = l.AddEntry(apple, 1)
	// Simulate a corrupted log: the entry vanished behind the undo stack.
	l.entries = nil
	if err := l.Undo(); !errors.Is(err, apperr.ErrInconsistentState) {
		t.Fatalf("err = %v, want ErrInconsistentState", err)
	}
}

func TestRestoreDailyLog(t *testing.T) {
	snap := models.DaySnapshot{Date: "2024-03-01", Entries: []models.LogEntry{
		{FoodID: "apple", Servings: 2, CaloriesPerServing: 95},
	}}
	l, err := RestoreDailyLog(snap)
	if err != nil {
		t.Fatalf("RestoreDailyLog: %v", err)
	}
	if l.UndoDepth() != 0 {
		t.Error("restored log should have no undo history")
	}
	if err := l.Undo(); !errors.Is(err, apperr.ErrNothingToUndo) {
		t.Errorf("undo on restored log err = %v", err)
	}

	snap.Entries = append(snap.Entries, models.LogEntry{FoodID: "Apple", Servings: 1, CaloriesPerServing: 95})
	if _, err := RestoreDailyLog(snap); !errors.Is(err, apperr.ErrInconsistentState) {
		t.Errorf("duplicate entries err = %v", err)
	}
}

func assertEntries(t *testing.T, l *DailyLog, want []models.LogEntry) {
	t.Helper()
	got := l.Entries()
	if len(got) != len(want) {
		t.Fatalf("entries = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
