package foodlog

import (
	"errors"
	"testing"

	"github.com/starford/yada/internal/apperr"
	"github.com/starford/yada/internal/models"
)

func TestParseDate(t *testing.T) {
	valid := []string{"2024-02-29", "2023-12-31", "1999-01-01"}
	for _, d := range valid {
		if _, err := ParseDate(d); err != nil {
			t.Errorf("ParseDate(%q): %v", d, err)
		}
	}
	invalid := []string{"", "2023-02-29", "2024-13-01", "2024-1-5", "24-01-05", "2024/01/05", "2024-01-05T00:00:00Z", "tomorrow"}
	for _, d := range invalid {
		if _, err := ParseDate(d); !errors.Is(err, apperr.ErrInvalidDate) {
			t.Errorf("ParseDate(%q) err = %v, want ErrInvalidDate", d, err)
		}
	}
}

func TestSpanDays(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2024-03-01", "2024-03-01", 1},
		{"2024-02-28", "2024-03-01", 3},
		{"2023-01-01", "2023-12-31", 365},
		{"0001-01-01", "9999-12-31", 3652059},
	}
	for _, tc := range cases {
		got, err := SpanDays(tc.start, tc.end)
		if err != nil || got != tc.want {
			t.Errorf("SpanDays(%s, %s) = %d, %v, want %d", tc.start, tc.end, got, err, tc.want)
		}
	}
	if _, err := SpanDays("2024-03-02", "2024-03-01"); !errors.Is(err, apperr.ErrInvalidRange) {
		t.Errorf("reversed err = %v", err)
	}
	if _, err := SpanDays("2024-02-30", "2024-03-01"); !errors.Is(err, apperr.ErrInvalidDate) {
		t.Errorf("invalid date err = %v", err)
	}
}

func TestStore_NoActiveDate(t *testing.T) {
	s := NewStore("alice")
	if err := s.RemoveFood("apple"); !errors.Is(err, apperr.ErrNoLogForDate) {
		t.Errorf("RemoveFood err = %v", err)
	}
	if err := s.Undo(); !errors.Is(err, apperr.ErrNoLogForDate) {
		t.Errorf("Undo err = %v", err)
	}
	if err := s.AddFood(apple, 1); !errors.Is(err, apperr.ErrNoLogForDate) {
		t.Errorf("AddFood err = %v", err)
	}
}

func TestStore_SetActiveDate(t *testing.T) {
	s := NewStore("alice")
	if err := s.SetActiveDate("2024-02-30"); !errors.Is(err, apperr.ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
	if s.ActiveDate() != "" {
		t.Error("invalid date must not become active")
	}

	if err := s.SetActiveDate("2030-01-01"); err != nil {
		t.Fatalf("future date: %v", err)
	}
	if _, ok := s.Log("2030-01-01"); !ok {
		t.Fatal("log not created lazily")
	}

	_ = s.AddFood(apple, 1)
	// Setting the same date again keeps the existing log.
	_ = s.SetActiveDate("2030-01-01")
	if got := s.CaloriesFor("2030-01-01"); !approx(got, 95) {
		t.Errorf("calories = %v, want 95", got)
	}
}

func TestStore_MutationsTargetActiveDate(t *testing.T) {
	s := NewStore("alice")
	_ = s.SetActiveDate("2024-03-01")
	_ = s.AddFood(apple, 1)
	_ = s.SetActiveDate("2024-03-02")
	_ = s.AddFood(peanutButter, 1)

	if got := s.CaloriesFor("2024-03-01"); !approx(got, 95) {
		t.Errorf("day 1 = %v", got)
	}
	if got := s.CaloriesFor("2024-03-02"); !approx(got, 190) {
		t.Errorf("day 2 = %v", got)
	}

	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := s.CaloriesFor("2024-03-02"); got != 0 {
		t.Errorf("day 2 after undo = %v", got)
	}
	// Undo history is per day.
	if err := s.Undo(); !errors.Is(err, apperr.ErrNothingToUndo) {
		t.Errorf("err = %v, want ErrNothingToUndo", err)
	}
	if err := s.RemoveFood("apple"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRangeSummary(t *testing.T) {
	s := NewStore("alice")
	_ = s.SetActiveDate("2024-02-28")
	_ = s.AddFood(apple, 10)
	_ = s.SetActiveDate("2024-03-01")
	_ = s.AddFood(peanutButter, 10)

	got, err := s.RangeSummary("2024-02-27", "2024-03-01", 2000)
	if err != nil {
		t.Fatalf("RangeSummary: %v", err)
	}
	want := []models.DaySummary{
		{Date: "2024-02-27", Actual: 0, Target: 2000, Difference: -2000},
		{Date: "2024-02-28", Actual: 950, Target: 2000, Difference: -1050},
		{Date: "2024-02-29", Actual: 0, Target: 2000, Difference: -2000},
		{Date: "2024-03-01", Actual: 1900, Target: 2000, Difference: -100},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Date != want[i].Date || !approx(got[i].Actual, want[i].Actual) ||
			!approx(got[i].Target, want[i].Target) || !approx(got[i].Difference, want[i].Difference) {
			t.Errorf("day %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRangeSummary_Empty(t *testing.T) {
	s := NewStore("alice")
	got, err := s.RangeSummary("2023-12-30", "2024-01-02", 1800)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	for _, d := range got {
		if d.Actual != 0 || d.Difference != -1800 {
			t.Errorf("%s = %+v", d.Date, d)
		}
	}

	single, _ := s.RangeSummary("2024-01-01", "2024-01-01", 1800)
	if len(single) != 1 {
		t.Errorf("single day range len = %d", len(single))
	}
}

func TestRangeSummary_Errors(t *testing.T) {
	s := NewStore("alice")
	if _, err := s.RangeSummary("2024-13-01", "2024-12-01", 0); !errors.Is(err, apperr.ErrInvalidDate) {
		t.Errorf("bad start err = %v", err)
	}
	if _, err := s.RangeSummary("2024-01-01", "nope", 0); !errors.Is(err, apperr.ErrInvalidDate) {
		t.Errorf("bad end err = %v", err)
	}
	if _, err := s.RangeSummary("2024-01-02", "2024-01-01", 0); !errors.Is(err, apperr.ErrInvalidRange) {
		t.Errorf("reversed err = %v", err)
	}
}

func TestCompare(t *testing.T) {
	s := NewStore("alice")
	if _, ok := s.Compare("2024-03-01", 2000); ok {
		t.Error("Compare without log should be absent")
	}
	_ = s.SetActiveDate("2024-03-01")
	_ = s.AddFood(apple, 2)
	got, ok := s.Compare("2024-03-01", 2000)
	if !ok || !approx(got.Actual, 190) || !approx(got.Difference, -1810) {
		t.Errorf("Compare = %+v, %v", got, ok)
	}
}

func TestSnapshotsRestore(t *testing.T) {
	s := NewStore("alice")
	_ = s.SetActiveDate("2024-03-02")
	_ = s.AddFood(apple, 1)
	_ = s.SetActiveDate("2024-03-01")
	_ = s.AddFood(peanutButter, 2)

	snaps := s.Snapshots()
	if len(snaps) != 2 || snaps[0].Date != "2024-03-01" || snaps[1].Date != "2024-03-02" {
		t.Fatalf("snapshots = %+v", snaps)
	}

	restored, err := Restore("alice", snaps)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := restored.CaloriesFor("2024-03-01"); !approx(got, 380) {
		t.Errorf("restored calories = %v", got)
	}
	if restored.ActiveDate() != "" {
		t.Error("restored store should have no active date")
	}
	_ = restored.SetActiveDate("2024-03-01")
	if err := restored.Undo(); !errors.Is(err, apperr.ErrNothingToUndo) {
		t.Errorf("undo history should not survive a restore: %v", err)
	}

	dup := append(snaps, models.DaySnapshot{Date: "2024-03-01"})
	if _, err := Restore("alice", dup); !errors.Is(err, apperr.ErrInconsistentState) {
		t.Errorf("duplicate date err = %v", err)
	}
	bad := []models.DaySnapshot{{Date: "03/01/2024"}}
	if _, err := Restore("alice", bad); !errors.Is(err, apperr.ErrInvalidDate) {
		t.Errorf("bad date err = %v", err)
	}
}
