package storage

import (
	"strings"
	"testing"

	"github.com/starford/yada/internal/models"
)

func TestFoodsRoundTrip(t *testing.T) {
	s := tempDataDir(t)

	doc, data, err := ReadFoods(s)
	if err != nil {
		t.Fatalf("ReadFoods on empty dir: %v", err)
	}
	if data != nil || len(doc.BasicFoods) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}

	doc = &FoodsDocument{
		BasicFoods: []models.AtomicFood{
			{Identifier: "apple", Keywords: []string{"fruit"}, CaloriesPerServing: 95},
		},
		CompositeFoods: []models.CompositeRecord{
			{Identifier: "snack", Keywords: []string{}, Components: []models.ComponentRef{{Identifier: "apple", Quantity: 2}}},
		},
	}
	written, err := WriteFoods(s, doc)
	if err != nil {
		t.Fatalf("WriteFoods: %v", err)
	}
	for _, key := range []string{"basic_foods:", "composite_foods:", "calories_per_serving: 95", "food: apple"} {
		if !strings.Contains(string(written), key) {
			t.Errorf("written yaml missing %q:\n%s", key, written)
		}
	}

	got, data, err := ReadFoods(s)
	if err != nil {
		t.Fatalf("ReadFoods: %v", err)
	}
	if string(data) != string(written) {
		t.Error("ReadFoods should return the raw bytes on disk")
	}
	if len(got.BasicFoods) != 1 || got.BasicFoods[0].CaloriesPerServing != 95 {
		t.Errorf("basic foods = %+v", got.BasicFoods)
	}
	if len(got.CompositeFoods) != 1 || got.CompositeFoods[0].Components[0].Quantity != 2 {
		t.Errorf("composite foods = %+v", got.CompositeFoods)
	}
}

func TestLogsRoundTrip(t *testing.T) {
	s := tempDataDir(t)

	doc, err := ReadLogs(s, "alice")
	if err != nil {
		t.Fatalf("ReadLogs on empty dir: %v", err)
	}
	if doc.UserName != "alice" || len(doc.DailyLogs) != 0 {
		t.Fatalf("empty doc = %+v", doc)
	}

	doc.DailyLogs = []models.DaySnapshot{
		{Date: "2024-03-01", Entries: []models.LogEntry{{FoodID: "apple", Servings: 2, CaloriesPerServing: 95}}},
	}
	if err := WriteLogs(s, doc); err != nil {
		t.Fatalf("WriteLogs: %v", err)
	}
	raw, _ := s.Read(LogFile("alice"))
	for _, key := range []string{"user_name: alice", "daily_logs:", "food_id: apple", "calories: 95"} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("log yaml missing %q:\n%s", key, raw)
		}
	}

	got, err := ReadLogs(s, "alice")
	if err != nil {
		t.Fatalf("ReadLogs: %v", err)
	}
	if len(got.DailyLogs) != 1 || got.DailyLogs[0].Entries[0].Servings != 2 {
		t.Errorf("daily logs = %+v", got.DailyLogs)
	}
}

func TestReadLogs_OwnerMismatch(t *testing.T) {
	s := tempDataDir(t)
	_ = s.Write(LogFile("alice"), []byte("user_name: bob\ndaily_logs: []\n"))
	if _, err := ReadLogs(s, "alice"); err == nil {
		t.Error("expected error for a log file owned by someone else")
	}
}

func TestReadFoods_Malformed(t *testing.T) {
	s := tempDataDir(t)
	_ = s.Write(FoodsFile, []byte("basic_foods: [unterminated"))
	if _, _, err := ReadFoods(s); err == nil {
		t.Error("expected parse error")
	}
}
