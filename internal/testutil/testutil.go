// Package testutil provides shared test helpers for setting up data
// directories, indexes and trackers.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/starford/yada/internal/index"
	"github.com/starford/yada/internal/storage"
)

// SnackFoods is a foods.yaml with apple, peanut_butter and a snack made of
// one apple and two servings of peanut butter (475 kcal).
const SnackFoods = `basic_foods:
  - identifier: apple
    keywords: [fruit]
    calories_per_serving: 95
  - identifier: peanut_butter
    keywords: [spread, nut]
    calories_per_serving: 190
composite_foods:
  - identifier: snack
    keywords: [afternoon]
    components:
      - food: apple
        quantity: 1
      - food: peanut_butter
        quantity: 2
`

// TestDB creates a temporary SQLite index that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "yada-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDataDir creates a temporary data directory with a storage.Provider.
// If foods is not empty it is written as the foods file.
func TestDataDir(t *testing.T, foods string) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	if foods != "" {
		if err := store.Write(storage.FoodsFile, []byte(foods)); err != nil {
			t.Fatal(err)
		}
	}
	return dir, store
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Clock returns a clock fixed at the given YYYY-MM-DD date.
func Clock(t *testing.T, date string) func() time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatal(err)
	}
	return func() time.Time { return d }
}
