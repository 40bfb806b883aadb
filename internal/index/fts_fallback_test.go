//go:build !sqlite_fts5

package index

import "testing"

func TestFallbackSearch_WildcardsMatchLiterally(t *testing.T) {
	db := testDB(t)
	if err := Sync(db, testCatalog(t), quietLogger()); err != nil {
		t.Fatal(err)
	}

	results, err := db.Search("%", 10)
	if err != nil {
		t.Fatalf("Search(%%): %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search(%%) = %+v, want none", results)
	}

	results, err = db.Search("_", 10)
	if err != nil {
		t.Fatalf("Search(_): %v", err)
	}
	got := map[string]bool{}
	for _, r := range results {
		got[r.Identifier] = true
	}
	if got["apple"] || !got["peanut_butter"] || !got["snack"] {
		t.Errorf("Search(_) = %+v, want peanut_butter and snack only", results)
	}
}
