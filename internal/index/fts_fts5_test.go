//go:build sqlite_fts5

package index

import "testing"

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM foods_fts`).Scan(&count); err != nil {
		t.Fatalf("foods_fts table missing: %v", err)
	}
}

func TestFTS5_SearchMatchesIngredientWithSnippet(t *testing.T) {
	db := testDB(t)
	row := FoodRow{
		Key:        "snack",
		Identifier: "snack",
		Kind:       KindComposite,
		Keywords:   []string{"afternoon"},
		Components: []string{"apple", "peanut_butter"},
		Calories:   475,
		Checksum:   "s1",
	}
	if err := db.UpsertFood(row); err != nil {
		t.Fatalf("UpsertFood: %v", err)
	}

	results, err := db.Search("butter", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Identifier != "snack" {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertFood(FoodRow{Key: "kale", Identifier: "kale", Kind: KindAtomic, Checksum: "k"})
	_ = db.DeleteFood("kale")

	results, _ := db.Search("kale", 10)
	if len(results) != 0 {
		t.Errorf("deleted food still in FTS index: %+v", results)
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertFood(FoodRow{Key: "bowl", Identifier: "bowl", Kind: KindAtomic, Keywords: []string{"breakfast"}, Checksum: "1"})
	_ = db.UpsertFood(FoodRow{Key: "bowl", Identifier: "bowl", Kind: KindAtomic, Keywords: []string{"dinner"}, Checksum: "2"})

	if results, _ := db.Search("breakfast", 10); len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	if results, _ := db.Search("dinner", 10); len(results) != 1 {
		t.Errorf("FTS not updated: %+v", results)
	}
}

func TestFTSQuery_QuotesTerms(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"butter", `"butter"`},
		{"  peanut  butter ", `"peanut" "butter"`},
		{`a"b`, `"a""b"`},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := ftsQuery(tt.in); got != tt.want {
			t.Errorf("ftsQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFTS5_SearchOperatorInputIsLiteral(t *testing.T) {
	db := testDB(t)
	if err := Sync(db, testCatalog(t), quietLogger()); err != nil {
		t.Fatal(err)
	}
	for _, q := range []string{`"`, "AND", "apple OR", "*", "(", "NEAR("} {
		if _, err := db.Search(q, 10); err != nil {
			t.Errorf("Search(%q): %v", q, err)
		}
	}
	results, err := db.Search("   ", 10)
	if err != nil || len(results) != 0 {
		t.Errorf("Search(blank) = %+v, %v; want none", results, err)
	}
}
