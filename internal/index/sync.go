package index

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/starford/yada/internal/catalog"
	"github.com/starford/yada/internal/checksum"
)

// Sync brings the index up to date with the catalog:
//   - new/changed foods are upserted
//   - foods no longer in the catalog are deleted
func Sync(db FoodIndex, cat *catalog.Catalog, logger *slog.Logger) error {
	rows := Rows(cat)

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		seen[row.Key] = struct{}{}
		if checksums[row.Key] == row.Checksum {
			continue
		}
		if err := db.UpsertFood(row); err != nil {
			logger.Warn("sync: index failed", slog.String("food", row.Identifier), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: indexed", slog.String("food", row.Identifier))
	}

	for k := range checksums {
		if _, ok := seen[k]; ok {
			continue
		}
		if err := db.DeleteFood(k); err != nil {
			logger.Warn("sync: delete failed", slog.String("food", k), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: removed stale", slog.String("food", k))
		}
	}
	return nil
}

// Rows converts every catalog food into an index row with its checksum set.
func Rows(cat *catalog.Catalog) []FoodRow {
	atomics, composites := cat.Records()
	out := make([]FoodRow, 0, len(atomics)+len(composites))

	for _, f := range atomics {
		out = append(out, newRow(f.Identifier, KindAtomic, f.Keywords, nil, f.CaloriesPerServing))
	}
	for _, f := range composites {
		cal, _ := cat.Calories(f.Identifier)
		names := make([]string, 0, len(f.Components))
		for _, c := range f.Components {
			names = append(names, c.Identifier)
		}
		out = append(out, newRow(f.Identifier, KindComposite, f.Keywords, names, cal))
	}
	return out
}

func newRow(identifier, kind string, keywords, components []string, calories float64) FoodRow {
	row := FoodRow{
		Key:        strings.ToLower(identifier),
		Identifier: identifier,
		Kind:       kind,
		Keywords:   keywords,
		Components: components,
		Calories:   calories,
	}
	row.Checksum = checksum.Fields(
		row.Identifier,
		row.Kind,
		strings.Join(row.Keywords, ","),
		strings.Join(row.Components, ","),
		strconv.FormatFloat(row.Calories, 'g', -1, 64),
	)
	return row
}
