// Package tracker coordinates the food catalog, the daily logs, their data
// files and the search index for one owner.
package tracker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/starford/yada/internal/apperr"
	"github.com/starford/yada/internal/catalog"
	"github.com/starford/yada/internal/checksum"
	"github.com/starford/yada/internal/foodlog"
	"github.com/starford/yada/internal/index"
	"github.com/starford/yada/internal/models"
	"github.com/starford/yada/internal/storage"
)

// Event kinds passed to the Notifier.
const (
	EventLogChanged     = "log.changed"
	EventCatalogChanged = "catalog.changed"
)

// Notifier is called after a successful mutation. date is the affected log
// date, or "" for catalog changes.
type Notifier func(kind, date string)

// FoodDetail is the full representation of a catalog food.
type FoodDetail struct {
	Identifier string             `json:"identifier"`
	Composite  bool               `json:"composite"`
	Keywords   []string           `json:"keywords"`
	Calories   float64            `json:"calories_per_serving"`
	Components []models.Component `json:"components,omitempty"`
}

// DayView is one day's log with its comparison against the target.
type DayView struct {
	Date       string            `json:"date"`
	Active     bool              `json:"active"`
	Entries    []models.LogEntry `json:"entries"`
	Total      float64           `json:"total_calories"`
	Target     float64           `json:"target"`
	Difference float64           `json:"difference"`
	UndoDepth  int               `json:"undo_depth"`
}

// Service owns one catalog and one log store. Every method is serialized by
// an internal mutex, and every mutation is written to disk before it
// returns. A failed write rolls the in-memory change back.
type Service struct {
	mu sync.Mutex

	files  storage.Provider
	index  index.FoodIndex
	logger *slog.Logger
	now    func() time.Time
	notify Notifier
	target float64

	catalog       *catalog.Catalog
	logs          *foodlog.Store
	foodsChecksum string
}

// Option configures a Service.
type Option func(*Service)

// WithIndex mirrors the catalog into idx for full-text search.
func WithIndex(idx index.FoodIndex) Option {
	return func(s *Service) { s.index = idx }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock sets the clock used to pick the initial active date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotifier registers a callback for mutations.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notify = n }
}

// WithTarget sets the default daily calorie target.
func WithTarget(kcal float64) Option {
	return func(s *Service) { s.target = kcal }
}

// Open loads owner's catalog and logs from files and makes today the active
// date.
func Open(files storage.Provider, owner string, opts ...Option) (*Service, error) {
	s := &Service{
		files:  files,
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, raw, err := storage.ReadFoods(files)
	if err != nil {
		return nil, fmt.Errorf("tracker: read foods: %w", err)
	}
	cat, err := catalog.Load(doc.BasicFoods, doc.CompositeFoods)
	if err != nil {
		return nil, fmt.Errorf("tracker: %w", err)
	}

	logsDoc, err := storage.ReadLogs(files, owner)
	if err != nil {
		return nil, fmt.Errorf("tracker: read logs: %w", err)
	}
	logs, err := foodlog.Restore(owner, logsDoc.DailyLogs)
	if err != nil {
		return nil, fmt.Errorf("tracker: restore logs: %w", err)
	}
	if err := logs.SetActiveDate(foodlog.FormatDate(s.now())); err != nil {
		return nil, fmt.Errorf("tracker: %w", err)
	}

	s.catalog = cat
	s.logs = logs
	if raw != nil {
		s.foodsChecksum = checksum.Sum(raw)
	}
	s.syncIndex()

	s.logger.Info("tracker: opened",
		slog.String("owner", owner),
		slog.Int("foods", cat.Len()),
		slog.Int("days", len(logsDoc.DailyLogs)),
		slog.String("active_date", logs.ActiveDate()))
	return s, nil
}

// Owner returns the owner key of the log store.
func (s *Service) Owner() string {
	return s.logs.Owner()
}

// Target returns the default daily calorie target.
func (s *Service) Target() float64 {
	return s.target
}

// AddAtomicFood adds a food with a direct calorie rate to the catalog.
func (s *Service) AddAtomicFood(_ context.Context, identifier string, keywords []string, calories float64) (*FoodDetail, error) {
	return s.mutateCatalog(identifier, func(next *catalog.Catalog) error {
		return next.AddAtomic(identifier, keywords, calories)
	})
}

// AddCompositeFood adds a composite food to the catalog.
func (s *Service) AddCompositeFood(_ context.Context, identifier string, keywords []string, refs []models.ComponentRef) (*FoodDetail, error) {
	return s.mutateCatalog(identifier, func(next *catalog.Catalog) error {
		return next.AddComposite(identifier, keywords, refs)
	})
}

// mutateCatalog applies fn to a copy of the catalog, writes the copy and only
// then makes it current.
func (s *Service) mutateCatalog(identifier string, fn func(next *catalog.Catalog) error) (*FoodDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.catalog.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := s.saveFoods(next); err != nil {
		return nil, err
	}
	s.catalog = next
	s.syncIndex()
	s.emit(EventCatalogChanged, "")

	detail, _ := s.foodDetail(identifier)
	return detail, nil
}

// SearchFoods returns foods whose identifier or a keyword starts with query.
func (s *Service) SearchFoods(_ context.Context, query string) []models.FoodMatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Search(query)
}

// FullTextSearch searches identifiers, keywords and composite ingredients
// through the index.
func (s *Service) FullTextSearch(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	if s.index == nil {
		return nil, fmt.Errorf("tracker: full-text search: %w: index disabled", apperr.ErrNotFound)
	}
	return s.index.Search(query, limit)
}

// Food returns the catalog entry for identifier.
func (s *Service) Food(_ context.Context, identifier string) (*FoodDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	detail, ok := s.foodDetail(identifier)
	if !ok {
		return nil, fmt.Errorf("%w: food %s", apperr.ErrNotFound, identifier)
	}
	return detail, nil
}

func (s *Service) foodDetail(identifier string) (*FoodDetail, bool) {
	if f, ok := s.catalog.Atomic(identifier); ok {
		return &FoodDetail{Identifier: f.Identifier, Keywords: f.Keywords, Calories: f.CaloriesPerServing}, true
	}
	if f, ok := s.catalog.Composite(identifier); ok {
		return &FoodDetail{
			Identifier: f.Identifier,
			Composite:  true,
			Keywords:   f.Keywords,
			Calories:   f.Calories(),
			Components: f.Components,
		}, true
	}
	return nil, false
}

// ActiveDate returns the date mutations apply to.
func (s *Service) ActiveDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs.ActiveDate()
}

// SetDate changes the active date. A new date gets an empty log, which is
// written out so that it survives a restart.
func (s *Service) SetDate(_ context.Context, date string) (*DayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := foodlog.ParseDate(date); err != nil {
		return nil, err
	}
	if _, existed := s.logs.Log(date); !existed {
		// Write the new empty day first so a failed write leaves the store
		// untouched.
		snaps := append(s.logs.Snapshots(), models.DaySnapshot{Date: date, Entries: []models.LogEntry{}})
		sort.Slice(snaps, func(i, j int) bool { return snaps[i].Date < snaps[j].Date })
		if err := s.writeLogs(snaps); err != nil {
			return nil, err
		}
	}
	if err := s.logs.SetActiveDate(date); err != nil {
		return nil, err
	}
	return s.dayView(date), nil
}

// LogFood logs servings of a food on the active date. A composite is
// expanded into its atomic components, each of which is one undo step.
func (s *Service) LogFood(_ context.Context, identifier string, servings float64) (*DayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if servings <= 0 {
		return nil, fmt.Errorf("%w: got %v", apperr.ErrInvalidServings, servings)
	}
	parts, ok := s.catalog.Resolve(identifier, servings)
	if !ok {
		return nil, fmt.Errorf("%w: food %s", apperr.ErrNotFound, identifier)
	}

	applied := 0
	for _, p := range parts {
		if err := s.logs.AddFood(p.Food, p.Quantity); err != nil {
			s.rollback(applied)
			return nil, err
		}
		applied++
	}
	if err := s.saveLogs(); err != nil {
		s.rollback(applied)
		return nil, err
	}

	date := s.logs.ActiveDate()
	s.logger.Debug("tracker: logged food",
		slog.String("food", identifier),
		slog.Float64("servings", servings),
		slog.Int("components", len(parts)),
		slog.String("date", date))
	s.emit(EventLogChanged, date)
	return s.dayView(date), nil
}

// RemoveFood removes a food from the active date's log.
func (s *Service) RemoveFood(_ context.Context, identifier string) (*DayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.logs.RemoveFood(identifier); err != nil {
		return nil, err
	}
	if err := s.saveLogs(); err != nil {
		s.rollback(1)
		return nil, err
	}

	date := s.logs.ActiveDate()
	s.emit(EventLogChanged, date)
	return s.dayView(date), nil
}

// Undo reverts the last mutation of the active date's log.
func (s *Service) Undo(_ context.Context) (*DayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.logs.Undo(); err != nil {
		return nil, err
	}
	if err := s.saveLogs(); err != nil {
		// The reverted action cannot be re-applied; memory now differs from disk
		// until the next successful write.
		s.logger.Error("tracker: save after undo failed", slog.String("error", err.Error()))
		return nil, err
	}

	date := s.logs.ActiveDate()
	s.emit(EventLogChanged, date)
	return s.dayView(date), nil
}

// Day returns the view of date, or of the active date when date is empty.
// A valid date without a log yields an empty view.
func (s *Service) Day(_ context.Context, date string) (*DayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if date == "" {
		date = s.logs.ActiveDate()
	}
	if _, err := foodlog.ParseDate(date); err != nil {
		return nil, err
	}
	return s.dayView(date), nil
}

// Dates returns every date with a log, ascending.
func (s *Service) Dates(_ context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs.Dates()
}

// Summary compares each date from start to end against target, or against
// the default target when target is nil.
func (s *Service) Summary(_ context.Context, start, end string, target *float64) ([]models.DaySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.target
	if target != nil {
		t = *target
	}
	if t < 0 || math.IsInf(t, 0) || math.IsNaN(t) {
		return nil, fmt.Errorf("%w: got %v", apperr.ErrInvalidTarget, t)
	}
	return s.logs.RangeSummary(start, end, t)
}

// ReloadCatalog re-reads the foods file. It reports false when the file is
// missing or unchanged since it was last read or written.
func (s *Service) ReloadCatalog(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, raw, err := storage.ReadFoods(s.files)
	if err != nil {
		return false, fmt.Errorf("tracker: reload foods: %w", err)
	}
	if raw == nil {
		return false, nil
	}
	sum := checksum.Sum(raw)
	if sum == s.foodsChecksum {
		return false, nil
	}
	cat, err := catalog.Load(doc.BasicFoods, doc.CompositeFoods)
	if err != nil {
		return false, fmt.Errorf("tracker: reload foods: %w", err)
	}
	s.catalog = cat
	s.foodsChecksum = sum
	s.syncIndex()
	s.logger.Info("tracker: catalog reloaded", slog.Int("foods", cat.Len()))
	s.emit(EventCatalogChanged, "")
	return true, nil
}

func (s *Service) dayView(date string) *DayView {
	view := &DayView{
		Date:    date,
		Active:  date == s.logs.ActiveDate(),
		Entries: []models.LogEntry{},
		Target:  s.target,
	}
	view.Difference = -view.Target
	if l, ok := s.logs.Log(date); ok {
		view.Entries = l.Entries()
		view.UndoDepth = l.UndoDepth()
	}
	if sum, ok := s.logs.Compare(date, s.target); ok {
		view.Total = sum.Actual
		view.Difference = sum.Difference
	}
	return view
}

// rollback undoes the last n log mutations after a failure.
func (s *Service) rollback(n int) {
	for i := 0; i < n; i++ {
		if err := s.logs.Undo(); err != nil {
			s.logger.Error("tracker: rollback failed", slog.String("error", err.Error()))
			return
		}
	}
}

func (s *Service) saveFoods(cat *catalog.Catalog) error {
	atomics, composites := cat.Records()
	data, err := storage.WriteFoods(s.files, &storage.FoodsDocument{
		BasicFoods:     atomics,
		CompositeFoods: composites,
	})
	if err != nil {
		s.logger.Error("tracker: save foods failed", slog.String("error", err.Error()))
		return fmt.Errorf("tracker: save foods: %w", err)
	}
	s.foodsChecksum = checksum.Sum(data)
	return nil
}

func (s *Service) saveLogs() error {
	return s.writeLogs(s.logs.Snapshots())
}

func (s *Service) writeLogs(snaps []models.DaySnapshot) error {
	err := storage.WriteLogs(s.files, &storage.LogsDocument{
		UserName:  s.logs.Owner(),
		DailyLogs: snaps,
	})
	if err != nil {
		s.logger.Error("tracker: save logs failed", slog.String("error", err.Error()))
		return fmt.Errorf("tracker: save logs: %w", err)
	}
	return nil
}

func (s *Service) syncIndex() {
	if s.index == nil {
		return
	}
	if err := index.Sync(s.index, s.catalog, s.logger); err != nil {
		s.logger.Warn("tracker: index sync failed", slog.String("error", err.Error()))
	}
}

func (s *Service) emit(kind, date string) {
	if s.notify != nil {
		s.notify(kind, date)
	}
}
