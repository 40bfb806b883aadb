// Package catalog stores atomic and composite foods and resolves composites
// into their atomic components.
//
// Composites are flattened when they are added: a composite that references
// another composite copies that composite's atomic components, scaled by the
// requested quantity. Stored composites therefore only ever point at atomic
// foods, and no lookup needs to recurse or guard against cycles.
//
// A Catalog is not safe for concurrent use.
package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/starford/yada/internal/apperr"
	"github.com/starford/yada/internal/models"
)

// Catalog holds foods keyed by their case-insensitive identifier. Atomic and
// composite foods share one namespace.
type Catalog struct {
	atomics    map[string]models.AtomicFood
	composites map[string]models.CompositeFood

	// insertion order, used when exporting records
	atomicOrder    []string
	compositeOrder []string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		atomics:    make(map[string]models.AtomicFood),
		composites: make(map[string]models.CompositeFood),
	}
}

// Load builds a catalog from persisted records. Composites are flattened in
// the given order, so a composite may only reference foods listed before it.
func Load(atomics []models.AtomicFood, composites []models.CompositeRecord) (*Catalog, error) {
	c := New()
	for _, a := range atomics {
		if err := c.AddAtomic(a.Identifier, a.Keywords, a.CaloriesPerServing); err != nil {
			return nil, fmt.Errorf("catalog: load food %q: %w", a.Identifier, err)
		}
	}
	for _, r := range composites {
		if err := c.AddComposite(r.Identifier, r.Keywords, r.Components); err != nil {
			return nil, fmt.Errorf("catalog: load composite %q: %w", r.Identifier, err)
		}
	}
	return c, nil
}

func key(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

func (c *Catalog) exists(k string) bool {
	if _, ok := c.atomics[k]; ok {
		return true
	}
	_, ok := c.composites[k]
	return ok
}

// AddAtomic registers a food with a direct calorie rate.
func (c *Catalog) AddAtomic(identifier string, keywords []string, caloriesPerServing float64) error {
	k := key(identifier)
	if k == "" {
		return fmt.Errorf("%w: identifier is required", apperr.ErrInvalidFood)
	}
	if caloriesPerServing < 0 || math.IsNaN(caloriesPerServing) || math.IsInf(caloriesPerServing, 0) {
		return fmt.Errorf("%w: calories per serving must be a non-negative number", apperr.ErrInvalidFood)
	}
	if c.exists(k) {
		return fmt.Errorf("%w: %s", apperr.ErrDuplicateIdentifier, identifier)
	}
	c.atomics[k] = models.AtomicFood{
		Identifier:         strings.TrimSpace(identifier),
		Keywords:           cleanKeywords(keywords),
		CaloriesPerServing: caloriesPerServing,
	}
	c.atomicOrder = append(c.atomicOrder, k)
	return nil
}

// AddComposite registers a composite food built from refs. A ref naming an
// atomic food is added as is; a ref naming a composite contributes each of
// that composite's components with its quantity multiplied by the ref's.
// Line items for the same atomic food are kept separate.
func (c *Catalog) AddComposite(identifier string, keywords []string, refs []models.ComponentRef) error {
	k := key(identifier)
	if k == "" {
		return fmt.Errorf("%w: identifier is required", apperr.ErrInvalidFood)
	}
	if c.exists(k) {
		return fmt.Errorf("%w: %s", apperr.ErrDuplicateIdentifier, identifier)
	}
	if len(refs) == 0 {
		return fmt.Errorf("%w: composite %s has no components", apperr.ErrInvalidFood, identifier)
	}

	var components []models.Component
	for _, ref := range refs {
		if !validQuantity(ref.Quantity) {
			return fmt.Errorf("%w: quantity of %s must be greater than zero", apperr.ErrInvalidFood, ref.Identifier)
		}
		rk := key(ref.Identifier)
		if food, ok := c.atomics[rk]; ok {
			components = append(components, models.Component{Food: food, Quantity: ref.Quantity})
			continue
		}
		if comp, ok := c.composites[rk]; ok {
			for _, inner := range comp.Components {
				scaled := inner.Quantity * ref.Quantity
				if !validQuantity(scaled) {
					return fmt.Errorf("%w: %v of %s scales %s to %v", apperr.ErrInvalidFood,
						ref.Quantity, ref.Identifier, inner.Food.Identifier, scaled)
				}
				components = append(components, models.Component{Food: inner.Food, Quantity: scaled})
			}
			continue
		}
		return fmt.Errorf("%w: %s", apperr.ErrComponentNotFound, ref.Identifier)
	}

	food := models.CompositeFood{
		Identifier: strings.TrimSpace(identifier),
		Keywords:   cleanKeywords(keywords),
		Components: components,
	}
	if cal := food.Calories(); math.IsInf(cal, 0) || math.IsNaN(cal) {
		return fmt.Errorf("%w: composite %s exceeds the calorie range", apperr.ErrInvalidFood, identifier)
	}
	c.composites[k] = food
	c.compositeOrder = append(c.compositeOrder, k)
	return nil
}

// Atomic returns the atomic food registered under identifier.
func (c *Catalog) Atomic(identifier string) (models.AtomicFood, bool) {
	f, ok := c.atomics[key(identifier)]
	if !ok {
		return models.AtomicFood{}, false
	}
	return copyAtomic(f), true
}

// Composite returns the flattened composite registered under identifier.
func (c *Catalog) Composite(identifier string) (models.CompositeFood, bool) {
	f, ok := c.composites[key(identifier)]
	if !ok {
		return models.CompositeFood{}, false
	}
	return copyComposite(f), true
}

// Calories returns the calories per serving of any food. For a composite it is
// the sum over its atomic components.
func (c *Catalog) Calories(identifier string) (float64, bool) {
	k := key(identifier)
	if f, ok := c.atomics[k]; ok {
		return f.CaloriesPerServing, true
	}
	if f, ok := c.composites[k]; ok {
		return f.Calories(), true
	}
	return 0, false
}

// Resolve returns the atomic portions that make up the given servings of a
// food. An atomic food resolves to itself.
func (c *Catalog) Resolve(identifier string, servings float64) ([]models.Component, bool) {
	k := key(identifier)
	if f, ok := c.atomics[k]; ok {
		return []models.Component{{Food: copyAtomic(f), Quantity: servings}}, true
	}
	f, ok := c.composites[k]
	if !ok {
		return nil, false
	}
	out := make([]models.Component, len(f.Components))
	for i, comp := range f.Components {
		out[i] = models.Component{Food: copyAtomic(comp.Food), Quantity: comp.Quantity * servings}
	}
	return out, true
}

// Search returns every food whose identifier or one of whose keywords starts
// with query, ignoring case. An empty query matches everything. Results are
// sorted by identifier.
func (c *Catalog) Search(query string) []models.FoodMatch {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []models.FoodMatch
	for _, f := range c.atomics {
		if matches(q, f.Identifier, f.Keywords) {
			out = append(out, models.FoodMatch{Identifier: f.Identifier, Calories: f.CaloriesPerServing})
		}
	}
	for _, f := range c.composites {
		if matches(q, f.Identifier, f.Keywords) {
			out = append(out, models.FoodMatch{Identifier: f.Identifier, Calories: f.Calories(), Composite: true})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Identifier) < strings.ToLower(out[j].Identifier)
	})
	return out
}

func matches(q, identifier string, keywords []string) bool {
	if strings.HasPrefix(strings.ToLower(identifier), q) {
		return true
	}
	for _, kw := range keywords {
		if strings.HasPrefix(strings.ToLower(kw), q) {
			return true
		}
	}
	return false
}

// Len returns the number of foods in the catalog.
func (c *Catalog) Len() int {
	return len(c.atomics) + len(c.composites)
}

// Records exports the catalog in insertion order. Composites are exported
// with their flattened atomic components, so Load reproduces them exactly.
func (c *Catalog) Records() ([]models.AtomicFood, []models.CompositeRecord) {
	atomics := make([]models.AtomicFood, 0, len(c.atomicOrder))
	for _, k := range c.atomicOrder {
		atomics = append(atomics, copyAtomic(c.atomics[k]))
	}
	composites := make([]models.CompositeRecord, 0, len(c.compositeOrder))
	for _, k := range c.compositeOrder {
		f := c.composites[k]
		refs := make([]models.ComponentRef, len(f.Components))
		for i, comp := range f.Components {
			refs[i] = models.ComponentRef{Identifier: comp.Food.Identifier, Quantity: comp.Quantity}
		}
		composites = append(composites, models.CompositeRecord{
			Identifier: f.Identifier,
			Keywords:   append([]string{}, f.Keywords...),
			Components: refs,
		})
	}
	return atomics, composites
}

// Clone returns an independent copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		atomics:        make(map[string]models.AtomicFood, len(c.atomics)),
		composites:     make(map[string]models.CompositeFood, len(c.composites)),
		atomicOrder:    append([]string(nil), c.atomicOrder...),
		compositeOrder: append([]string(nil), c.compositeOrder...),
	}
	for k, f := range c.atomics {
		out.atomics[k] = copyAtomic(f)
	}
	for k, f := range c.composites {
		out.composites[k] = copyComposite(f)
	}
	return out
}

// validQuantity reports whether q is a finite amount greater than zero.
func validQuantity(q float64) bool {
	return q > 0 && !math.IsInf(q, 0)
}

func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func copyAtomic(f models.AtomicFood) models.AtomicFood {
	f.Keywords = append([]string{}, f.Keywords...)
	return f
}

func copyComposite(f models.CompositeFood) models.CompositeFood {
	f.Keywords = append([]string{}, f.Keywords...)
	comps := make([]models.Component, len(f.Components))
	for i, comp := range f.Components {
		comps[i] = models.Component{Food: copyAtomic(comp.Food), Quantity: comp.Quantity}
	}
	f.Components = comps
	return f
}
