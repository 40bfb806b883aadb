// Package models defines the domain types for yada.
package models

// AtomicFood is a food with a directly specified calorie rate.
type AtomicFood struct {
	Identifier         string   `json:"identifier" yaml:"identifier"`
	Keywords           []string `json:"keywords" yaml:"keywords"`
	CaloriesPerServing float64  `json:"calories_per_serving" yaml:"calories_per_serving"`
}

// Component is one atomic line item of a composite food.
type Component struct {
	Food     AtomicFood `json:"food"`
	Quantity float64    `json:"quantity"`
}

// Calories returns the calories contributed by the component.
func (c Component) Calories() float64 {
	return c.Food.CaloriesPerServing * c.Quantity
}

// CompositeFood is a weighted combination of atomic foods. Components never
// reference another composite.
type CompositeFood struct {
	Identifier string      `json:"identifier"`
	Keywords   []string    `json:"keywords"`
	Components []Component `json:"components"`
}

// Calories returns the calories of one serving of the composite.
func (c CompositeFood) Calories() float64 {
	var total float64
	for _, comp := range c.Components {
		total += comp.Calories()
	}
	return total
}

// ComponentRef names a food (atomic or composite) and a quantity of it.
type ComponentRef struct {
	Identifier string  `json:"food" yaml:"food"`
	Quantity   float64 `json:"quantity" yaml:"quantity"`
}

// CompositeRecord is the persisted form of a composite food.
type CompositeRecord struct {
	Identifier string         `json:"identifier" yaml:"identifier"`
	Keywords   []string       `json:"keywords" yaml:"keywords"`
	Components []ComponentRef `json:"components" yaml:"components"`
}

// FoodMatch is one search hit.
type FoodMatch struct {
	Identifier string  `json:"identifier"`
	Calories   float64 `json:"calories_per_serving"`
	Composite  bool    `json:"composite"`
}
