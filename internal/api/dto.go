package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/yada/internal/foodlog"
	"github.com/starford/yada/internal/models"
	"github.com/starford/yada/internal/tracker"
)

// CreateAtomicFoodRequest is the request body for adding an atomic food.
type CreateAtomicFoodRequest struct {
	Identifier string   `json:"identifier" example:"apple" validate:"required"`
	Keywords   []string `json:"keywords" example:"fruit"`
	Calories   float64  `json:"calories_per_serving" example:"95"`
}

// Validate validates the request.
func (r *CreateAtomicFoodRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Identifier, validation.Required),
		validation.Field(&r.Calories, validation.Min(0.0)),
	)
}

// ComponentRequest is one weighted reference inside a composite request.
type ComponentRequest struct {
	Food     string  `json:"food" example:"peanut_butter" validate:"required"`
	Quantity float64 `json:"quantity" example:"2" validate:"required"`
}

// Validate validates the component.
func (c ComponentRequest) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Food, validation.Required),
		validation.Field(&c.Quantity, validation.Required, validation.Min(0.0).Exclusive()),
	)
}

// CreateCompositeFoodRequest is the request body for adding a composite food.
type CreateCompositeFoodRequest struct {
	Identifier string             `json:"identifier" example:"snack" validate:"required"`
	Keywords   []string           `json:"keywords" example:"afternoon"`
	Components []ComponentRequest `json:"components" validate:"required"`
}

// Validate validates the request and each of its components.
func (r *CreateCompositeFoodRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Identifier, validation.Required),
		validation.Field(&r.Components, validation.Required),
	)
}

func (r *CreateCompositeFoodRequest) refs() []models.ComponentRef {
	refs := make([]models.ComponentRef, len(r.Components))
	for i, c := range r.Components {
		refs[i] = models.ComponentRef{Identifier: c.Food, Quantity: c.Quantity}
	}
	return refs
}

// SetDateRequest is the request body for changing the active date.
type SetDateRequest struct {
	Date string `json:"date" example:"2024-03-01" validate:"required"`
}

// Validate validates the request.
func (r *SetDateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Date, validation.Required, validation.Date(foodlog.DateLayout)),
	)
}

// LogFoodRequest is the request body for logging servings of a food.
type LogFoodRequest struct {
	Food     string  `json:"food" example:"snack" validate:"required"`
	Servings float64 `json:"servings" example:"2" validate:"required"`
}

// Validate validates the request.
func (r *LogFoodRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Food, validation.Required),
		validation.Field(&r.Servings, validation.Required, validation.Min(0.0).Exclusive()),
	)
}

// FoodDetail is the full food response type (aliased from the domain layer).
type FoodDetail = tracker.FoodDetail

// DayView is the day log response type (aliased from the domain layer).
type DayView = tracker.DayView

// FoodListResponse wraps prefix search results.
type FoodListResponse struct {
	Foods []models.FoodMatch `json:"foods" validate:"required"`
}

// SearchResult is a single full-text hit in the API response.
type SearchResult struct {
	Identifier string  `json:"identifier" example:"snack" validate:"required"`
	Kind       string  `json:"kind" example:"composite" validate:"required"`
	Calories   float64 `json:"calories_per_serving" example:"475"`
	Snippet    string  `json:"snippet" example:"...[peanut]_butter..."`
}

// SearchResponse wraps full-text results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// DatesResponse lists the dates that have a log.
type DatesResponse struct {
	Dates []string `json:"dates" validate:"required"`
}

// SummaryResponse wraps a range comparison.
type SummaryResponse struct {
	Days []models.DaySummary `json:"days" validate:"required"`
}
