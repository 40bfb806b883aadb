// Package profile holds the user's body data and derives a daily calorie
// target from it.
package profile

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Genders.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Activity levels and their TDEE multipliers.
const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

var activityFactors = map[string]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// Profile describes the person whose intake is tracked. TargetOverride, when
// positive, replaces the computed target.
type Profile struct {
	Gender         string  `yaml:"gender" json:"gender"`
	HeightCm       float64 `yaml:"height_cm" json:"height_cm"`
	WeightKg       float64 `yaml:"weight_kg" json:"weight_kg"`
	Age            int     `yaml:"age" json:"age"`
	ActivityLevel  string  `yaml:"activity_level" json:"activity_level"`
	TargetOverride float64 `yaml:"target_calories" json:"target_calories,omitempty"`
}

// Validate validates the profile.
func (p *Profile) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Gender, validation.Required, validation.In(GenderMale, GenderFemale)),
		validation.Field(&p.HeightCm, validation.Required, validation.Min(50.0), validation.Max(300.0)),
		validation.Field(&p.WeightKg, validation.Required, validation.Min(20.0), validation.Max(500.0)),
		validation.Field(&p.Age, validation.Required, validation.Min(1), validation.Max(120)),
		validation.Field(&p.ActivityLevel, validation.Required, validation.In(
			ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive)),
		validation.Field(&p.TargetOverride, validation.Min(0.0)),
	)
}

// Update is a partial change to a profile. Nil fields are left alone.
type Update struct {
	HeightCm      *float64
	WeightKg      *float64
	Age           *int
	ActivityLevel *string
}

// Apply returns a copy of p with u applied. The result is validated.
func (p Profile) Apply(u Update) (Profile, error) {
	if u.HeightCm != nil {
		p.HeightCm = *u.HeightCm
	}
	if u.WeightKg != nil {
		p.WeightKg = *u.WeightKg
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.ActivityLevel != nil {
		p.ActivityLevel = *u.ActivityLevel
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile: %w", err)
	}
	return p, nil
}

// BMR returns the basal metabolic rate using the Mifflin-St Jeor equation.
func (p Profile) BMR() float64 {
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if p.Gender == GenderFemale {
		return bmr - 161
	}
	return bmr + 5
}

// TargetCalories returns the daily calorie target.
func (p Profile) TargetCalories() float64 {
	if p.TargetOverride > 0 {
		return p.TargetOverride
	}
	factor, ok := activityFactors[p.ActivityLevel]
	if !ok {
		factor = activityFactors[ActivitySedentary]
	}
	return p.BMR() * factor
}
