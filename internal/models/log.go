package models

// LogEntry is one food line in a daily log. CaloriesPerServing is the rate
// captured when the entry was created.
type LogEntry struct {
	FoodID             string  `json:"food_id" yaml:"food_id"`
	Servings           float64 `json:"servings" yaml:"servings"`
	CaloriesPerServing float64 `json:"calories" yaml:"calories"`
}

// Calories returns servings multiplied by the captured rate.
func (e LogEntry) Calories() float64 {
	return e.Servings * e.CaloriesPerServing
}

// DaySnapshot is the persisted form of a daily log. Undo history is not part of it.
type DaySnapshot struct {
	Date    string     `json:"date" yaml:"date"`
	Entries []LogEntry `json:"entries" yaml:"entries"`
}

// DaySummary compares one day's intake against a target.
type DaySummary struct {
	Date       string  `json:"date"`
	Actual     float64 `json:"actual"`
	Target     float64 `json:"target"`
	Difference float64 `json:"difference"`
}
