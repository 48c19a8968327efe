package model

import "time"

// Budget is the single current budget row for a user. MainBudget is nil
// when the user never set an overall monthly budget.
type Budget struct {
	Username       string             `json:"username"`
	MainBudget     *float64           `json:"main_budget"`
	CategoryLimits map[string]float64 `json:"category_limits"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
