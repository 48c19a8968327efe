package model

type Goal struct {
	ID               int64   `json:"id"`
	Username         string  `json:"username"`
	GoalName         string  `json:"goal_name"`
	TargetAmount     float64 `json:"target_amount"`
	MonthsToComplete int     `json:"months_to_complete"`
	CreatedOn        string  `json:"created_on"` // YYYY-MM-DD
}
