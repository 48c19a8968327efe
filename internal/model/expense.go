package model

// Expense is a single spending record. Split, when present, maps family
// member names to their share of the amount.
type Expense struct {
	ID             int64              `json:"id"`
	Username       string             `json:"username"`
	Date           string             `json:"date"` // YYYY-MM-DD
	Amount         float64            `json:"amount"`
	Category       string             `json:"category"`
	AssignedMember string             `json:"assigned_member"`
	Split          map[string]float64 `json:"split,omitempty"`
	Note           string             `json:"note"`
}
