package model

type FamilyMember struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username"`
	MemberName    string  `json:"member_name"`
	Relation      string  `json:"relation"`
	MonthlyIncome float64 `json:"monthly_income"`
	Age           int     `json:"age"`
	Notes         string  `json:"notes"`
	IsHead        bool    `json:"is_head"`
	FamilyName    string  `json:"family_name"`
}
