// Package report computes monthly spending summaries and budget alert
// states from stored expenses.
package report

import (
	"database/sql"
	"fmt"
	"time"
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Summary is one month of spending for a user.
type Summary struct {
	Year       int                `json:"year"`
	Month      int                `json:"month"`
	Spent      float64            `json:"spent"`
	Saved      float64            `json:"saved"`
	Categories map[string]float64 `json:"categories"`
}

// monthRange returns the [first, next-first) bounds for a month as ISO date
// strings. Lexicographic comparison on YYYY-MM-DD text is range-correct.
func monthRange(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first.Format("2006-01-02"), first.AddDate(0, 1, 0).Format("2006-01-02")
}

// CategoryBreakdown sums the user's expense amounts per category for one
// calendar month. Rows with an empty category are bucketed under "Other".
func (s *Service) CategoryBreakdown(username string, year, month int) (map[string]float64, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	from, to := monthRange(year, month)

	rows, err := s.db.Query(
		`SELECT category, SUM(amount) FROM expenses
		 WHERE username = ? AND date >= ? AND date < ?
		 GROUP BY category`,
		username, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("scan breakdown row: %w", err)
		}
		if category == "" {
			category = "Other"
		}
		out[category] += total
	}
	return out, rows.Err()
}

// MonthTotal returns the user's total spending for one calendar month.
func (s *Service) MonthTotal(username string, year, month int) (float64, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("invalid month %d", month)
	}
	from, to := monthRange(year, month)

	var total float64
	err := s.db.QueryRow(
		`SELECT IFNULL(SUM(amount), 0) FROM expenses
		 WHERE username = ? AND date >= ? AND date < ?`,
		username, from, to,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("month total: %w", err)
	}
	return total, nil
}

// MonthSummary combines the breakdown with the user's main budget.
// Saved is budget minus spent when a positive budget exists, else zero.
func (s *Service) MonthSummary(username string, year, month int, mainBudget *float64) (*Summary, error) {
	categories, err := s.CategoryBreakdown(username, year, month)
	if err != nil {
		return nil, err
	}

	var spent float64
	for _, v := range categories {
		spent += v
	}

	var saved float64
	if mainBudget != nil && *mainBudget > 0 {
		saved = *mainBudget - spent
	}

	return &Summary{
		Year:       year,
		Month:      month,
		Spent:      spent,
		Saved:      saved,
		Categories: categories,
	}, nil
}
