package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"fintrack/internal/model"
)

type BudgetStore struct {
	db *sql.DB
}

func NewBudgetStore(db *sql.DB) *BudgetStore {
	return &BudgetStore{db: db}
}

// Set replaces the user's budget. Each user has exactly one current row;
// calling Set twice leaves only the second value readable.
func (s *BudgetStore) Set(username string, mainBudget *float64, limits map[string]float64) error {
	if limits == nil {
		limits = map[string]float64{}
	}
	limitsJSON, err := json.Marshal(limits)
	if err != nil {
		return fmt.Errorf("marshal category limits: %w", err)
	}

	var mb sql.NullFloat64
	if mainBudget != nil {
		mb = sql.NullFloat64{Float64: *mainBudget, Valid: true}
	}

	_, err = s.db.Exec(
		`INSERT INTO budgets (username, main_budget, category_limits_json, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET
		   main_budget = excluded.main_budget,
		   category_limits_json = excluded.category_limits_json,
		   updated_at = excluded.updated_at`,
		username, mb, string(limitsJSON), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	return nil
}

// Get returns the user's current budget, or (nil, nil) when none was ever set.
func (s *BudgetStore) Get(username string) (*model.Budget, error) {
	var b model.Budget
	var mb sql.NullFloat64
	var limitsJSON string
	err := s.db.QueryRow(
		`SELECT username, main_budget, category_limits_json, updated_at FROM budgets WHERE username = ?`,
		username,
	).Scan(&b.Username, &mb, &limitsJSON, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}

	if mb.Valid {
		b.MainBudget = &mb.Float64
	}
	b.CategoryLimits = map[string]float64{}
	if limitsJSON != "" {
		if err := json.Unmarshal([]byte(limitsJSON), &b.CategoryLimits); err != nil {
			return nil, fmt.Errorf("parse category limits: %w", err)
		}
	}
	return &b, nil
}

// Delete removes the user's budget row, reporting whether one existed.
func (s *BudgetStore) Delete(username string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM budgets WHERE username = ?`, username)
	if err != nil {
		return false, fmt.Errorf("delete budget: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
