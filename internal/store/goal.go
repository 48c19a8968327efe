package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"fintrack/internal/model"
)

type GoalStore struct {
	db *sql.DB
}

func NewGoalStore(db *sql.DB) *GoalStore {
	return &GoalStore{db: db}
}

func scanGoal(scanner interface{ Scan(...any) error }) (*model.Goal, error) {
	var g model.Goal
	err := scanner.Scan(&g.ID, &g.Username, &g.GoalName, &g.TargetAmount, &g.MonthsToComplete, &g.CreatedOn)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

const goalCols = `id, username, goal_name, target_amount, months_to_complete, created_on`

// Add inserts a savings goal. An empty created_on defaults to today, the
// target amount must not be negative, and the month count is clamped to a
// minimum of one.
func (s *GoalStore) Add(username string, g model.Goal) (*model.Goal, error) {
	if g.TargetAmount < 0 {
		return nil, fmt.Errorf("target amount must not be negative")
	}
	if g.MonthsToComplete < 1 {
		g.MonthsToComplete = 1
	}
	if g.CreatedOn == "" {
		g.CreatedOn = time.Now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, g.CreatedOn); err != nil {
		return nil, fmt.Errorf("invalid created_on %q: %w", g.CreatedOn, err)
	}

	result, err := s.db.Exec(
		`INSERT INTO goals (username, goal_name, target_amount, months_to_complete, created_on)
		 VALUES (?, ?, ?, ?, ?)`,
		username, g.GoalName, g.TargetAmount, g.MonthsToComplete, g.CreatedOn,
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+goalCols+` FROM goals WHERE id = ?`, id)
	return scanGoal(row)
}

// List returns the user's goals, newest first.
func (s *GoalStore) List(username string) ([]model.Goal, error) {
	rows, err := s.db.Query(
		`SELECT `+goalCols+` FROM goals WHERE username = ? ORDER BY id DESC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// Delete removes a goal by id when identifier is numeric, or every goal
// with that name otherwise. Reports whether any row was removed.
func (s *GoalStore) Delete(username, identifier string) (bool, error) {
	var result sql.Result
	var err error
	if id, convErr := strconv.ParseInt(identifier, 10, 64); convErr == nil {
		result, err = s.db.Exec(
			`DELETE FROM goals WHERE username = ? AND id = ?`,
			username, id,
		)
	} else {
		result, err = s.db.Exec(
			`DELETE FROM goals WHERE username = ? AND goal_name = ?`,
			username, identifier,
		)
	}
	if err != nil {
		return false, fmt.Errorf("delete goal: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
