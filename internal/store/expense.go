package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"fintrack/internal/model"
)

const dateLayout = "2006-01-02"

type ExpenseStore struct {
	db *sql.DB
}

func NewExpenseStore(db *sql.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

func scanExpense(scanner interface{ Scan(...any) error }) (*model.Expense, error) {
	var e model.Expense
	var splitJSON string
	err := scanner.Scan(
		&e.ID, &e.Username, &e.Date, &e.Amount, &e.Category,
		&e.AssignedMember, &splitJSON, &e.Note,
	)
	if err != nil {
		return nil, err
	}
	if splitJSON != "" {
		// A malformed stored split degrades to no split, not an error.
		var split map[string]float64
		if err := json.Unmarshal([]byte(splitJSON), &split); err == nil {
			e.Split = split
		}
	}
	return &e, nil
}

const expenseCols = `id, username, date, amount, category, assigned_member, split_json, note`

// Add inserts an expense. An empty date defaults to today; any other value
// must be a real calendar date in YYYY-MM-DD form. Negative amounts are
// stored as given (refunds).
func (s *ExpenseStore) Add(username string, e model.Expense) (*model.Expense, error) {
	if e.Date == "" {
		e.Date = time.Now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, e.Date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", e.Date, err)
	}

	splitJSON := ""
	if len(e.Split) > 0 {
		data, err := json.Marshal(e.Split)
		if err != nil {
			return nil, fmt.Errorf("marshal split: %w", err)
		}
		splitJSON = string(data)
	}

	result, err := s.db.Exec(
		`INSERT INTO expenses (username, date, amount, category, assigned_member, split_json, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		username, e.Date, e.Amount, e.Category, e.AssignedMember, splitJSON, e.Note,
	)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(username, id)
}

func (s *ExpenseStore) GetByID(username string, id int64) (*model.Expense, error) {
	row := s.db.QueryRow(
		`SELECT `+expenseCols+` FROM expenses WHERE username = ? AND id = ?`,
		username, id,
	)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// List returns the user's expenses, newest first.
func (s *ExpenseStore) List(username string) ([]model.Expense, error) {
	rows, err := s.db.Query(
		`SELECT `+expenseCols+` FROM expenses WHERE username = ? ORDER BY date DESC, id DESC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

// Delete removes one expense by id, reporting whether a row was removed.
func (s *ExpenseStore) Delete(username string, id int64) (bool, error) {
	result, err := s.db.Exec(
		`DELETE FROM expenses WHERE username = ? AND id = ?`,
		username, id,
	)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
