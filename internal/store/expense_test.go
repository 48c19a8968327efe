package store

import (
	"testing"
	"time"

	"fintrack/internal/model"
)

func TestExpenseAddAndList(t *testing.T) {
	es := NewExpenseStore(setupTestDB(t))

	if _, err := es.Add("alice", model.Expense{Date: "2024-05-01", Amount: 100, Category: "Food"}); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if _, err := es.Add("alice", model.Expense{Date: "2024-05-15", Amount: 50, Category: "Food", Note: "groceries"}); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	expenses, err := es.List("alice")
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("len = %d, want 2", len(expenses))
	}
	// Newest first
	if expenses[0].Date != "2024-05-15" {
		t.Errorf("first date = %q, want 2024-05-15", expenses[0].Date)
	}
	if expenses[1].Amount != 100 {
		t.Errorf("amount = %v, want 100", expenses[1].Amount)
	}
}

func TestExpenseDefaultDate(t *testing.T) {
	es := NewExpenseStore(setupTestDB(t))

	e, err := es.Add("alice", model.Expense{Amount: 10, Category: "Misc"})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if e.Date != time.Now().Format("2006-01-02") {
		t.Errorf("date = %q, want today", e.Date)
	}
}

func TestExpenseRejectsBadDate(t *testing.T) {
	es := NewExpenseStore(setupTestDB(t))

	bad := []string{"15-05-2024", "2024/05/15", "2024-13-01", "yesterday"}
	for _, d := range bad {
		if _, err := es.Add("alice", model.Expense{Date: d, Amount: 10}); err == nil {
			t.Errorf("expected error for date %q", d)
		}
	}
}

func TestExpenseSplitRoundTrip(t *testing.T) {
	es := NewExpenseStore(setupTestDB(t))

	split := map[string]float64{"Bob": 60, "Carol": 40}
	created, err := es.Add("alice", model.Expense{Date: "2024-05-01", Amount: 100, Category: "Rent", Split: split})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if created.Split["Bob"] != 60 || created.Split["Carol"] != 40 {
		t.Errorf("split = %v, want %v", created.Split, split)
	}

	// No split stays absent
	plain, err := es.Add("alice", model.Expense{Date: "2024-05-02", Amount: 5})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if plain.Split != nil {
		t.Errorf("split = %v, want nil", plain.Split)
	}
}

func TestExpenseMalformedSplitDegrades(t *testing.T) {
	db := setupTestDB(t)
	es := NewExpenseStore(db)

	// Simulate a corrupted row written by an old client
	_, err := db.Exec(
		`INSERT INTO expenses (username, date, amount, category, split_json) VALUES (?, ?, ?, ?, ?)`,
		"alice", "2024-05-01", 42.0, "Food", "{not json",
	)
	if err != nil {
		t.Fatalf("insert raw row: %v", err)
	}

	expenses, err := es.List("alice")
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("len = %d, want 1", len(expenses))
	}
	if expenses[0].Split != nil {
		t.Errorf("split = %v, want nil for malformed stored split", expenses[0].Split)
	}
	if expenses[0].Amount != 42 {
		t.Errorf("amount = %v, want 42", expenses[0].Amount)
	}
}

func TestExpenseDelete(t *testing.T) {
	es := NewExpenseStore(setupTestDB(t))

	e, err := es.Add("alice", model.Expense{Date: "2024-05-01", Amount: 10})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}

	deleted, err := es.Delete("alice", e.ID)
	if err != nil {
		t.Fatalf("delete expense: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report a removed row")
	}

	deleted, err = es.Delete("alice", e.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Error("expected second delete to report nothing removed")
	}
}

func TestExpenseDeleteOtherUsersRow(t *testing.T) {
	es := NewExpenseStore(setupTestDB(t))

	e, err := es.Add("alice", model.Expense{Date: "2024-05-01", Amount: 10})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}

	deleted, err := es.Delete("mallory", e.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted {
		t.Error("expected username scoping to block the delete")
	}
}
