package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"fintrack/internal/model"
)

type FamilyStore struct {
	db *sql.DB
}

func NewFamilyStore(db *sql.DB) *FamilyStore {
	return &FamilyStore{db: db}
}

func scanFamilyMember(scanner interface{ Scan(...any) error }) (*model.FamilyMember, error) {
	var m model.FamilyMember
	var isHead int
	err := scanner.Scan(
		&m.ID, &m.Username, &m.MemberName, &m.Relation, &m.MonthlyIncome,
		&m.Age, &m.Notes, &isHead, &m.FamilyName,
	)
	if err != nil {
		return nil, err
	}
	m.IsHead = isHead != 0
	return &m, nil
}

const familyMemberCols = `id, username, member_name, relation, monthly_income, age, notes, is_head, family_name`

// ParseHeadFlag interprets the head-of-household checkbox value from the
// bulk replace path. Accepts "on", "true", "1" and "yes" case-insensitively;
// everything else is false. The single-insert path takes a plain bool and
// never goes through this.
func ParseHeadFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func clampMember(m *model.FamilyMember) {
	if m.MonthlyIncome < 0 {
		m.MonthlyIncome = 0
	}
	if m.Age < 0 {
		m.Age = 0
	}
}

// Add inserts one family member for the user.
func (s *FamilyStore) Add(username string, m model.FamilyMember) (*model.FamilyMember, error) {
	clampMember(&m)
	result, err := s.db.Exec(
		`INSERT INTO family_members (username, member_name, relation, monthly_income, age, notes, is_head, family_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		username, m.MemberName, m.Relation, m.MonthlyIncome, m.Age, m.Notes, boolToInt(m.IsHead), m.FamilyName,
	)
	if err != nil {
		return nil, fmt.Errorf("insert family member: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.getByID(username, id)
}

func (s *FamilyStore) getByID(username string, id int64) (*model.FamilyMember, error) {
	row := s.db.QueryRow(
		`SELECT `+familyMemberCols+` FROM family_members WHERE username = ? AND id = ?`,
		username, id,
	)
	m, err := scanFamilyMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family member: %w", err)
	}
	return m, nil
}

// List returns the user's family members in insertion order.
func (s *FamilyStore) List(username string) ([]model.FamilyMember, error) {
	rows, err := s.db.Query(
		`SELECT `+familyMemberCols+` FROM family_members WHERE username = ? ORDER BY id ASC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("list family members: %w", err)
	}
	defer rows.Close()

	var members []model.FamilyMember
	for rows.Next() {
		m, err := scanFamilyMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// Replace deletes all of the user's family members and inserts the supplied
// list in order, all inside one transaction. Every inserted row takes the
// given familyName.
func (s *FamilyStore) Replace(username, familyName string, members []model.FamilyMember) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM family_members WHERE username = ?`, username); err != nil {
		return fmt.Errorf("clear family: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO family_members (username, member_name, relation, monthly_income, age, notes, is_head, family_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range members {
		clampMember(&m)
		_, err := stmt.Exec(username, m.MemberName, m.Relation, m.MonthlyIncome, m.Age, m.Notes, boolToInt(m.IsHead), familyName)
		if err != nil {
			return fmt.Errorf("insert family member %q: %w", m.MemberName, err)
		}
	}

	return tx.Commit()
}

// Delete removes a family member by id when identifier is numeric, or every
// member with that name otherwise. Reports whether any row was removed.
func (s *FamilyStore) Delete(username, identifier string) (bool, error) {
	var result sql.Result
	var err error
	if id, convErr := strconv.ParseInt(identifier, 10, 64); convErr == nil {
		result, err = s.db.Exec(
			`DELETE FROM family_members WHERE username = ? AND id = ?`,
			username, id,
		)
	} else {
		result, err = s.db.Exec(
			`DELETE FROM family_members WHERE username = ? AND member_name = ?`,
			username, identifier,
		)
	}
	if err != nil {
		return false, fmt.Errorf("delete family member: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
