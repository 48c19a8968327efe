package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, username, email, password_hash, created_at`

// Create registers a new user with a hashed password. Returns ErrConflict
// when the username is already taken.
func (s *UserStore) Create(username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, hash,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByUsername(username string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// Authenticate reports whether the username/password pair is valid. An
// unknown username is not an error, just a failed login.
func (s *UserStore) Authenticate(username, password string) (bool, error) {
	u, err := s.GetByUsername(username)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, nil
	}
	return auth.VerifyPassword(password, u.PasswordHash), nil
}

// CreateResetToken issues a password-reset token for the user whose
// username or email matches identifier, overwriting any earlier token.
// Returns ErrNotFound when nothing matches.
func (s *UserStore) CreateResetToken(identifier string, ttl time.Duration) (string, error) {
	var username string
	err := s.db.QueryRow(
		`SELECT username FROM users WHERE username = ? OR (email != '' AND email = ?)`,
		identifier, identifier,
	).Scan(&username)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup user for reset: %w", err)
	}

	tokenBytes := make([]byte, 24)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(tokenBytes)
	expiry := time.Now().Add(ttl).Unix()

	_, err = s.db.Exec(
		`UPDATE users SET reset_token = ?, reset_expiry = ? WHERE username = ?`,
		token, expiry, username,
	)
	if err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return token, nil
}

// VerifyResetToken returns the username the token belongs to, or
// ErrNotFound when the token is unknown or past its expiry.
func (s *UserStore) VerifyResetToken(token string) (string, error) {
	if token == "" {
		return "", ErrNotFound
	}
	var username string
	var expiry sql.NullInt64
	err := s.db.QueryRow(
		`SELECT username, reset_expiry FROM users WHERE reset_token = ?`,
		token,
	).Scan(&username, &expiry)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("verify reset token: %w", err)
	}
	if expiry.Valid && time.Now().Unix() > expiry.Int64 {
		return "", ErrNotFound
	}
	return username, nil
}

// ClearResetToken removes any pending reset token. Idempotent.
func (s *UserStore) ClearResetToken(username string) error {
	_, err := s.db.Exec(
		`UPDATE users SET reset_token = NULL, reset_expiry = NULL WHERE username = ?`,
		username,
	)
	if err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}
	return nil
}

// ResetPassword overwrites the password hash and clears any pending reset
// token in the same statement.
func (s *UserStore) ResetPassword(username, newPassword string) error {
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`UPDATE users SET password_hash = ?, reset_token = NULL, reset_expiry = NULL WHERE username = ?`,
		hash, username,
	)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}
