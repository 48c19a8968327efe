package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"fintrack/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserCreate(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.Create("alice", "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("username = %q, want %q", u.Username, "alice")
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret" {
		t.Error("expected a hashed password")
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	first, err := us.Create("alice", "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("alice", "other@example.com", "different"); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	// First row untouched
	u, err := us.GetByUsername("alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Email != first.Email {
		t.Errorf("email = %q, want %q", u.Email, first.Email)
	}
}

func TestUserCreateRejectsEmpty(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.Create("", "a@example.com", "secret"); err == nil {
		t.Error("expected error for empty username")
	}
	if _, err := us.Create("alice", "a@example.com", ""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestUserAuthenticate(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.Create("alice", "", "secret"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	ok, err := us.Authenticate("alice", "secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !ok {
		t.Error("expected correct password to authenticate")
	}

	ok, err = us.Authenticate("alice", "wrong")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if ok {
		t.Error("expected wrong password to fail")
	}

	ok, err = us.Authenticate("nobody", "secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if ok {
		t.Error("expected unknown user to fail")
	}
}

func TestResetTokenLifecycle(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.Create("alice", "alice@example.com", "secret"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := us.CreateResetToken("alice", time.Hour)
	if err != nil {
		t.Fatalf("create reset token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	username, err := us.VerifyResetToken(token)
	if err != nil {
		t.Fatalf("verify reset token: %v", err)
	}
	if username != "alice" {
		t.Errorf("username = %q, want %q", username, "alice")
	}
}

func TestResetTokenByEmail(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.Create("alice", "alice@example.com", "secret"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := us.CreateResetToken("alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("create reset token by email: %v", err)
	}

	username, err := us.VerifyResetToken(token)
	if err != nil {
		t.Fatalf("verify reset token: %v", err)
	}
	if username != "alice" {
		t.Errorf("username = %q, want %q", username, "alice")
	}
}

func TestResetTokenUnknownIdentifier(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.CreateResetToken("nobody", time.Hour); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResetTokenExpired(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.Create("alice", "", "secret"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := us.CreateResetToken("alice", -time.Second)
	if err != nil {
		t.Fatalf("create reset token: %v", err)
	}
	if _, err := us.VerifyResetToken(token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for expired token", err)
	}
}

func TestResetTokenOverwritesPrevious(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.Create("alice", "", "secret"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	first, err := us.CreateResetToken("alice", time.Hour)
	if err != nil {
		t.Fatalf("create first token: %v", err)
	}
	second, err := us.CreateResetToken("alice", time.Hour)
	if err != nil {
		t.Fatalf("create second token: %v", err)
	}

	if _, err := us.VerifyResetToken(first); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for superseded token", err)
	}
	if _, err := us.VerifyResetToken(second); err != nil {
		t.Errorf("verify second token: %v", err)
	}
}

func TestClearResetToken(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.Create("alice", "", "secret"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := us.CreateResetToken("alice", time.Hour)
	if err != nil {
		t.Fatalf("create reset token: %v", err)
	}

	if err := us.ClearResetToken("alice"); err != nil {
		t.Fatalf("clear reset token: %v", err)
	}
	if _, err := us.VerifyResetToken(token); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after clear", err)
	}

	// Clearing again is a no-op
	if err := us.ClearResetToken("alice"); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.Create("alice", "", "oldpass"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := us.CreateResetToken("alice", time.Hour)
	if err != nil {
		t.Fatalf("create reset token: %v", err)
	}

	if err := us.ResetPassword("alice", "newpass"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	ok, err := us.Authenticate("alice", "newpass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !ok {
		t.Error("expected new password to authenticate")
	}

	ok, err = us.Authenticate("alice", "oldpass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if ok {
		t.Error("expected old password to fail")
	}

	// Token is consumed by the password change
	if _, err := us.VerifyResetToken(token); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after password reset", err)
	}
}
