package auth

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !VerifyPassword("hunter22", hash) {
		t.Error("expected correct password to verify")
	}
	if VerifyPassword("hunter22x", hash) {
		t.Error("expected wrong password to fail")
	}
}

func TestHashEmptyPassword(t *testing.T) {
	hash, err := HashPassword("")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash != "" {
		t.Errorf("hash = %q, want empty string for empty input", hash)
	}
}

func TestVerifyEmptyHash(t *testing.T) {
	if VerifyPassword("anything", "") {
		t.Error("empty stored hash must never verify")
	}
	if VerifyPassword("", "") {
		t.Error("empty password against empty hash must not verify")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (embedded salt)")
	}
}
