package auth

import (
	"context"
	"testing"
)

func TestUsernameRoundTrip(t *testing.T) {
	ctx := WithUsername(context.Background(), "alice")
	if got := Username(ctx); got != "alice" {
		t.Errorf("Username = %q, want %q", got, "alice")
	}
}

func TestUsernameMissing(t *testing.T) {
	if got := Username(context.Background()); got != "" {
		t.Errorf("Username = %q, want empty for bare context", got)
	}
}
