package auth

import (
	"context"
	"testing"
)

type usernameSet map[string]bool

func (s usernameSet) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s[username], nil
}

func TestGenerateUsernameFromEmail(t *testing.T) {
	t.Parallel()

	got, err := generateUsername(context.Background(), usernameSet{}, "Maria.Santos@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "maria.santos" {
		t.Fatalf("username = %q, want maria.santos", got)
	}
}

func TestGenerateUsernameAppendsSuffixOnCollision(t *testing.T) {
	t.Parallel()

	taken := usernameSet{"maria.santos": true, "maria.santos1": true}
	got, err := generateUsername(context.Background(), taken, "maria.santos@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "maria.santos2" {
		t.Fatalf("username = %q, want maria.santos2", got)
	}
}

func TestGenerateUsernameSanitizes(t *testing.T) {
	t.Parallel()

	got, err := generateUsername(context.Background(), usernameSet{}, "J+O!H#N@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "john" {
		t.Fatalf("username = %q, want john", got)
	}
}

func TestGenerateUsernameEmptyLocalPart(t *testing.T) {
	t.Parallel()

	got, err := generateUsername(context.Background(), usernameSet{}, "+++@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "user" {
		t.Fatalf("username = %q, want user", got)
	}
}

func TestGenerateCodeLengthAndDigits(t *testing.T) {
	t.Parallel()

	for _, length := range []int{4, 6, 8} {
		code, err := generateCode(length)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != length {
			t.Fatalf("code %q has length %d, want %d", code, len(code), length)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains a non-digit", code)
			}
		}
	}

	code, err := generateCode(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("zero length must fall back to 6 digits, got %q", code)
	}
}
