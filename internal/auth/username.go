package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var usernameSanitizeRe = regexp.MustCompile(`[^a-z0-9._-]+`)

type usernameChecker interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
}

const maxUsernameAttempts = 50

// generateUsername derives a unique username from the email local part,
// appending a numeric suffix on collision.
func generateUsername(ctx context.Context, checker usernameChecker, email string) (string, error) {
	base := strings.ToLower(strings.TrimSpace(email))
	if at := strings.Index(base, "@"); at > 0 {
		base = base[:at]
	}
	base = usernameSanitizeRe.ReplaceAllString(base, "")
	base = strings.Trim(base, "._-")
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 1; i <= maxUsernameAttempts; i++ {
		taken, err := checker.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return "", fmt.Errorf("could not derive a unique username from %q", email)
}
