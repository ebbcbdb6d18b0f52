package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var slugSanitizeRe = regexp.MustCompile(`[^a-z0-9]+`)

const maxSlugAttempts = 50

type slugChecker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

func slugify(value string) string {
	slug := strings.ToLower(strings.TrimSpace(value))
	slug = slugSanitizeRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug derives a slug from the name, appending a numeric suffix on collision.
func uniqueSlug(ctx context.Context, checker slugChecker, name string) (string, error) {
	base := slugify(name)
	if base == "" {
		base = "product"
	}

	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		taken, err := checker.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("could not derive a unique slug from %q", name)
}
