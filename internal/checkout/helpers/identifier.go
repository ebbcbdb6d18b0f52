package helpers

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	identifierSuffixLen   = 8
	identifierSuffixChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewOrderIdentifier builds a human-readable order identifier: the creation
// date as yymmdd followed by eight random uppercase letters.
func NewOrderIdentifier(now time.Time) (string, error) {
	buf := make([]byte, identifierSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate order identifier: %w", err)
	}
	for i := range buf {
		buf[i] = identifierSuffixChars[int(buf[i])%len(identifierSuffixChars)]
	}
	return now.Format("060102") + string(buf), nil
}
