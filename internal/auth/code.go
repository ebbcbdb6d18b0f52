package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// generateCode produces a zero-padded numeric verification code of the given length.
func generateCode(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	max := big.NewInt(1)
	for i := 0; i < length; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
