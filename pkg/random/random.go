// Package random provides cryptographically secure random string generation.
package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet without easily confused characters (0/O, 1/I/l).
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewRandomString generates a random string of the given length from the
// referral-code alphabet.
func NewRandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid length: %d", length)
	}

	result := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		result[i] = alphabet[n.Int64()]
	}

	return string(result), nil
}
