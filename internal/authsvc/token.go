package authsvc

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// newResetToken returns a 32-byte hex-encoded token.
func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypto/rand failed: %w", err)
	}
	return hex.EncodeToString(b), nil
}
