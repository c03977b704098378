// Package redact turns PII into short stable digests so log lines can be
// correlated without exposing who they are about.
package redact

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

func digest(prefix, s string, n int) string {
	sum := sha256.Sum256([]byte(prefix + s))
	return hex.EncodeToString(sum[:])[:n]
}

// Email digests an address case-insensitively.
func Email(email string) string {
	return digest("e:", strings.ToLower(strings.TrimSpace(email)), 12)
}

// Username digests a username.
func Username(username string) string {
	return digest("u:", strings.TrimSpace(username), 8)
}

// ID shortens opaque identifiers (screen ids, reset tokens) for logs.
func ID(id string) string {
	if id == "" {
		return "-"
	}
	return digest("i:", id, 8)
}
