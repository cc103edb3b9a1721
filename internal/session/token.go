package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// DefaultTokenLength is the number of random bytes in a session token.
// Hex encoding doubles it on the wire (64 characters).
const DefaultTokenLength = 32

// GenerateToken produces a cryptographically secure random token of the
// given byte length, hex-encoded for safe use in filenames and headers.
// A failing entropy source is a hard error; there is no weaker fallback.
func GenerateToken(length int) (string, error) {
	if length <= 0 {
		length = DefaultTokenLength
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: secure random source failed: %w", err)
	}
	return hex.EncodeToString(b), nil
}
