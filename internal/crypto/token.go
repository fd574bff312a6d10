package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const (
	// SessionTokenBytes is the entropy of an opaque session token.
	SessionTokenBytes = 32
	// ResetTokenBytes is the entropy of a password-reset token. 32 bytes
	// keeps a token unguessable for the whole of its validity window.
	ResetTokenBytes = 32
)

// NewToken returns a URL-safe random token carrying n bytes of entropy
// from crypto/rand.
func NewToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
