package crypto

import (
	"encoding/base64"
	"testing"
)

func TestNewTokenLength(t *testing.T) {
	token, err := NewToken(SessionTokenBytes)
	if err != nil {
		t.Fatalf("NewToken() unexpected error: %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("NewToken() not URL-safe base64: %v", err)
	}
	if len(raw) != SessionTokenBytes {
		t.Errorf("NewToken() entropy = %d bytes, want %d", len(raw), SessionTokenBytes)
	}
}

func TestNewTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewToken(ResetTokenBytes)
		if err != nil {
			t.Fatalf("NewToken() unexpected error: %v", err)
		}
		if seen[token] {
			t.Fatalf("NewToken() produced a duplicate token: %q", token)
		}
		seen[token] = true
	}
}
