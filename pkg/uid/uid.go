// Package uid generates random identifiers for matches and auth sessions.
package uid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewMatchID returns a 128-bit hex match identifier.
func NewMatchID() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// NewSessionID returns a 256-bit hex session identifier.
func NewSessionID() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
