package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// sessionIDBytes gives 64 hex characters.
const sessionIDBytes = 32

// GenerateSecureRandomString returns lengthInBytes random bytes, hex encoded.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewSessionID returns an unguessable identifier for a member session.
func NewSessionID() (string, error) {
	return GenerateSecureRandomString(sessionIDBytes)
}
