package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateState returns a random hex string for the OAuth state parameter
func GenerateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error generating oauth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
