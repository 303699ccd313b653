// Package uuid generates and validates the random identifiers used for
// transaction IDs and session tokens.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a random (version 4) UUID string.
func New() string {
	return googleuuid.New().String()
}

// IsValid checks if a string is a valid UUID in the canonical
// 8-4-4-4-12 form. Braced and urn-prefixed variants are rejected.
func IsValid(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := googleuuid.Parse(s)
	return err == nil
}
