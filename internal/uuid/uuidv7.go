// Package uuid generates the time-ordered identifiers used as primary keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. Version 7 ids sort by creation time, which
// keeps "ORDER BY id" stable and roughly chronological for holders, contacts
// and search history entries.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Entropy exhaustion; a random v4 id is still unique.
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
