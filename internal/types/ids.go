package types

import (
	"github.com/google/uuid"
)

// ID is a custom type that wraps a UUID string. Every command request is
// tagged with one so outcomes and log lines can be correlated.
type ID string

// NewID generates a new UUID v4 and returns it as an ID.
func NewID() ID {
	return ID(uuid.New().String())
}

// String returns the string representation of the ID.
func (id ID) String() string {
	return string(id)
}

// IsZero returns true if the ID is empty.
func (id ID) IsZero() bool {
	return id == ""
}
