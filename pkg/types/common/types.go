// Package common defines the scalar types shared across all perm-engine
// packages.
package common

import "github.com/google/uuid"

// ID is a string alias for UUID v4.
type ID string

// NewID mints a fresh random ID.  The rules engine itself never mints IDs;
// identity is allocated only at the edges (CLI fixtures, caller ingest) so
// that engine calls stay referentially transparent.
func NewID() ID {
	return ID(uuid.New().String())
}

// String returns the ID as a plain string.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the ID is empty.
func (id ID) IsZero() bool {
	return id == ""
}
