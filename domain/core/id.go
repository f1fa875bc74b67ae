package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types. Upload sessions own spend records; cost sessions
// own a single cost-breakdown document. The two kinds never share a store.
type (
	SessionID     ID
	CostSessionID ID
)

func (id SessionID) String() string     { return ID(id).String() }
func (id CostSessionID) String() string { return ID(id).String() }

// ParseSessionID parses a string into SessionID. Callers must always supply
// an explicit session id; there is no implicit "latest" fallback.
func ParseSessionID(s string) (SessionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	return SessionID(s), nil
}

// ParseCostSessionID parses a string into CostSessionID
func ParseCostSessionID(s string) (CostSessionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("cost session ID cannot be empty")
	}
	return CostSessionID(s), nil
}
