package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// SessionID - Typed identifier for game sessions
// -----------------------------------------------------------------------------

// SessionID is a typed identifier for game sessions
type SessionID struct {
	value uuid.UUID
}

// NewSessionID creates a new SessionID from a UUID
func NewSessionID(id uuid.UUID) SessionID {
	return SessionID{value: id}
}

// ParseSessionID creates a SessionID from a string
func ParseSessionID(s string) (SessionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, fmt.Errorf("invalid session ID: %w", err)
	}
	return SessionID{value: id}, nil
}

// GenerateSessionID creates a new random SessionID
func GenerateSessionID() SessionID {
	return SessionID{value: uuid.New()}
}

// String returns the string representation
func (id SessionID) String() string {
	return id.value.String()
}

// IsZero returns true if this is a zero value
func (id SessionID) IsZero() bool {
	return id.value == uuid.Nil
}
