package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// SessionID identifies one browser's view state
type SessionID string

// String returns the string representation
func (id SessionID) String() string {
	return string(id)
}

// NewSessionID creates a new time-ordered SessionID (UUID v7)
func NewSessionID() SessionID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source fails
		return SessionID(uuid.New().String())
	}
	return SessionID(id.String())
}

// Validate checks that the SessionID is a well-formed UUID
func (id SessionID) Validate() error {
	if id == "" {
		return goerr.New("session ID is empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(err, "session ID is not a UUID", goerr.V("sessionID", id))
	}
	return nil
}

// QueryName identifies a catalog entry and its dashboard slot
type QueryName string

// String returns the string representation
func (n QueryName) String() string {
	return string(n)
}
