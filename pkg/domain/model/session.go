package model

import (
	"time"

	"github.com/secmon-lab/usageboard/pkg/domain/types"
)

// ViewSession is the per-browser state that survives across page reloads:
// the currently selected date range
type ViewSession struct {
	ID        types.SessionID `json:"id" firestore:"id"`
	Range     DateRange       `json:"range" firestore:"range"`
	CreatedAt time.Time       `json:"created_at" firestore:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" firestore:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at" firestore:"expires_at"`
}

// NewViewSession creates a session holding the default range
func NewViewSession(id types.SessionID, now time.Time, ttl time.Duration) *ViewSession {
	return &ViewSession{
		ID:        id,
		Range:     DefaultDateRange(now),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired checks if the session has expired
func (s *ViewSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SetRange stores a new range and extends the expiry
func (s *ViewSession) SetRange(r DateRange, now time.Time, ttl time.Duration) {
	s.Range = r
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}
