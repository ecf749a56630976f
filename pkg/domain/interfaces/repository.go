package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"github.com/secmon-lab/usageboard/pkg/domain/types"
)

// Repository stores per-browser view state
type Repository interface {
	// GetViewSession returns model.ErrSessionNotFound when no session is stored
	GetViewSession(ctx context.Context, id types.SessionID) (*model.ViewSession, error)
	PutViewSession(ctx context.Context, session *model.ViewSession) error
	DeleteExpiredViewSessions(ctx context.Context, now time.Time) (int, error)

	// Close closes the repository connection
	Close() error
}
