package model

import (
	"context"

	"github.com/secmon-lab/usageboard/pkg/domain/types"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	sessionIDKey contextKey = "viewSessionID"
)

// WithSessionID adds the view session ID to the context
func WithSessionID(ctx context.Context, id types.SessionID) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// GetSessionID retrieves the view session ID from the context
func GetSessionID(ctx context.Context) (types.SessionID, bool) {
	id, ok := ctx.Value(sessionIDKey).(types.SessionID)
	return id, ok && id != ""
}
