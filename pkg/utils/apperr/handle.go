package apperr

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
)

// Handle logs an error that ends a request or a background job. Errors
// caused by the caller going away are logged at warn level.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Warn("operation cancelled", "error", err)
		return
	}
	logger.Error("application error", "error", err)
}
