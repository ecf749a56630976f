package apperr_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/usageboard/pkg/utils/apperr"
)

func newCtx(buf *bytes.Buffer) context.Context {
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.With(context.Background(), logger)
}

func TestHandle(t *testing.T) {
	t.Run("Error level", func(t *testing.T) {
		var buf bytes.Buffer
		apperr.Handle(newCtx(&buf), goerr.New("boom"))
		gt.S(t, buf.String()).Contains(`"level":"ERROR"`)
		gt.S(t, buf.String()).Contains("boom")
	})

	t.Run("Cancellation is a warning", func(t *testing.T) {
		var buf bytes.Buffer
		apperr.Handle(newCtx(&buf), goerr.Wrap(context.Canceled, "query aborted"))
		gt.S(t, buf.String()).Contains(`"level":"WARN"`)
	})

	t.Run("Nil is ignored", func(t *testing.T) {
		var buf bytes.Buffer
		apperr.Handle(newCtx(&buf), nil)
		gt.Equal(t, buf.Len(), 0)
	})
}
