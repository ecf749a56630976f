package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"golang.org/x/sync/errgroup"
)

// Dispatch executes a handler function asynchronously with panic recovery.
// The handler runs on a context detached from ctx's cancellation that keeps
// the logger and view session of ctx.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				ctxlog.From(newCtx).Error("Panic in async handler",
					"recover", r,
					"stack", string(stack),
				)
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("Error in async handler",
				"error", err,
			)
		}
	}()
}

// Settle runs task for every index in [0, n) with at most limit tasks in
// flight and waits for all of them. The returned slice holds each task's
// error at its index. A failing task never cancels its siblings, and a
// panicking task is reported as an error for its own index only.
func Settle(ctx context.Context, limit, n int, task func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	if n == 0 {
		return errs
	}
	if limit < 1 {
		limit = 1
	}

	var eg errgroup.Group
	eg.SetLimit(limit)

	for i := 0; i < n; i++ {
		eg.Go(func() error {
			errs[i] = runTask(ctx, i, task)
			return nil
		})
	}
	_ = eg.Wait()

	return errs
}

func runTask(ctx context.Context, i int, task func(ctx context.Context, i int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.From(ctx).Error("Panic in settled task",
				"index", i,
				"recover", r,
				"stack", string(debug.Stack()),
			)
			err = goerr.New("task panicked", goerr.V("index", i), goerr.V("recover", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return goerr.Wrap(err, "task not started", goerr.V("index", i))
	}
	return task(ctx, i)
}

// newBackgroundContext creates a new background context preserving important values
func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()

	// Preserve logger
	logger := ctxlog.From(ctx)
	if logger != nil {
		newCtx = ctxlog.With(newCtx, logger)
	}

	if id, ok := model.GetSessionID(ctx); ok {
		newCtx = model.WithSessionID(newCtx, id)
	}

	return newCtx
}
