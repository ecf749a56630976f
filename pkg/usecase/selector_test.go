package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"github.com/secmon-lab/usageboard/pkg/domain/types"
	"github.com/secmon-lab/usageboard/pkg/repository"
	"github.com/secmon-lab/usageboard/pkg/usecase"
)

func date(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSelectorCurrent(t *testing.T) {
	ctx := context.Background()
	sel := usecase.NewSelector(repository.NewMemory(), usecase.WithSelectorClock(fixedClock))

	t.Run("New session gets the default window", func(t *testing.T) {
		r, err := sel.Current(ctx, types.NewSessionID())
		gt.NoError(t, err).Required()
		gt.Equal(t, r.Start, date("2024-06-01"))
		gt.Equal(t, r.End, date("2024-06-15"))
	})

	t.Run("Malformed session ID is rejected", func(t *testing.T) {
		_, err := sel.Current(ctx, "not-a-uuid")
		gt.Error(t, err)
	})
}

func TestSelectorApplyPreset(t *testing.T) {
	ctx := context.Background()
	sel := usecase.NewSelector(repository.NewMemory(), usecase.WithSelectorClock(fixedClock))
	id := types.NewSessionID()

	for _, p := range sel.Presets() {
		r, err := sel.ApplyPreset(ctx, id, p.Days)
		gt.NoError(t, err).Required()
		gt.Equal(t, r.Days(), p.Days)
		gt.Equal(t, r.End, date("2024-06-15"))

		current, err := sel.Current(ctx, id)
		gt.NoError(t, err).Required()
		gt.True(t, current.Equal(r))
	}

	t.Run("Unknown preset keeps the stored range", func(t *testing.T) {
		_, err := sel.ApplyPreset(ctx, id, 30)
		gt.NoError(t, err).Required()

		r, err := sel.ApplyPreset(ctx, id, 7)
		gt.True(t, errors.Is(err, model.ErrUnknownPreset))
		gt.Equal(t, r.Days(), 30)

		current, err := sel.Current(ctx, id)
		gt.NoError(t, err).Required()
		gt.Equal(t, current.Days(), 30)
	})
}

func TestSelectorSetRange(t *testing.T) {
	ctx := context.Background()
	sel := usecase.NewSelector(repository.NewMemory(), usecase.WithSelectorClock(fixedClock))
	id := types.NewSessionID()

	r, err := sel.SetRange(ctx, id, "2024-03-01", "2024-03-31")
	gt.NoError(t, err).Required()
	gt.Equal(t, r.Start, date("2024-03-01"))
	gt.Equal(t, r.End, date("2024-03-31"))

	testCases := []struct {
		name       string
		start, end string
	}{
		{name: "start after end", start: "2024-04-10", end: "2024-04-01"},
		{name: "start before the lookback limit", start: "2023-06-01", end: "2024-01-01"},
		{name: "end in the future", start: "2024-06-01", end: "2024-06-16"},
		{name: "malformed date", start: "2024/06/01", end: "2024-06-10"},
		{name: "empty", start: "", end: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			retained, err := sel.SetRange(ctx, id, tc.start, tc.end)
			gt.True(t, errors.Is(err, model.ErrInvalidDateRange))
			gt.Equal(t, retained.Start, date("2024-03-01"))
			gt.Equal(t, retained.End, date("2024-03-31"))

			current, err := sel.Current(ctx, id)
			gt.NoError(t, err).Required()
			gt.True(t, current.Equal(retained))
		})
	}

	t.Run("Boundary dates are accepted", func(t *testing.T) {
		r, err := sel.SetRange(ctx, id, "2023-06-16", "2024-06-15")
		gt.NoError(t, err).Required()
		gt.Equal(t, r.Days(), 365)
	})

	t.Run("Single day range", func(t *testing.T) {
		r, err := sel.SetRange(ctx, id, "2024-06-10", "2024-06-10")
		gt.NoError(t, err).Required()
		gt.Equal(t, r.Days(), 0)
	})
}

func TestSelectorSessionLifetime(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	now := testNow
	clock := func() time.Time { return now }
	sel := usecase.NewSelector(repo, usecase.WithSelectorClock(clock), usecase.WithSessionTTL(24*time.Hour))

	t.Run("Expired session falls back to the default", func(t *testing.T) {
		now = testNow
		id := types.NewSessionID()
		_, err := sel.ApplyPreset(ctx, id, 90)
		gt.NoError(t, err).Required()

		now = testNow.Add(48 * time.Hour)
		r, err := sel.Current(ctx, id)
		gt.NoError(t, err).Required()
		gt.Equal(t, r.Days(), model.DefaultRangeDays)
	})

	t.Run("Aged range is clamped to the lookback window", func(t *testing.T) {
		now = testNow
		id := types.NewSessionID()
		_, err := sel.ApplyPreset(ctx, id, 365)
		gt.NoError(t, err).Required()

		now = testNow.Add(3 * time.Hour)
		r, err := sel.Current(ctx, id)
		gt.NoError(t, err).Required()
		gt.Equal(t, r.Days(), 365)

		// the next day the oldest date has fallen out of the window
		now = testNow.AddDate(0, 0, 1).Add(-time.Hour)
		r, err = sel.Current(ctx, id)
		gt.NoError(t, err).Required()
		gt.Equal(t, r.Start, date("2023-06-17"))
		gt.Equal(t, r.End, date("2024-06-15"))
	})

	t.Run("Sweep removes expired sessions", func(t *testing.T) {
		now = testNow
		for i := 0; i < 3; i++ {
			_, err := sel.ApplyPreset(ctx, types.NewSessionID(), 14)
			gt.NoError(t, err).Required()
		}

		now = testNow.AddDate(0, 0, 30)
		deleted, err := sel.SweepExpired(ctx)
		gt.NoError(t, err).Required()
		gt.True(t, deleted >= 3)

		deleted, err = sel.SweepExpired(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, deleted, 0)
	})
}
