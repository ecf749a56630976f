package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/domain/interfaces"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"github.com/secmon-lab/usageboard/pkg/domain/types"
)

// DefaultSessionTTL is how long an idle view session keeps its range
const DefaultSessionTTL = 7 * 24 * time.Hour

// SelectorOption is a functional option for configuring Selector
type SelectorOption func(*Selector)

// WithSessionTTL sets how long a session survives without changes
func WithSessionTTL(ttl time.Duration) SelectorOption {
	return func(s *Selector) {
		s.ttl = ttl
	}
}

// WithSelectorClock sets the time source that defines "today"
func WithSelectorClock(now func() time.Time) SelectorOption {
	return func(s *Selector) {
		s.now = now
	}
}

// Selector implements SelectorUseCase on top of the view session store
type Selector struct {
	repo interfaces.Repository
	ttl  time.Duration
	now  func() time.Time
}

var _ SelectorUseCase = (*Selector)(nil)

// NewSelector creates a new Selector
func NewSelector(repo interfaces.Repository, opts ...SelectorOption) *Selector {
	s := &Selector{
		repo: repo,
		ttl:  DefaultSessionTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Presets returns the quick-select windows
func (s *Selector) Presets() []model.Preset {
	return model.Presets()
}

// Current returns the stored range pulled back inside today's window
func (s *Selector) Current(ctx context.Context, id types.SessionID) (model.DateRange, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return model.DateRange{}, err
	}
	return session.Range.Clamp(s.now()), nil
}

// ApplyPreset stores the preset window ending today
func (s *Selector) ApplyPreset(ctx context.Context, id types.SessionID, days int) (model.DateRange, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return model.DateRange{}, err
	}
	now := s.now()

	preset, err := model.LookupPreset(days)
	if err != nil {
		return session.Range.Clamp(now), err
	}

	return s.store(ctx, session, preset.Range(now), now)
}

// SetRange validates and stores a manual window. The stored range is left
// untouched when the input is rejected.
func (s *Selector) SetRange(ctx context.Context, id types.SessionID, start, end string) (model.DateRange, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return model.DateRange{}, err
	}
	now := s.now()
	retained := session.Range.Clamp(now)

	r, err := model.ParseDateRange(start, end)
	if err != nil {
		return retained, err
	}
	if err := r.Validate(now); err != nil {
		ctxlog.From(ctx).Info("Rejected date range",
			"sessionID", id,
			"start", start,
			"end", end,
		)
		return retained, err
	}

	return s.store(ctx, session, r, now)
}

// SweepExpired deletes sessions past their expiry
func (s *Selector) SweepExpired(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteExpiredViewSessions(ctx, s.now())
	if err != nil {
		return 0, goerr.Wrap(err, "failed to sweep expired sessions")
	}
	return n, nil
}

// load returns the stored session, or a fresh one holding the default
// range when none is stored or it has expired
func (s *Selector) load(ctx context.Context, id types.SessionID) (*model.ViewSession, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	now := s.now()

	session, err := s.repo.GetViewSession(ctx, id)
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return model.NewViewSession(id, now, s.ttl), nil
	case err != nil:
		return nil, goerr.Wrap(err, "failed to get view session", goerr.V("sessionID", id))
	case session.IsExpired(now):
		return model.NewViewSession(id, now, s.ttl), nil
	}
	return session, nil
}

func (s *Selector) store(ctx context.Context, session *model.ViewSession, r model.DateRange, now time.Time) (model.DateRange, error) {
	session.SetRange(r, now, s.ttl)
	if err := s.repo.PutViewSession(ctx, session); err != nil {
		return model.DateRange{}, goerr.Wrap(err, "failed to save view session", goerr.V("sessionID", session.ID))
	}

	ctxlog.From(ctx).Debug("Date range updated",
		"sessionID", session.ID,
		"range", r.String(),
	)
	return r, nil
}
