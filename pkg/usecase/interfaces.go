package usecase

import (
	"context"

	"github.com/secmon-lab/usageboard/pkg/catalog"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"github.com/secmon-lab/usageboard/pkg/domain/types"
)

// DashboardUseCase runs the query-bind-compose pipeline
type DashboardUseCase interface {
	// Render runs every catalog query for the range and composes the layout
	Render(ctx context.Context, r model.DateRange) (*model.Dashboard, error)

	// Queries lists the catalog in declaration order
	Queries() []catalog.Entry
}

// SelectorUseCase manages the date range of each view session
type SelectorUseCase interface {
	// Presets returns the quick-select windows
	Presets() []model.Preset

	// Current returns the session's range, or the default for a new session
	Current(ctx context.Context, id types.SessionID) (model.DateRange, error)

	// ApplyPreset stores the preset window ending today
	ApplyPreset(ctx context.Context, id types.SessionID, days int) (model.DateRange, error)

	// SetRange stores a manually chosen window. On invalid input the
	// previous range is returned together with the error.
	SetRange(ctx context.Context, id types.SessionID, start, end string) (model.DateRange, error)

	// SweepExpired deletes sessions past their expiry
	SweepExpired(ctx context.Context) (int, error)
}
