package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/catalog"
	"github.com/secmon-lab/usageboard/pkg/chart"
	"github.com/secmon-lab/usageboard/pkg/domain/interfaces"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"github.com/secmon-lab/usageboard/pkg/domain/types"
	"github.com/secmon-lab/usageboard/pkg/utils/async"
)

const (
	DefaultQueryConcurrency = 4
	DefaultQueryTimeout     = 60 * time.Second
)

// DashboardConfig holds configuration for the Dashboard use case
type DashboardConfig struct {
	concurrency  int
	queryTimeout time.Duration
	layout       model.Layout
	now          func() time.Time
}

// DashboardOption is a functional option for configuring Dashboard
type DashboardOption func(*DashboardConfig)

// WithConcurrency bounds the number of in-flight warehouse queries
func WithConcurrency(n int) DashboardOption {
	return func(c *DashboardConfig) {
		c.concurrency = n
	}
}

// WithQueryTimeout bounds each query. Zero disables the per-query timeout.
func WithQueryTimeout(d time.Duration) DashboardOption {
	return func(c *DashboardConfig) {
		c.queryTimeout = d
	}
}

// WithLayout replaces the default grid
func WithLayout(layout model.Layout) DashboardOption {
	return func(c *DashboardConfig) {
		c.layout = layout
	}
}

// WithClock sets the time source used for range validation and timestamps
func WithClock(now func() time.Time) DashboardOption {
	return func(c *DashboardConfig) {
		c.now = now
	}
}

// NewDashboardConfig creates a new DashboardConfig with default values and optional settings
func NewDashboardConfig(opts ...DashboardOption) *DashboardConfig {
	config := &DashboardConfig{
		concurrency:  DefaultQueryConcurrency,
		queryTimeout: DefaultQueryTimeout,
		layout:       model.DefaultLayout(),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.concurrency < 1 {
		config.concurrency = 1
	}
	return config
}

// Dashboard implements DashboardUseCase
type Dashboard struct {
	warehouse interfaces.Warehouse
	catalog   *catalog.Catalog
	config    *DashboardConfig
}

var _ DashboardUseCase = (*Dashboard)(nil)

// NewDashboard creates a Dashboard and checks that the layout places every
// catalog entry exactly once
func NewDashboard(wh interfaces.Warehouse, cat *catalog.Catalog, config *DashboardConfig) (*Dashboard, error) {
	if wh == nil {
		return nil, goerr.New("warehouse is required")
	}
	if cat == nil {
		return nil, goerr.New("catalog is required")
	}
	if config == nil {
		config = NewDashboardConfig()
	}

	if err := config.layout.Validate(cat.Names()); err != nil {
		return nil, goerr.Wrap(err, "layout does not match catalog")
	}

	return &Dashboard{
		warehouse: wh,
		catalog:   cat,
		config:    config,
	}, nil
}

// Queries lists the catalog in declaration order
func (u *Dashboard) Queries() []catalog.Entry {
	return u.catalog.Entries()
}

// Render runs one full pipeline pass. An invalid range is rejected before
// any query is issued. A failing query only marks its own panel.
func (u *Dashboard) Render(ctx context.Context, r model.DateRange) (*model.Dashboard, error) {
	logger := ctxlog.From(ctx)
	now := u.config.now()

	if err := r.Validate(now); err != nil {
		return nil, err
	}

	entries := u.catalog.Entries()
	panels := make([]model.Panel, len(entries))

	started := time.Now()
	errs := async.Settle(ctx, u.config.concurrency, len(entries), func(ctx context.Context, i int) error {
		panel, err := u.runEntry(ctx, entries[i], r)
		panels[i] = panel
		return err
	})

	// client went away, the pass is discarded
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "dashboard pass cancelled", goerr.V("range", r.String()))
	}

	byName := make(map[types.QueryName]*model.Panel, len(entries))
	failed := 0
	for i, e := range entries {
		if errs[i] != nil {
			failed++
			logger.Warn("Dashboard panel failed",
				"query", e.Query.Name,
				"range", r.String(),
				"error", errs[i],
			)
			panels[i] = newPanel(e)
			panels[i].Error = panelError(errs[i])
		}
		byName[e.Query.Name] = &panels[i]
	}

	dashboard := &model.Dashboard{
		Range:       r,
		GeneratedAt: now,
		Rows:        compose(u.config.layout, byName),
	}
	if failed > 0 {
		dashboard.Notice = fmt.Sprintf("%d of %d panels could not be loaded", failed, len(entries))
	}

	logger.Info("Dashboard rendered",
		"range", r.String(),
		"panels", len(entries),
		"failed", failed,
		"elapsed", time.Since(started),
	)

	return dashboard, nil
}

func (u *Dashboard) runEntry(ctx context.Context, e catalog.Entry, r model.DateRange) (model.Panel, error) {
	if u.config.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.config.queryTimeout)
		defer cancel()
	}

	result, err := u.warehouse.Query(ctx, e.Query.Statement(r))
	if err != nil {
		return model.Panel{}, err
	}

	panel := newPanel(e)
	switch {
	case e.Metric != nil:
		metric, err := chart.BindMetric(e.Metric, result)
		if err != nil {
			return model.Panel{}, goerr.Wrap(err, "failed to bind metric", goerr.V("query", e.Query.Name))
		}
		panel.Metric = metric
	default:
		figure, err := chart.Bind(e.Chart, result)
		if err != nil {
			return model.Panel{}, goerr.Wrap(err, "failed to bind chart", goerr.V("query", e.Query.Name))
		}
		panel.Figure = figure
	}
	return panel, nil
}

func newPanel(e catalog.Entry) model.Panel {
	title := e.Query.Title
	if e.Metric != nil && e.Metric.Title != "" {
		title = e.Metric.Title
	} else if e.Chart != nil && e.Chart.Title != "" {
		title = e.Chart.Title
	}
	return model.Panel{
		Name:   e.Query.Name,
		Title:  title,
		Ranged: e.Query.Ranged,
	}
}

func panelError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "query timed out"
	}
	return err.Error()
}

// compose fills the layout rows with rendered panels
func compose(layout model.Layout, panels map[types.QueryName]*model.Panel) []model.RenderedRow {
	rows := make([]model.RenderedRow, 0, len(layout.Rows))
	for _, lr := range layout.Rows {
		row := model.RenderedRow{
			Columns: lr.Columns(),
			Panels:  make([]model.Panel, 0, len(lr.Slots)),
		}
		for _, slot := range lr.Slots {
			row.Panels = append(row.Panels, *panels[slot])
		}
		rows = append(rows, row)
	}
	return rows
}
