package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/domain/types"
)

// LayoutRow is one row of equal-width columns. A row with a single slot
// spans the full width.
type LayoutRow struct {
	Slots []types.QueryName
}

// Columns returns the number of equal columns in the row
func (r LayoutRow) Columns() int {
	return len(r.Slots)
}

// Layout is the fixed vertical arrangement of dashboard slots
type Layout struct {
	Rows []LayoutRow
}

// DefaultLayout returns the dashboard grid: metrics row first, then chart
// rows in catalog declaration order
func DefaultLayout() Layout {
	return Layout{
		Rows: []LayoutRow{
			{Slots: []types.QueryName{"credits_used", "jobs_executed", "current_storage"}},
			{Slots: []types.QueryName{"credits_by_warehouse", "jobs_by_warehouse", "execution_by_query_type"}},
			{Slots: []types.QueryName{"credits_over_time"}},
			{Slots: []types.QueryName{"longest_successful_queries", "longest_failed_queries"}},
			{Slots: []types.QueryName{"warehouse_variance"}},
			{Slots: []types.QueryName{"repeated_query_execution"}},
			{Slots: []types.QueryName{"credits_billed_by_month"}},
			{Slots: []types.QueryName{"execution_by_user"}},
			{Slots: []types.QueryName{"cloud_services_by_query_type", "cloud_services_by_warehouse"}},
			{Slots: []types.QueryName{"storage_over_time"}},
			{Slots: []types.QueryName{"rows_loaded"}},
			{Slots: []types.QueryName{"logins_by_user", "logins_by_client"}},
		},
	}
}

// Validate checks that every slot names a known query and that every known
// query is placed exactly once
func (l Layout) Validate(known []types.QueryName) error {
	seen := make(map[types.QueryName]int, len(known))
	for _, name := range known {
		seen[name] = 0
	}

	for i, row := range l.Rows {
		if len(row.Slots) == 0 {
			return goerr.New("layout row has no slots", goerr.V("row", i))
		}
		for _, slot := range row.Slots {
			count, ok := seen[slot]
			if !ok {
				return goerr.New("layout slot refers to unknown query",
					goerr.V("row", i), goerr.V("slot", slot))
			}
			seen[slot] = count + 1
		}
	}

	for name, count := range seen {
		if count != 1 {
			return goerr.New("query must be placed exactly once",
				goerr.V("query", name), goerr.V("count", count))
		}
	}
	return nil
}

// Panel is the rendered content of one slot. A non-empty Error marks the
// slot as failed; the slot keeps its place and shows the error instead.
type Panel struct {
	Name   types.QueryName `json:"name"`
	Title  string          `json:"title"`
	Ranged bool            `json:"ranged"`
	Metric *Metric         `json:"metric,omitempty"`
	Figure *Figure         `json:"figure,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Failed reports whether the panel could not be rendered
func (p *Panel) Failed() bool {
	return p.Error != ""
}

// RenderedRow is a layout row filled with panels
type RenderedRow struct {
	Columns int     `json:"columns"`
	Panels  []Panel `json:"panels"`
}

// Dashboard is the output of one pipeline pass
type Dashboard struct {
	Range       DateRange     `json:"range"`
	GeneratedAt time.Time     `json:"generated_at"`
	Rows        []RenderedRow `json:"rows"`
	Notice      string        `json:"notice,omitempty"`
}

// Panel returns the panel with the given name, or nil
func (d *Dashboard) Panel(name types.QueryName) *Panel {
	for i := range d.Rows {
		for j := range d.Rows[i].Panels {
			if d.Rows[i].Panels[j].Name == name {
				return &d.Rows[i].Panels[j]
			}
		}
	}
	return nil
}

// FailedPanels returns the names of panels whose query or binding failed
func (d *Dashboard) FailedPanels() []types.QueryName {
	var failed []types.QueryName
	for _, row := range d.Rows {
		for _, p := range row.Panels {
			if p.Failed() {
				failed = append(failed, p.Name)
			}
		}
	}
	return failed
}
