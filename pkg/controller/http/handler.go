package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"github.com/secmon-lab/usageboard/pkg/domain/types"
	"github.com/secmon-lab/usageboard/pkg/usecase"
)

// Handler serves the dashboard JSON API
type Handler struct {
	dashboardUC usecase.DashboardUseCase
	selectorUC  usecase.SelectorUseCase
}

// NewHandler creates a new API handler
func NewHandler(dashboardUC usecase.DashboardUseCase, selectorUC usecase.SelectorUseCase) *Handler {
	return &Handler{
		dashboardUC: dashboardUC,
		selectorUC:  selectorUC,
	}
}

type presetsResponse struct {
	Presets []model.Preset `json:"presets"`
	Default int            `json:"default"`
	MaxDays int            `json:"max_days"`
}

// HandleGetPresets lists the quick-select windows
func (h *Handler) HandleGetPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, presetsResponse{
		Presets: h.selectorUC.Presets(),
		Default: model.DefaultRangeDays,
		MaxDays: model.MaxLookbackDays,
	})
}

type rangeResponse struct {
	Range model.DateRange `json:"range"`
}

// HandleGetRange returns the session's current range
func (h *Handler) HandleGetRange(w http.ResponseWriter, r *http.Request) {
	id := sessionIDFrom(r)

	current, err := h.selectorUC.Current(r.Context(), id)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, rangeResponse{Range: current})
}

type putRangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// HandlePutRange stores a manually chosen range. A rejected range answers
// 422 with the retained range so the page can reset its inputs.
func (h *Handler) HandlePutRange(w http.ResponseWriter, r *http.Request) {
	var req putRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	id := sessionIDFrom(r)
	updated, err := h.selectorUC.SetRange(r.Context(), id, req.Start, req.End)
	if err != nil {
		h.writeRangeError(w, r, err, updated)
		return
	}
	writeJSON(w, r, http.StatusOK, rangeResponse{Range: updated})
}

type postPresetRequest struct {
	Days int `json:"days"`
}

// HandlePostPreset applies a preset window
func (h *Handler) HandlePostPreset(w http.ResponseWriter, r *http.Request) {
	var req postPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	id := sessionIDFrom(r)
	updated, err := h.selectorUC.ApplyPreset(r.Context(), id, req.Days)
	if err != nil {
		h.writeRangeError(w, r, err, updated)
		return
	}
	writeJSON(w, r, http.StatusOK, rangeResponse{Range: updated})
}

func (h *Handler) writeRangeError(w http.ResponseWriter, r *http.Request, err error, retained model.DateRange) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		writeError(w, r, err, status)
		return
	}

	ctxlog.From(r.Context()).Info("Range change rejected", "error", err)
	writeJSON(w, r, status, errorResponse{
		Error: err.Error(),
		Range: &retained,
	})
}

// HandleGetDashboard runs one full pipeline pass for the session's range
func (h *Handler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := sessionIDFrom(r)

	current, err := h.selectorUC.Current(ctx, id)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	dashboard, err := h.dashboardUC.Render(ctx, current)
	if err != nil {
		if ctx.Err() != nil {
			// client went away
			return
		}
		writeError(w, r, err, statusOf(err))
		return
	}

	writeJSON(w, r, http.StatusOK, dashboard)
}

type queryInfo struct {
	Name   types.QueryName `json:"name"`
	Title  string          `json:"title"`
	Ranged bool            `json:"ranged"`
	SQL    string          `json:"sql"`
}

// HandleGetQueries lists the catalog for read-only introspection
func (h *Handler) HandleGetQueries(w http.ResponseWriter, r *http.Request) {
	entries := h.dashboardUC.Queries()
	queries := make([]queryInfo, 0, len(entries))
	for _, e := range entries {
		queries = append(queries, queryInfo{
			Name:   e.Query.Name,
			Title:  e.Query.Title,
			Ranged: e.Query.Ranged,
			SQL:    e.Query.SQL,
		})
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"queries": queries})
}

func sessionIDFrom(r *http.Request) types.SessionID {
	id, _ := model.GetSessionID(r.Context())
	return id
}
