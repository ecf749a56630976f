package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/frontend"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"github.com/secmon-lab/usageboard/pkg/usecase"
	"github.com/secmon-lab/usageboard/pkg/utils/apperr"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router  chi.Router
	handler *Handler
}

// Option configures optional server behavior
type Option func(*serverOptions)

type serverOptions struct {
	frontendFS http.FileSystem
	sessionTTL time.Duration
}

// WithFrontendFS serves the given filesystem instead of the embedded build
func WithFrontendFS(fs http.FileSystem) Option {
	return func(o *serverOptions) {
		o.frontendFS = fs
	}
}

// WithSessionCookieTTL sets the lifetime of the session cookie
func WithSessionCookieTTL(ttl time.Duration) Option {
	return func(o *serverOptions) {
		o.sessionTTL = ttl
	}
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	addr string,
	dashboardUC usecase.DashboardUseCase,
	selectorUC usecase.SelectorUseCase,
	opts ...Option,
) (*Server, error) {
	if dashboardUC == nil || selectorUC == nil {
		return nil, goerr.New("dashboard and selector use cases are required")
	}

	options := &serverOptions{
		sessionTTL: usecase.DefaultSessionTTL,
	}
	for _, opt := range opts {
		opt(options)
	}

	router := chi.NewRouter()
	handler := NewHandler(dashboardUC, selectorUC)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Get("/presets", handler.HandleGetPresets)
		r.Get("/queries", handler.HandleGetQueries)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(options.sessionTTL))
			r.Get("/range", handler.HandleGetRange)
			r.Put("/range", handler.HandlePutRange)
			r.Post("/range/preset", handler.HandlePostPreset)
			r.Get("/dashboard", handler.HandleGetDashboard)
		})
	})

	// Frontend routes (serve embedded or filesystem)
	fs := options.frontendFS
	if fs == nil {
		embedded, err := frontend.GetHTTPFS()
		if err != nil {
			ctxlog.From(ctx).Warn("Failed to get embedded frontend, using fallback",
				"error", err,
			)
		} else {
			fs = embedded
		}
	}

	if fs == nil {
		router.Get("/*", handleFallbackHome)
	} else {
		spa, err := NewSPAHandler(fs)
		if err != nil {
			return nil, err
		}
		ctxlog.From(ctx).Info("Serving frontend from embedded files")
		router.Handle("/*", spa)
	}

	server := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:  router,
		handler: handler,
	}

	return server, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "usageboard",
	})
}

// handleFallbackHome handles the root path when frontend is not available
func handleFallbackHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Snowflake Account Usage</title></head>
<body>
    <h1>Snowflake Account Usage</h1>
    <p>The dashboard frontend is not built. The JSON API is available at <a href="/api/dashboard">/api/dashboard</a>.</p>
</body>
</html>`)); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write fallback home page", "error", err)
	}
}

// writeJSON writes a JSON response body
func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// errorResponse is the JSON body of every failed API call
type errorResponse struct {
	Error string           `json:"error"`
	Range *model.DateRange `json:"range,omitempty"`
}

// writeError writes an error response. Server-side failures are logged and
// hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error, status int) {
	message := err.Error()
	if status >= http.StatusInternalServerError {
		apperr.Handle(r.Context(), err)
		message = http.StatusText(status)
	}
	writeJSON(w, r, status, errorResponse{Error: message})
}

// statusOf maps domain errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidDateRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrUnknownPreset):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
