package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"github.com/secmon-lab/usageboard/pkg/domain/types"
)

// SessionCookieName holds the view session ID
const SessionCookieName = "usageboard_session"

// SessionMiddleware attaches the view session ID to the request context,
// issuing a new cookie when the browser has none or a malformed one
func SessionMiddleware(ttl time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id types.SessionID
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				id = types.SessionID(cookie.Value)
			}

			if err := id.Validate(); err != nil {
				id = types.NewSessionID()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    id.String(),
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   isSecureRequest(r),
					SameSite: http.SameSiteLaxMode,
				})
				ctxlog.From(r.Context()).Debug("Issued view session", "sessionID", id)
			}

			ctx := model.WithSessionID(r.Context(), id)
			ctx = ctxlog.With(ctx, ctxlog.From(ctx).With("sessionID", id.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggingMiddleware creates a chi-compatible logging middleware
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Embed logger from the initial context into request context
			r = r.WithContext(ctxlog.With(r.Context(), ctxlog.From(ctx)))

			logger := ctxlog.From(r.Context())
			start := time.Now()

			// Wrap response writer to capture status
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.Query(),
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"requestID", middleware.GetReqID(r.Context()),
			)
		})
	}
}
