package http

import (
	"net/http"
	"strings"
)

// isSecureRequest reports whether the browser reached us over HTTPS, either
// directly or through a TLS-terminating proxy
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}

	// X-Forwarded-Proto may contain multiple values separated by comma
	// Use the first one (original client request)
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		first := strings.TrimSpace(strings.Split(proto, ",")[0])
		return strings.EqualFold(first, "https")
	}
	return false
}
