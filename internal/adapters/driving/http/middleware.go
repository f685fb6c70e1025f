package http

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/brightpath-labs/zohobridge/internal/core/ports/driving"
)

// ZohoGuard blocks CRM endpoints until a valid Zoho grant exists.
// It asks the token service for a usable access token, which refreshes
// a stale one behind the scenes.
type ZohoGuard struct {
	tokenService driving.TokenService
}

// NewZohoGuard creates a new ZohoGuard
func NewZohoGuard(tokenService driving.TokenService) *ZohoGuard {
	return &ZohoGuard{
		tokenService: tokenService,
	}
}

// Authorize lets the request through only when a valid token is
// available. API clients get a 401 with an authenticated flag; browsers
// are redirected into the authorization flow.
func (g *ZohoGuard) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.tokenService.ValidAccessToken(r.Context()); err != nil {
			if wantsJSON(r) {
				writeJSON(w, http.StatusUnauthorized, map[string]any{
					"error":         "Unauthorized",
					"authenticated": false,
				})
				return
			}
			http.Redirect(w, r, "/auth/zoho", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// wantsJSON reports whether the client expects a JSON response rather
// than a browser redirect.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// Logging middleware

// LoggingMiddleware logs HTTP requests
type LoggingMiddleware struct{}

// NewLoggingMiddleware creates a new LoggingMiddleware
func NewLoggingMiddleware() *LoggingMiddleware {
	return &LoggingMiddleware{}
}

// Handler wraps an http.Handler with request logging
func (m *LoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Printf("%s %s %d %v", r.Method, r.URL.Path, rw.statusCode, duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Recovery middleware

// RecoveryMiddleware recovers from panics
type RecoveryMiddleware struct{}

// NewRecoveryMiddleware creates a new RecoveryMiddleware
func NewRecoveryMiddleware() *RecoveryMiddleware {
	return &RecoveryMiddleware{}
}

// Handler wraps an http.Handler with panic recovery
func (m *RecoveryMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: %v", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
