package middleware

import (
	"net/http"
	"time"

	"github.com/nahidhasan98/webhook-shunt/internal/logger"
)

// Middleware represents the middleware dependencies
type Middleware struct {
	log *logger.Logger
}

// New creates a new middleware instance
func New(log *logger.Logger) *Middleware {
	return &Middleware{log: log}
}

// Chain wraps next with recovery and access logging
func (m *Middleware) Chain(next http.Handler) http.Handler {
	return m.Logging(m.Recovery(next))
}

// Logging logs each HTTP request once it has been answered
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		m.log.With("method", r.Method).
			With("path", r.URL.Path).
			With("status", rw.statusCode).
			With("event", r.Header.Get("X-GitHub-Event")).
			With("duration", time.Since(start).String()).
			With("remote_addr", r.RemoteAddr).
			Infof("HTTP request completed")
	})
}

// Recovery turns a panic into a 500 for handlers that don't contain their own
func (m *Middleware) Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				m.log.Errorf("Panic in HTTP handler: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// responseWriter is a wrapper for http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
