// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/openquest/questboard/pkg/metrics"
)

type contextKey string

const (
	callerUserIDKey contextKey = "caller_user_id"
	requestIDKey    contextKey = "request_id"
)

// callerHeader carries the authenticated user id resolved by the platform's
// auth gateway. Token verification itself happens upstream.
const callerHeader = "X-User-ID"

// CallerIdentityMiddleware extracts the caller's user id into the request
// context and tags the request with an id for log correlation.
func CallerIdentityMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if userID := r.Header.Get(callerHeader); userID != "" {
			ctx = context.WithValue(ctx, callerUserIDKey, userID)
		}
		ctx = context.WithValue(ctx, requestIDKey, uuid.New().String())
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// CallerUserID returns the authenticated caller's user id, or "" when the
// request is anonymous.
func CallerUserID(ctx context.Context) string {
	if id, ok := ctx.Value(callerUserIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestID returns the request correlation id, or "" outside a request.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		status := strconv.Itoa(wrapped.statusCode)

		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)
		if wrapped.statusCode >= http.StatusBadRequest {
			metrics.RecordErrorByComponent("http", errorKind(wrapped.statusCode))
		}
	}
}

// errorKind buckets an HTTP error status for the error counter.
func errorKind(statusCode int) string {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return "server_error"
	case statusCode == http.StatusNotFound:
		return "not_found"
	case statusCode == http.StatusUnauthorized:
		return "unauthenticated"
	default:
		return "client_error"
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}
