// Package middleware holds the HTTP wrappers shared by every route:
// request IDs, access logging and Prometheus request metrics.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ifrs15/pkg/logger"
	"github.com/okian/ifrs15/pkg/metrics"
)

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// Middleware decorates an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares in order: m1(m2(...(h))).
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Labeler names the route a request belongs to, for logs and metrics.
type Labeler func(r *http.Request) string

type requestIDKey struct{}

// RequestID echoes the client's X-Request-ID or assigns a new uuid.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFrom returns the id stored by RequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// AccessLog logs one debug record per request.
func AccessLog(log logger.Logger, label Labeler) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := Wrap(w)
			next.ServeHTTP(rec, r)
			log.Debug(r.Context(), "request",
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.String("route", label(r)),
				logger.Int("status", rec.Status()),
				logger.Int64("bytes", rec.Bytes()),
				logger.Duration("duration", time.Since(start)),
				logger.String("request_id", RequestIDFrom(r.Context())),
			)
		})
	}
}

// Metrics records request count and latency per route label.
func Metrics(m *metrics.Manager, label Labeler) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := Wrap(w)
			next.ServeHTTP(rec, r)
			durationMs := float64(time.Since(start).Microseconds()) / 1000
			m.HTTPRequest(label(r), r.Method, strconv.Itoa(rec.Status()), durationMs)
		})
	}
}
