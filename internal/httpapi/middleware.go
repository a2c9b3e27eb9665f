package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/dkhamitov/order-service/internal/observability"
)

// requestLogger times each request, appends app;dur=... to Server-Timing and
// records the outcome in both the logger and the metrics sink.
func requestLogger(logger *zap.Logger, m observability.Metrics) func(http.Handler) http.Handler {
	if m == nil {
		m = observability.Noop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			durMs := float64(time.Since(start).Microseconds()) / 1000.0
			observability.AppendServerTiming(w, "app", durMs, "")

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			m.ObserveHTTP(r.Method, route, ww.Status(), durMs)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Float64("duration_ms", durMs),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
