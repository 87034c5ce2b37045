package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// probePaths are polled by the orchestrator and scraper; they log at debug.
var probePaths = map[string]bool{"/healthz": true, "/readyz": true, "/metrics": true}

// RequestLogger stores a request-scoped logger (tagged with request_id) in the
// context for zerolog.Ctx and writes one line per completed request.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			r = r.WithContext(reqLogger.WithContext(r.Context()))

			rw := newResponseRecorder(w)
			next.ServeHTTP(rw, r)

			var event *zerolog.Event
			switch {
			case rw.status >= http.StatusInternalServerError:
				event = reqLogger.Warn()
			case probePaths[r.URL.Path]:
				event = reqLogger.Debug()
			default:
				event = reqLogger.Info()
			}

			// Query strings are not logged; proxy targets may carry signed URLs.
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", rw.status).
				Int64("bytes", rw.bytes).
				Str("remote_ip", r.RemoteAddr).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
