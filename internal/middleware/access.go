// internal/middleware/access.go
//
// Access-log middleware.
//
// Context
// -------
// One INFO line per request with method, route pattern, status, bytes,
// duration, and the client fingerprint from requestinfo.  The chi route
// pattern ("/editor/validate") is logged instead of the raw path so log
// cardinality stays bounded.  Requests that end in 5xx are logged at
// ERROR.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/recordeditor/internal/metrics"
	"github.com/yanizio/recordeditor/internal/requestinfo"
)

// AccessLog returns a middleware that logs every request to log.
// d may be nil; a zero Describer is used.
func AccessLog(log *zap.SugaredLogger, d *requestinfo.Describer) func(http.Handler) http.Handler {
	if d == nil {
		d = &requestinfo.Describer{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()

			c := d.Describe(r)
			kv := []any{
				"method", r.Method,
				"route", route,
				"status", status,
				"bytes", ww.BytesWritten(),
				"dur", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
				"ip", c.IP,
				"browser", c.Browser,
				"device", c.Device,
				"bot", c.IsBot,
				"country", c.Country,
			}
			if status >= http.StatusInternalServerError {
				log.Errorw("request", kv...)
				return
			}
			log.Infow("request", kv...)
		})
	}
}
