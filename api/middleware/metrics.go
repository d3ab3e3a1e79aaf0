package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simplezakka/zakka-backend/pkg/metrics"
)

// Metrics records each request against its chi route pattern, read after
// routing so path parameters do not explode label cardinality.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := m.Start()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			done(r.Method, route, rec.statusCode())
		})
	}
}
