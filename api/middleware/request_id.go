package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/simplezakka/zakka-backend/pkg/logger"
)

const RequestIDHeader = "X-Request-Id"

// inbound ids are echoed into logs and headers, so only short token-like values are trusted
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{8,64}$`)

// RequestID adopts a well-formed X-Request-Id from the caller or mints one,
// echoes it on the response and attaches it to the request context and logs.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if !requestIDPattern.MatchString(id) {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			ctx := withRequestID(r.Context(), id)
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
