package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/simplezakka/zakka-backend/pkg/config"
	"github.com/simplezakka/zakka-backend/pkg/logger"
)

const cartSessionHeader = "X-Session-Id"

const maxSessionIDLen = 128

// CartSession resolves the browser's cart handle from the X-Session-Id
// header or the session cookie, minting a new one when neither is usable.
// The handle is echoed back in both places so API clients and browsers
// keep sending it.
func CartSession(cfg config.CartConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "zakka_session"
	}
	maxAge := int(cfg.TTL.Seconds())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := validSessionID(r.Header.Get(cartSessionHeader))
			if sessionID == "" {
				if cookie, err := r.Cookie(cookieName); err == nil {
					sessionID = validSessionID(cookie.Value)
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   maxAge,
				HttpOnly: true,
				Secure:   cfg.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(cartSessionHeader, sessionID)

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validSessionID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxSessionIDLen {
		return ""
	}
	for _, c := range raw {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return ""
		}
	}
	return raw
}
