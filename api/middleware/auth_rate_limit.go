package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/simplezakka/zakka-backend/api/responses"
	pkgerrors "github.com/simplezakka/zakka-backend/pkg/errors"
	"github.com/simplezakka/zakka-backend/pkg/logger"
)

// maxAuthBody caps how much of a login or register body is buffered to find the email.
const maxAuthBody = 64 << 10

type rateLimitStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// AuthRateLimitPolicy throttles one customer auth endpoint by client IP and by
// the email in the request body.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// rateSubject is one counter a request is charged against.
type rateSubject struct {
	kind  string
	value string
	limit int
}

func (p AuthRateLimitPolicy) scope(s rateSubject) string {
	return "auth:" + p.name + ":" + s.kind + ":" + s.value
}

// subjects lists the counters for r. The body is buffered and restored so the
// handler still sees it.
func (p AuthRateLimitPolicy) subjects(w http.ResponseWriter, r *http.Request) ([]rateSubject, error) {
	var out []rateSubject
	if p.ipLimit > 0 {
		if ip := clientIP(r); ip != "" {
			out = append(out, rateSubject{kind: "ip", value: ip, limit: p.ipLimit})
		}
	}
	if p.emailLimit > 0 && r.Body != nil {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAuthBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "request body too large")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body")
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		if email := emailFromBody(body); email != "" {
			out = append(out, rateSubject{kind: "email", value: hashEmail(email), limit: p.emailLimit})
		}
	}
	return out, nil
}

// AuthRateLimit rejects requests with RATE_LIMIT_EXCEEDED once any counter of
// the policy passes its limit inside the window. A nil store disables it.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			subjects, err := policy.subjects(w, r)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			for _, s := range subjects {
				allowed, count, err := store.FixedWindowAllow(ctx, policy.scope(s), int64(s.limit), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiter unavailable"))
					return
				}
				if !allowed {
					policy.reject(ctx, logg, w, s, count)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (p AuthRateLimitPolicy) reject(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, s rateSubject, count int64) {
	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"policy":   p.name,
			"subject":  s.kind,
			"attempts": count,
			"limit":    s.limit,
		}), "auth.rate_limited")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(p.window.Round(time.Second).Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later").
		WithDetails(map[string]any{"retryAfterSeconds": int(p.window.Seconds())}))
}

// clientIP prefers the first valid X-Forwarded-For hop, then X-Real-IP, then the socket peer.
func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	candidates := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	candidates = append(candidates, r.Header.Get("X-Real-IP"))
	for _, c := range candidates {
		if ip := net.ParseIP(strings.TrimSpace(c)); ip != nil {
			return ip.String()
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func emailFromBody(body []byte) string {
	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(payload.Email))
}

// hashEmail keeps raw addresses out of Redis keys and logs.
func hashEmail(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
