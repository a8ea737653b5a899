package middlewares

import (
	"net/http"
	"strconv"

	c "bolao/internal/cache"
	apierrors "bolao/internal/errors"
	h "bolao/internal/helpers"

	"go.uber.org/zap"
)

// LimitedHandler answers a request that exceeded its budget. Retry-After is
// already set when it is called.
type LimitedHandler func(w http.ResponseWriter, r *http.Request, retryAfter int)

// RateLimit allows requestsPerMinute per client IP within scope and answers
// rejected requests with the JSON error body.
func RateLimit(cache c.ICache, trustedProxies []string, scope string, requestsPerMinute int) func(next http.Handler) http.Handler {
	return RateLimitFunc(cache, trustedProxies, scope, requestsPerMinute, respondTooManyRequests)
}

// RateLimitFunc is RateLimit with a custom rejection. Cache failures let the
// request through.
func RateLimitFunc(
	cache c.ICache,
	trustedProxies []string,
	scope string,
	requestsPerMinute int,
	onLimited LimitedHandler,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requestsPerMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := h.GetClientIP(r, trustedProxies)
			retryAfter, err := cache.GetRateLimit(scope+":"+clientIP, requestsPerMinute)
			if err != nil {
				zap.L().Error("Failed to check rate limit",
					zap.String("scope", scope),
					zap.String("client_ip", clientIP),
					zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if retryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				onLimited(w, r, retryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func respondTooManyRequests(w http.ResponseWriter, _ *http.Request, _ int) {
	h.RespondWithError(w, http.StatusTooManyRequests, []string{apierrors.ErrTooManyRequests})
}
