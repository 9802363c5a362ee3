package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// routeClass names a group of endpoints that share one request budget.
type routeClass string

const (
	// classGeneral covers the cheap catalog and health endpoints.
	classGeneral routeClass = "general"
	// classSolve covers solve and compare, whose cost grows with items times capacity.
	classSolve routeClass = "solve"
)

// rateLimiter admits a request or reports how long the caller should wait.
type rateLimiter interface {
	Take() (ok bool, retryAfter time.Duration)
}

type tokenBucket struct {
	limiter *rate.Limiter
}

// newTokenBucket returns nil when ratePerSecond is not positive, which disables limiting.
// A non-positive burst admits at least one request, or one second's worth of tokens.
func newTokenBucket(ratePerSecond float64, burst int) rateLimiter {
	if ratePerSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = max(1, int(math.Ceil(ratePerSecond)))
	}
	return &tokenBucket{limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst)}
}

func (b *tokenBucket) Take() (bool, time.Duration) {
	res := b.limiter.Reserve()
	if !res.OK() {
		return false, time.Second
	}
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		return false, delay
	}
	return true, 0
}

// limitRoute wraps a single route with the budget of its class.
func limitRoute(class routeClass, limiter rateLimiter, logger *zap.Logger, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retryAfter := limiter.Take()
		if ok {
			next.ServeHTTP(w, r)
			return
		}

		seconds := max(1, int(math.Ceil(retryAfter.Seconds())))
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		logger.Debug("rate limited",
			zap.String("class", string(class)),
			zap.String("path", r.URL.Path),
			zap.Duration("retry_after", retryAfter),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
		writeError(w, http.StatusTooManyRequests, "Too many requests",
			"rate limit for "+string(class)+" requests exceeded, please retry shortly")
	})
}
