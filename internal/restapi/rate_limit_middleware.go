package restapi

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"ferrytimetable.org/internal/models"
)

const (
	noKeyBucket       = "__no_key__"
	limiterIdleExpiry = 10 * time.Minute
)

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware provides per-API-key rate limiting
type RateLimitMiddleware struct {
	limiters  map[string]*keyLimiter
	mu        sync.Mutex
	rateLimit rate.Limit
	burstSize int
	now       func() time.Time
}

// NewRateLimitMiddleware allows ratePerInterval requests per interval for
// each API key, with bursts of the same size. A rate of zero or less
// disables limiting.
func NewRateLimitMiddleware(ratePerInterval int, interval time.Duration) func(http.Handler) http.Handler {
	if ratePerInterval <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return newRateLimiter(ratePerInterval, interval).rateLimitHandler
}

func newRateLimiter(ratePerInterval int, interval time.Duration) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiters:  make(map[string]*keyLimiter),
		rateLimit: rate.Every(interval / time.Duration(ratePerInterval)),
		burstSize: ratePerInterval,
		now:       time.Now,
	}
}

// getLimiter returns the limiter for apiKey, creating it on first use.
// Limiters idle for longer than limiterIdleExpiry are swept on the way.
func (rl *RateLimitMiddleware) getLimiter(apiKey string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, exists := rl.limiters[apiKey]
	if !exists {
		rl.sweep(now)
		entry = &keyLimiter{limiter: rate.NewLimiter(rl.rateLimit, rl.burstSize)}
		rl.limiters[apiKey] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

func (rl *RateLimitMiddleware) sweep(now time.Time) {
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleExpiry {
			delete(rl.limiters, key)
		}
	}
}

func (rl *RateLimitMiddleware) rateLimitHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.URL.Query().Get("key")
		if apiKey == "" {
			apiKey = noKeyBucket
		}

		if !rl.getLimiter(apiKey).Allow() {
			rl.sendRateLimitExceeded(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// sendRateLimitExceeded sends a 429 Too Many Requests response
func (rl *RateLimitMiddleware) sendRateLimitExceeded(w http.ResponseWriter) {
	retryAfter := int(math.Ceil(1 / float64(rl.rateLimit)))
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.WriteHeader(http.StatusTooManyRequests)

	response := models.NewEntryResponse(nil, models.NewEmptyReferences())
	response.Code = http.StatusTooManyRequests
	response.Text = "Rate limit exceeded. Please try again later."
	_ = json.NewEncoder(w).Encode(response)
}
