package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestRateLimitMiddleware_BlocksRequestsOverLimit(t *testing.T) {
	limited := NewRateLimitMiddleware(3, time.Minute)(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(limited, "/test?key=ferry").Code, "request %d", i+1)
	}

	w := doRequest(limited, "/test?key=ferry")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "20", w.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(http.StatusTooManyRequests), body["code"])
	assert.Contains(t, body["text"], "Rate limit exceeded")
}

func TestRateLimitMiddleware_PerAPIKeyLimiting(t *testing.T) {
	limited := NewRateLimitMiddleware(2, time.Minute)(okHandler())

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, doRequest(limited, "/test?key=first").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(limited, "/test?key=first").Code)

	assert.Equal(t, http.StatusOK, doRequest(limited, "/test?key=second").Code)
	assert.Equal(t, http.StatusOK, doRequest(limited, "/test").Code)
}

func TestRateLimitMiddleware_DisabledWhenZero(t *testing.T) {
	limited := NewRateLimitMiddleware(0, time.Second)(okHandler())

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, doRequest(limited, "/test?key=ferry").Code)
	}
}

func TestRateLimitMiddleware_SweepsIdleLimiters(t *testing.T) {
	rl := newRateLimiter(1, time.Second)
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("idle")
	now = now.Add(limiterIdleExpiry + time.Second)
	rl.getLimiter("fresh")

	assert.NotContains(t, rl.limiters, "idle")
	assert.Contains(t, rl.limiters, "fresh")
}

func TestRateLimitMiddleware_ConcurrentRequests(t *testing.T) {
	limited := NewRateLimitMiddleware(10, time.Minute)(okHandler())

	var allowed, blocked atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if doRequest(limited, "/test?key=ferry").Code == http.StatusOK {
				allowed.Add(1)
			} else {
				blocked.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), allowed.Load())
	assert.Equal(t, int32(15), blocked.Load())
}
