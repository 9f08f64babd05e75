// Package restapi serves the ferry timetable over a JSON HTTP API.
package restapi

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"ferrytimetable.org/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter func(http.Handler) http.Handler
	now         func() time.Time
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.Server.RateLimit, time.Second),
		now:         time.Now,
	}
}

// Handler returns the routed API wrapped in the full middleware chain.
// extra registers additional routes, such as the development debug page.
func (api *RestAPI) Handler(extra ...func(*httprouter.Router)) http.Handler {
	router := api.Routes()
	for _, register := range extra {
		register(router)
	}

	var handler http.Handler = router
	handler = api.rateLimiter(handler)
	handler = NewCompressionMiddleware(CompressionConfig{
		MinSize: api.Config.Server.CompressionMinSize,
		Level:   DefaultCompressionConfig().Level,
	})(handler)
	handler = api.WithSecurityHeaders(handler)
	return NewRequestLoggingMiddleware(api.Logger)(handler)
}
