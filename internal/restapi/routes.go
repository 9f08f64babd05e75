package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// SetRoutes registers every API endpoint on router.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/ferry/current-time.json", validateAPIKey(api, api.currentTimeHandler))
	router.Handler(http.MethodGet, "/api/ferry/departures.json", validateAPIKey(api, api.departuresHandler))
	router.Handler(http.MethodGet, "/api/ferry/trips-for-route/:id", validateAPIKey(api, api.tripsForRouteHandler))
	router.Handler(http.MethodGet, "/api/ferry/route-availability/:id", validateAPIKey(api, api.routeAvailabilityHandler))
	router.Handler(http.MethodGet, "/api/ferry/routes.json", validateAPIKey(api, api.routesHandler))
	router.Handler(http.MethodGet, "/api/ferry/ports.json", validateAPIKey(api, api.portsHandler))
}

// Routes returns a router with the API registered and JSON 404s for
// unknown paths.
func (api *RestAPI) Routes() *httprouter.Router {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(api.notFoundResponse)
	api.SetRoutes(router)
	return router
}
