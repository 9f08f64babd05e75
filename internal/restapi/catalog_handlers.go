package restapi

import (
	"net/http"

	"ferrytimetable.org/internal/models"
)

func (api *RestAPI) routesHandler(w http.ResponseWriter, r *http.Request) {
	routes, err := api.Timetable.ListRoutes(r.Context())
	if err != nil {
		api.storageFailureResponse(w, r, "list_routes", err)
		return
	}

	list := make([]models.RouteReference, 0, len(routes))
	codes := make(map[string]bool)
	for _, route := range routes {
		list = append(list, models.NewRouteReference(route))
		codes[route.Source] = true
		codes[route.Destination] = true
	}

	references := models.NewEmptyReferences()
	references.Ports = api.portReferences(r.Context(), codes)

	api.sendResponse(w, r, models.NewTimetableListResponse(list, references, true))
}

func (api *RestAPI) portsHandler(w http.ResponseWriter, r *http.Request) {
	ports, err := api.Timetable.ListPorts(r.Context())
	if err != nil {
		api.storageFailureResponse(w, r, "list_ports", err)
		return
	}

	api.sendResponse(w, r, models.NewTimetableListResponse(models.NewPortReferences(ports, nil), models.NewEmptyReferences(), true))
}
