package restapi

import (
	"errors"
	"net/http"
	"time"

	"ferrytimetable.org/internal/models"
	"ferrytimetable.org/internal/utils"
	"ferrytimetable.org/timetabledb"
)

func (api *RestAPI) tripsForRouteHandler(w http.ResponseWriter, r *http.Request) {
	routeID := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(routeID); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	date, err := utils.ParseServiceDate(r.URL.Query().Get("date"), api.now(), time.UTC)
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"date": {err.Error()}})
		return
	}

	ctx := r.Context()
	route, err := api.Timetable.GetRoute(ctx, routeID)
	if errors.Is(err, timetabledb.ErrNotFound) {
		api.notFoundResponse(w, r)
		return
	}
	if err != nil {
		api.storageFailureResponse(w, r, "get_route", err)
		return
	}

	trips, err := api.Timetable.FetchTrips(ctx, routeID, date)
	if err != nil {
		api.storageFailureResponse(w, r, "fetch_trips", err)
		return
	}

	list := make([]models.TripEntry, 0, len(trips))
	for _, trip := range trips {
		list = append(list, models.NewTripEntry(trip))
	}

	references := models.NewEmptyReferences()
	references.Routes = append(references.Routes, models.NewRouteReference(route))
	references.Ports = api.portReferences(ctx, map[string]bool{route.Source: true, route.Destination: true})

	api.sendResponse(w, r, models.NewTimetableListResponse(list, references, true))
}
