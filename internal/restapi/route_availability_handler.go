package restapi

import (
	"log/slog"
	"net/http"
	"time"

	"ferrytimetable.org/internal/calendar"
	"ferrytimetable.org/internal/logging"
	"ferrytimetable.org/internal/models"
	"ferrytimetable.org/internal/utils"
	"ferrytimetable.org/timetabledb"
)

// routeAvailabilityHandler answers whether a route runs on a date. A dataset
// failure reports the route as unavailable with storageAvailable false.
func (api *RestAPI) routeAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
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

	entry := models.RouteAvailabilityEntry{
		RouteID:          routeID,
		ServiceDate:      date.Format(calendar.DateLayout),
		StorageAvailable: true,
	}

	available, err := api.Timetable.AreTripsAvailable(r.Context(), routeID, date)
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "timetable dataset read failed", err,
			slog.String("operation", "trips_available"),
			slog.String("route_id", routeID),
			slog.Bool("storage_unavailable", timetabledb.IsStorageUnavailable(err)))
		entry.StorageAvailable = false
	}
	entry.Available = available

	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewEmptyReferences()))
}
