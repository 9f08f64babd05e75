package restapi

import (
	"net/http"
	"time"

	"ferrytimetable.org/internal/models"
	"ferrytimetable.org/internal/utils"
)

func (api *RestAPI) departuresHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from := utils.SanitizeInput(query.Get("from"))
	to := utils.SanitizeInput(query.Get("to"))
	dateParam := query.Get("date")

	if fieldErrors := utils.ValidateDepartureParams(from, to, dateParam); len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	date, err := utils.ParseServiceDate(dateParam, api.now(), time.UTC)
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"date": {err.Error()}})
		return
	}

	ctx := r.Context()
	departures, err := api.Timetable.FetchDepartures(ctx, date, from, to)
	if err != nil {
		api.storageFailureResponse(w, r, "fetch_departures", err)
		return
	}

	list := make([]models.DepartureEntry, 0, len(departures))
	for _, d := range departures {
		list = append(list, models.NewDepartureEntry(d, date))
	}

	references := models.NewEmptyReferences()
	references.Ports = api.portReferences(ctx, map[string]bool{from: true, to: true})

	api.sendResponse(w, r, models.NewTimetableListResponse(list, references, true))
}
