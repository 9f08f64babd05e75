package restapi

import (
	"context"
	"log/slog"
	"net/http"

	"ferrytimetable.org/internal/logging"
	"ferrytimetable.org/internal/models"
	"ferrytimetable.org/timetabledb"
)

// storageFailureResponse renders a failed dataset read as an empty list with
// storageAvailable false, so clients can show an empty state instead of an error.
func (api *RestAPI) storageFailureResponse(w http.ResponseWriter, r *http.Request, operation string, err error) {
	logging.LogError(logging.FromContext(r.Context()), "timetable dataset read failed", err,
		slog.String("operation", operation),
		slog.Bool("storage_unavailable", timetabledb.IsStorageUnavailable(err)))
	api.sendResponse(w, r, models.NewTimetableListResponse([]any{}, models.NewEmptyReferences(), false))
}

// portReferences resolves the ports named by codes. Reference data is best
// effort: a failed lookup yields no port references rather than an error.
func (api *RestAPI) portReferences(ctx context.Context, codes map[string]bool) []models.PortReference {
	ports, err := api.Timetable.ListPorts(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("port references unavailable", "error", err)
		return []models.PortReference{}
	}
	return models.NewPortReferences(ports, codes)
}
