// Package webui serves a development page for inspecting the timetable dataset.
package webui

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/julienschmidt/httprouter"

	"ferrytimetable.org/internal/app"
	"ferrytimetable.org/internal/utils"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

type debugData struct {
	Title string
	Pre   string
}

type WebUI struct {
	*app.Application
}

func New(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

// SetRoutes registers the debug page on router.
func (webUI *WebUI) SetRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := debugTemplate.Execute(w, debugData{
		Title: title,
		Pre:   spew.Sdump(data),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var (
		data  interface{}
		title string
		err   error
	)

	switch query.Get("dataType") {
	case "counts":
		title = "Dataset - Table counts"
		data, err = webUI.Store.TableCounts(ctx)
	case "ports":
		title = "Dataset - Ports"
		data, err = webUI.Timetable.ListPorts(ctx)
	case "routes":
		title = "Dataset - Routes"
		data, err = webUI.Timetable.ListRoutes(ctx)
	case "departures":
		from, to := query.Get("from"), query.Get("to")
		title = "Departures " + from + " to " + to
		if fieldErrors := utils.ValidateDepartureParams(from, to, query.Get("date")); len(fieldErrors) > 0 {
			data = fieldErrors
			break
		}
		var date time.Time
		date, err = utils.ParseServiceDate(query.Get("date"), time.Now(), time.UTC)
		if err == nil {
			data, err = webUI.Timetable.FetchDepartures(ctx, date, from, to)
		}
	default:
		title = "Choose a data type"
		data = map[string]string{
			"error": "Please use one of the following: counts, ports, routes, departures.",
		}
	}

	if err != nil {
		data = map[string]string{"error": err.Error()}
	}

	writeDebugData(w, title, data)
}
