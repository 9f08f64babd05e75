package app

import (
	"net/http"
	"slices"
)

// RequestHasInvalidAPIKey checks the "key" query parameter.
func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return app.IsInvalidAPIKey(r.URL.Query().Get("key"))
}

// IsInvalidAPIKey reports whether key is blank or not configured. Keys are
// case sensitive.
func (app *Application) IsInvalidAPIKey(key string) bool {
	return key == "" || !slices.Contains(app.Config.Server.ApiKeys, key)
}
