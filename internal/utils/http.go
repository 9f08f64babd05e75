package utils

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// ExtractIDFromParams returns the named route parameter without a trailing
// ".json", so "/trips-for-route/C-D.json" and "/trips-for-route/C-D" match
// the same route.
func ExtractIDFromParams(r *http.Request, paramName string) string {
	id := httprouter.ParamsFromContext(r.Context()).ByName(paramName)
	return strings.TrimSuffix(id, ".json")
}
