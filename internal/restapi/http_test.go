package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ferrytimetable.org/internal/app"
	"ferrytimetable.org/internal/appconf"
	"ferrytimetable.org/internal/fixtures"
	"ferrytimetable.org/internal/models"
)

func testConfig(datasetPath string) appconf.Config {
	cfg := appconf.Default()
	cfg.Server.Env = appconf.Test.String()
	cfg.Server.ApiKeys = []string{"TEST"}
	cfg.Server.RateLimit = 1000
	cfg.Dataset.Path = datasetPath
	return cfg
}

func newTestApi(t *testing.T, datasetPath string) *RestAPI {
	t.Helper()

	application := app.New(testConfig(datasetPath), slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = application.Close() })

	api := NewRestAPI(application)
	api.now = func() time.Time { return fixtures.ActiveMonday.Add(6 * time.Hour) }
	return api
}

// createTestApi serves the Ferry fixture dataset with the clock pinned to
// the morning of fixtures.ActiveMonday.
func createTestApi(t *testing.T) *RestAPI {
	return newTestApi(t, fixtures.BuildDataset(t, fixtures.Ferry()))
}

// createMissingDatasetApi points at a dataset file that does not exist.
func createMissingDatasetApi(t *testing.T) *RestAPI {
	return newTestApi(t, filepath.Join(t.TempDir(), "missing.db"))
}

// serveApiAndRetrieveEndpoint runs the full handler chain behind an
// httptest server and decodes the response envelope.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()

	server := httptest.NewServer(api.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var model models.ResponseModel
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(body, &model), string(body))
	} else {
		_ = json.Unmarshal(body, &model)
	}
	return resp, model
}

func dataMap(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "expected data to be an object, got %T", model.Data)
	return data
}

func listOf(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()
	list, ok := dataMap(t, model)["list"].([]interface{})
	require.True(t, ok, "expected data.list to be an array")
	return list
}
