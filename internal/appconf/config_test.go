package appconf

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ferrytimetable.org/timetabledb"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, Development, cfg.Environment())
	assert.Equal(t, 100, cfg.Server.RateLimit)
	assert.Equal(t, "seconds", cfg.Dataset.DurationUnit)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
  env: production
  apiKeys: [alpha, beta]
dataset:
  path: /srv/ferry/timetable.db
  durationUnit: minutes
  maxOpenConns: 8
log:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, Production, cfg.Environment())
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.ApiKeys)
	assert.Equal(t, 1024, cfg.Server.CompressionMinSize, "unset keys keep their defaults")
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())

	tc := cfg.TimetableConfig(nil)
	assert.Equal(t, "/srv/ferry/timetable.db", tc.DBPath)
	assert.Equal(t, timetabledb.Minutes, tc.DurationUnit)
	assert.Equal(t, 8, tc.MaxOpenConns)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"port out of range", "server:\n  port: 70000\n"},
		{"unknown env", "server:\n  env: staging\n"},
		{"unknown unit", "dataset:\n  durationUnit: hours\n"},
		{"empty dataset path", "dataset:\n  path: \"\"\n"},
		{"blank api key", "server:\n  apiKeys: [\"\"]\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"not yaml", "server: [port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestEnvFlagToEnvironment(t *testing.T) {
	assert.Equal(t, Test, EnvFlagToEnvironment("test"))
	assert.Equal(t, Production, EnvFlagToEnvironment("Production"))
	assert.Equal(t, Development, EnvFlagToEnvironment("staging"))
	assert.Equal(t, "test", Test.String())
}
