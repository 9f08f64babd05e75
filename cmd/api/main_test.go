package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "seconds", cfg.Dataset.DurationUnit)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ferry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
  apiKeys: [from-file]
dataset:
  path: /srv/ferry.db
  durationUnit: minutes
`), 0o600))

	cfg, err := loadConfig([]string{"-config", path, "-port", "9090", "-api-keys", "alpha, beta,"})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.ApiKeys)
	assert.Equal(t, "/srv/ferry.db", cfg.Dataset.Path)
	assert.Equal(t, "minutes", cfg.Dataset.DurationUnit)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig([]string{"-duration-unit", "hours"})
	assert.Error(t, err)

	_, err = loadConfig([]string{"-port", "not-a-number"})
	assert.Error(t, err)
}
