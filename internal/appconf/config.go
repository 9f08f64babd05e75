// Package appconf loads the server configuration from YAML.
package appconf

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"ferrytimetable.org/timetabledb"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port               int      `yaml:"port" validate:"min=1,max=65535"`
	Env                string   `yaml:"env" validate:"oneof=development test production"`
	ApiKeys            []string `yaml:"apiKeys" validate:"dive,required"`
	RateLimit          int      `yaml:"rateLimit" validate:"min=0"`
	CompressionMinSize int      `yaml:"compressionMinSize" validate:"min=0"`
}

type DatasetConfig struct {
	Path         string `yaml:"path" validate:"required"`
	DurationUnit string `yaml:"durationUnit" validate:"oneof=seconds minutes"`
	MaxOpenConns int    `yaml:"maxOpenConns" validate:"min=0"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:               4000,
			Env:                Development.String(),
			ApiKeys:            []string{"test"},
			RateLimit:          100,
			CompressionMinSize: 1024,
		},
		Dataset: DatasetConfig{
			Path:         "timetable.db",
			DurationUnit: timetabledb.Seconds.String(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path on top of the defaults and validates
// the result. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) Environment() Environment {
	return EnvFlagToEnvironment(c.Server.Env)
}

// TimetableConfig derives the dataset client configuration.
func (c Config) TimetableConfig(logger *slog.Logger) timetabledb.Config {
	unit, err := timetabledb.ParseDurationUnit(c.Dataset.DurationUnit)
	if err != nil {
		unit = timetabledb.Seconds
	}
	return timetabledb.Config{
		DBPath:       c.Dataset.Path,
		DurationUnit: unit,
		MaxOpenConns: c.Dataset.MaxOpenConns,
		Logger:       logger,
	}
}

func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
