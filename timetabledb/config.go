package timetabledb

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ferrytimetable.org/internal/logging"
)

// DurationUnit is the unit that digit-only duration text in the dataset is expressed in.
type DurationUnit int

const (
	Seconds DurationUnit = iota
	Minutes
)

func (u DurationUnit) String() string {
	switch u {
	case Minutes:
		return "minutes"
	default:
		return "seconds"
	}
}

// ParseDurationUnit maps a configuration value onto a DurationUnit.
func ParseDurationUnit(value string) (DurationUnit, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "s", "sec", "secs", "seconds":
		return Seconds, nil
	case "m", "min", "mins", "minutes":
		return Minutes, nil
	default:
		return Seconds, fmt.Errorf("unknown duration unit %q", value)
	}
}

// Config holds configuration options for the Client
type Config struct {
	DBPath       string       // Path to the read-only SQLite dataset
	DurationUnit DurationUnit // Unit of run_time and wait_time text columns
	MaxOpenConns int          // Pool size, defaults to 25
	Logger       *slog.Logger
}

func NewConfig(dbPath string, unit DurationUnit, logger *slog.Logger) Config {
	return Config{
		DBPath:       dbPath,
		DurationUnit: unit,
		Logger:       logger,
	}
}

const (
	defaultMaxOpenConns = 25
	maxIdleConns        = 5
	connMaxLifetime     = 5 * time.Minute
)

func (c Config) maxOpenConns() int {
	if c.MaxOpenConns <= 0 {
		return defaultMaxOpenConns
	}
	return c.MaxOpenConns
}

func (c Config) logger() *slog.Logger {
	return logging.WithComponent(c.Logger, "timetabledb")
}
