package timetabledb

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"ferrytimetable.org/internal/calendar"
	"ferrytimetable.org/internal/logging"
)

//go:embed schema.sql
var ddl string

// TripRecord is a trip as written to the dataset. Durations are kept as the
// raw text the dataset stores.
type TripRecord struct {
	ID              string
	RouteID         string
	DepartureHour   int
	DepartureMinute int
	ArrivalHour     *int
	ArrivalMinute   *int
	RunTime         string
	Notes           string
	CalendarIDs     []string
}

// LegRecord is one leg of a route section as written to the dataset.
type LegRecord struct {
	FromCode        string
	FromName        string
	ToCode          string
	ToName          string
	DepartureHour   int
	DepartureMinute int
	RunTime         string
	WaitTime        string
	Order           int
	Note            string
}

// SectionRecord is a multi-leg itinerary and the calendars it runs on.
type SectionRecord struct {
	ID          string
	CalendarIDs []string
	Legs        []LegRecord
}

// Dataset is everything a timetable file holds.
type Dataset struct {
	Ports      []Port
	Routes     []Route
	Calendars  []Calendar
	Exclusions []Exclusion
	Trips      []TripRecord
	Sections   []SectionRecord
}

// Builder writes timetable dataset files. Readers always go through Client.
type Builder struct {
	db     *sql.DB
	logger *slog.Logger
}

// CreateDataset creates (or opens) a writable dataset at path and applies the schema.
func CreateDataset(ctx context.Context, path string, logger *slog.Logger) (*Builder, error) {
	logger = logging.WithComponent(logger, "timetabledb_builder")

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path))
	if err != nil {
		return nil, fmt.Errorf("error opening dataset: %w", err)
	}
	// One writer keeps the foreign_keys pragma and transactions on the same connection.
	db.SetMaxOpenConns(1)

	if err := performDatabaseMigration(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}

	return &Builder{
		db:     db,
		logger: logger,
	}, nil
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	statements := strings.Split(ddl, "-- migrate")
	for _, stmt := range statements {
		trimmedStmt := strings.TrimSpace(stmt)
		if trimmedStmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, trimmedStmt); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmedStmt, err)
		}
	}
	return nil
}

func (b *Builder) Close() error {
	return b.db.Close()
}

// Build writes dataset inside a single transaction.
func (b *Builder) Build(ctx context.Context, dataset Dataset) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, b.logger, "build_dataset")

	for _, p := range dataset.Ports {
		if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO ports (code, name) VALUES (?, ?)", p.Code, p.Name); err != nil {
			return fmt.Errorf("error inserting port %s: %w", p.Code, err)
		}
	}

	for _, r := range dataset.Routes {
		if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO routes (id, source, destination) VALUES (?, ?, ?)",
			r.ID, r.Source, r.Destination); err != nil {
			return fmt.Errorf("error inserting route %s: %w", r.ID, err)
		}
	}

	for _, cal := range dataset.Calendars {
		if err := insertCalendar(ctx, tx, cal); err != nil {
			return err
		}
	}

	for _, e := range dataset.Exclusions {
		if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO calendar_exclusions (calendar_id, date) VALUES (?, ?)",
			e.CalendarID, e.Date.Format(calendar.DateLayout)); err != nil {
			return fmt.Errorf("error inserting exclusion %s %s: %w", e.CalendarID, e.Date.Format(calendar.DateLayout), err)
		}
	}

	for _, t := range dataset.Trips {
		if err := insertTrip(ctx, tx, t); err != nil {
			return err
		}
	}

	for _, s := range dataset.Sections {
		if err := insertSection(ctx, tx, s); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	logging.LogOperation(b.logger, "dataset_built",
		slog.Int("ports", len(dataset.Ports)),
		slog.Int("routes", len(dataset.Routes)),
		slog.Int("calendars", len(dataset.Calendars)),
		slog.Int("trips", len(dataset.Trips)),
		slog.Int("route_sections", len(dataset.Sections)))
	return nil
}

func insertCalendar(ctx context.Context, tx *sql.Tx, cal Calendar) error {
	_, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO calendar (
			id, monday, tuesday, wednesday, thursday,
			friday, saturday, sunday, start_date, end_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cal.ID, boolToInt(cal.Monday), boolToInt(cal.Tuesday), boolToInt(cal.Wednesday), boolToInt(cal.Thursday),
		boolToInt(cal.Friday), boolToInt(cal.Saturday), boolToInt(cal.Sunday),
		cal.StartDate.Format(calendar.DateLayout), cal.EndDate.Format(calendar.DateLayout),
	)
	if err != nil {
		return fmt.Errorf("error inserting calendar %s: %w", cal.ID, err)
	}
	return nil
}

func insertTrip(ctx context.Context, tx *sql.Tx, t TripRecord) error {
	_, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO trips (
			id, route_id, departure_hour, departure_minute,
			arrival_hour, arrival_minute, run_time, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.RouteID, t.DepartureHour, t.DepartureMinute,
		toNullInt64(t.ArrivalHour), toNullInt64(t.ArrivalMinute),
		toNullString(t.RunTime), toNullString(t.Notes),
	)
	if err != nil {
		return fmt.Errorf("error inserting trip %s: %w", t.ID, err)
	}

	for _, calendarID := range t.CalendarIDs {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO calendar_trips (calendar_id, trip_id) VALUES (?, ?)",
			calendarID, t.ID); err != nil {
			return fmt.Errorf("error linking trip %s to calendar %s: %w", t.ID, calendarID, err)
		}
	}
	return nil
}

func insertSection(ctx context.Context, tx *sql.Tx, s SectionRecord) error {
	for _, leg := range s.Legs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO route_section_legs (
				route_section_id, from_code, from_name, to_code, to_name,
				departure_hour, departure_minute, run_time, wait_time, leg_order, note
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, leg.FromCode, leg.FromName, leg.ToCode, leg.ToName,
			leg.DepartureHour, leg.DepartureMinute,
			toNullString(leg.RunTime), toNullString(leg.WaitTime), leg.Order, toNullString(leg.Note),
		)
		if err != nil {
			return fmt.Errorf("error inserting leg %d of route section %s: %w", leg.Order, s.ID, err)
		}
	}

	for _, calendarID := range s.CalendarIDs {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO calendar_route_sections (calendar_id, route_section_id) VALUES (?, ?)",
			calendarID, s.ID); err != nil {
			return fmt.Errorf("error linking route section %s to calendar %s: %w", s.ID, calendarID, err)
		}
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func toNullInt64(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// toNullString converts a string to sql.NullString
func toNullString(s string) sql.NullString {
	return sql.NullString{
		String: s,
		Valid:  s != "",
	}
}
