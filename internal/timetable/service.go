// Package timetable answers departure questions against a timetable dataset.
package timetable

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ferrytimetable.org/internal/calendar"
	"ferrytimetable.org/internal/logging"
	"ferrytimetable.org/timetabledb"
)

// Store is the read side of a timetable dataset.
type Store interface {
	StandardDepartures(ctx context.Context, day calendar.ServiceDay, from, to string) (timetabledb.RowSet[timetabledb.Trip], error)
	MultiLegDepartures(ctx context.Context, day calendar.ServiceDay, from, to string) (timetabledb.RowSet[timetabledb.Leg], error)
	CountActiveTrips(ctx context.Context, routeID string, day calendar.ServiceDay) (int, error)
	TripsForRoute(ctx context.Context, routeID string, day calendar.ServiceDay) (timetabledb.RowSet[timetabledb.Trip], error)
	GetRoute(ctx context.Context, id string) (timetabledb.Route, error)
	ListRoutes(ctx context.Context) ([]timetabledb.Route, error)
	ListPorts(ctx context.Context) ([]timetabledb.Port, error)
}

// Service computes departures, trip lists and route availability. It keeps
// no state between calls and is safe for concurrent use.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logging.WithComponent(logger, "timetable"),
	}
}

// FetchDepartures returns every departure from one port to another on date,
// direct trips and multi-leg itineraries alike, ordered by departure time.
// A nil error with no departures means there is no service that day.
func (s *Service) FetchDepartures(ctx context.Context, date time.Time, from, to string) ([]Departure, error) {
	day := calendar.ForDate(date)

	trips, err := s.store.StandardDepartures(ctx, day, from, to)
	if err != nil {
		return nil, fmt.Errorf("standard departures %s→%s on %s: %w", from, to, day, err)
	}
	s.reportProblems("standard_departures", trips.Problems)

	legs, err := s.store.MultiLegDepartures(ctx, day, from, to)
	if err != nil {
		return nil, fmt.Errorf("multi-leg departures %s→%s on %s: %w", from, to, day, err)
	}
	s.reportProblems("multi_leg_departures", legs.Problems)

	departures := make([]Departure, 0, len(trips.Rows))
	for _, trip := range trips.Rows {
		departures = append(departures, departureFromTrip(trip))
	}

	// A section missing a leg cannot be accumulated correctly.
	broken := legs.BrokenKeys()
	usable := make([]timetabledb.Leg, 0, len(legs.Rows))
	for _, leg := range legs.Rows {
		if !broken[leg.RouteSectionID] {
			usable = append(usable, leg)
		}
	}
	departures = append(departures, ChainLegs(date, usable, from, to)...)

	SortDepartures(departures)
	return departures, nil
}

// DeparturesOrEmpty is FetchDepartures for callers that render any failure
// as "no departures". The failure is logged.
func (s *Service) DeparturesOrEmpty(ctx context.Context, date time.Time, from, to string) []Departure {
	departures, err := s.FetchDepartures(ctx, date, from, to)
	if err != nil {
		logging.LogError(s.logger, "failed to fetch departures", err,
			slog.String("operation", "fetch_departures"),
			slog.String("from", from),
			slog.String("to", to),
			slog.Bool("storage_unavailable", timetabledb.IsStorageUnavailable(err)))
		return []Departure{}
	}
	return departures
}

// AreTripsAvailable reports whether the route has at least one trip whose
// calendar is active on date. Time of day is ignored.
func (s *Service) AreTripsAvailable(ctx context.Context, routeID string, date time.Time) (bool, error) {
	count, err := s.store.CountActiveTrips(ctx, routeID, calendar.ForDate(date))
	if err != nil {
		return false, fmt.Errorf("count trips for route %s: %w", routeID, err)
	}
	return count > 0, nil
}

// TripsAvailable is AreTripsAvailable with failures logged and reported as false.
func (s *Service) TripsAvailable(ctx context.Context, routeID string, date time.Time) bool {
	available, err := s.AreTripsAvailable(ctx, routeID, date)
	if err != nil {
		logging.LogError(s.logger, "failed to check trip availability", err,
			slog.String("operation", "trips_available"),
			slog.String("route_id", routeID),
			slog.Bool("storage_unavailable", timetabledb.IsStorageUnavailable(err)))
		return false
	}
	return available
}

// FetchTrips lists the trips of a route running on date in departure order.
func (s *Service) FetchTrips(ctx context.Context, routeID string, date time.Time) ([]timetabledb.Trip, error) {
	trips, err := s.store.TripsForRoute(ctx, routeID, calendar.ForDate(date))
	if err != nil {
		return nil, fmt.Errorf("trips for route %s: %w", routeID, err)
	}
	s.reportProblems("trips_for_route", trips.Problems)

	if trips.Rows == nil {
		return []timetabledb.Trip{}, nil
	}
	return trips.Rows, nil
}

func (s *Service) GetRoute(ctx context.Context, id string) (timetabledb.Route, error) {
	return s.store.GetRoute(ctx, id)
}

func (s *Service) ListRoutes(ctx context.Context) ([]timetabledb.Route, error) {
	return s.store.ListRoutes(ctx)
}

func (s *Service) ListPorts(ctx context.Context) ([]timetabledb.Port, error) {
	return s.store.ListPorts(ctx)
}

func (s *Service) reportProblems(operation string, problems []*timetabledb.MappingError) {
	for _, problem := range problems {
		s.logger.Warn("skipped unreadable timetable row",
			slog.String("operation", operation),
			slog.String("table", problem.Table),
			slog.String("key", problem.Key),
			slog.String("column", problem.Column),
			slog.String("value", problem.Value),
			slog.String("error", problem.Err.Error()))
	}
}
