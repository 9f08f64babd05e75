package timetabledb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ferrytimetable.org/internal/calendar"
)

const tripColumns = `
    t.id, t.route_id, r.source, r.destination,
    t.departure_hour, t.departure_minute,
    t.arrival_hour, t.arrival_minute,
    t.run_time, t.notes`

const standardDeparturesSQL = activeCalendarsCTE + `
SELECT` + tripColumns + `
FROM trips t
JOIN routes r ON r.id = t.route_id
WHERE r.source = ?
    AND r.destination = ?
    AND t.id IN (
        SELECT ct.trip_id FROM calendar_trips ct
        WHERE ct.calendar_id IN (SELECT id FROM active_calendars)
    )
ORDER BY t.departure_hour, t.departure_minute, t.id`

const tripsForRouteSQL = activeCalendarsCTE + `
SELECT` + tripColumns + `
FROM trips t
JOIN routes r ON r.id = t.route_id
WHERE t.route_id = ?
    AND t.id IN (
        SELECT ct.trip_id FROM calendar_trips ct
        WHERE ct.calendar_id IN (SELECT id FROM active_calendars)
    )
ORDER BY t.departure_hour, t.departure_minute, t.id`

const countActiveTripsSQL = activeCalendarsCTE + `
SELECT COUNT(*)
FROM active_calendars ac
JOIN calendar_trips ct ON ct.calendar_id = ac.id
JOIN trips t ON t.id = ct.trip_id
JOIN routes r ON r.id = t.route_id
WHERE r.id = ?`

// StandardDepartures returns the direct sailings from one port to another
// that run on day, ordered by departure time.
func (c *Client) StandardDepartures(ctx context.Context, day calendar.ServiceDay, from, to string) (RowSet[Trip], error) {
	return collect(ctx, c, "standard_departures", standardDeparturesSQL, c.decodeTrip,
		activeCalendarArgs(day, from, to)...)
}

// TripsForRoute returns the trips of a route that run on day, ordered by
// departure time.
func (c *Client) TripsForRoute(ctx context.Context, routeID string, day calendar.ServiceDay) (RowSet[Trip], error) {
	return collect(ctx, c, "trips_for_route", tripsForRouteSQL, c.decodeTrip,
		activeCalendarArgs(day, routeID)...)
}

// CountActiveTrips counts the trips of a route whose calendar is active on day.
func (c *Client) CountActiveTrips(ctx context.Context, routeID string, day calendar.ServiceDay) (int, error) {
	db, err := c.handle(ctx)
	if err != nil {
		return 0, err
	}

	var count int
	err = db.QueryRowContext(ctx, countActiveTripsSQL, activeCalendarArgs(day, routeID)...).Scan(&count)
	if err != nil {
		return 0, &QueryError{Name: "count_active_trips", Err: err}
	}
	return count, nil
}

var errNoRunTime = errors.New("neither run time nor arrival time present")

func (c *Client) decodeTrip(row rowScanner, _ int) (Trip, error) {
	var (
		trip                    Trip
		arrivalHour, arrivalMin sql.NullInt64
		runTimeText, notes      sql.NullString
	)
	err := row.Scan(
		&trip.ID, &trip.RouteID, &trip.From, &trip.To,
		&trip.DepartureHour, &trip.DepartureMinute,
		&arrivalHour, &arrivalMin,
		&runTimeText, &notes,
	)
	if err != nil {
		return Trip{}, err
	}
	trip.Notes = notes.String

	if err := checkClock(trip.DepartureHour, trip.DepartureMinute); err != nil {
		return Trip{}, &MappingError{Table: "trips", Key: trip.ID, Column: "departure_hour",
			Value: fmt.Sprintf("%d:%d", trip.DepartureHour, trip.DepartureMinute), Err: err}
	}

	runTime, ok, err := ParseDurationText(runTimeText.String, c.config.DurationUnit)
	if err != nil {
		return Trip{}, &MappingError{Table: "trips", Key: trip.ID, Column: "run_time", Value: runTimeText.String, Err: err}
	}

	departed := trip.DepartureHour*60 + trip.DepartureMinute
	switch {
	case ok:
		trip.RunTime = runTime
		arrives := (departed + runTime/60) % minutesPerDay
		trip.ArrivalHour, trip.ArrivalMinute = arrives/60, arrives%60
	case arrivalHour.Valid && arrivalMin.Valid:
		trip.ArrivalHour, trip.ArrivalMinute = int(arrivalHour.Int64), int(arrivalMin.Int64)
		if err := checkClock(trip.ArrivalHour, trip.ArrivalMinute); err != nil {
			return Trip{}, &MappingError{Table: "trips", Key: trip.ID, Column: "arrival_hour",
				Value: fmt.Sprintf("%d:%d", trip.ArrivalHour, trip.ArrivalMinute), Err: err}
		}
		arrives := trip.ArrivalHour*60 + trip.ArrivalMinute
		trip.RunTime = ((arrives - departed + minutesPerDay) % minutesPerDay) * 60
	default:
		return Trip{}, &MappingError{Table: "trips", Key: trip.ID, Column: "run_time", Err: errNoRunTime}
	}

	return trip, nil
}

const minutesPerDay = 24 * 60

var errClockRange = errors.New("hour or minute out of range")

func checkClock(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return errClockRange
	}
	return nil
}
