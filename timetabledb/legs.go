package timetabledb

import (
	"context"
	"database/sql"
	"fmt"

	"ferrytimetable.org/internal/calendar"
)

// multiLegDeparturesSQL returns every leg of each active route section that
// has a leg leaving from the boarding port and a leg arriving at the
// alighting port. Rows come back grouped by section in leg order; the
// original insertion order breaks ties on equal leg_order.
const multiLegDeparturesSQL = activeCalendarsCTE + `
SELECT
    l.route_section_id, l.from_code, l.from_name, l.to_code, l.to_name,
    l.departure_hour, l.departure_minute,
    l.run_time, l.wait_time, l.leg_order, l.note
FROM route_section_legs l
WHERE l.route_section_id IN (
        SELECT crs.route_section_id FROM calendar_route_sections crs
        WHERE crs.calendar_id IN (SELECT id FROM active_calendars)
    )
    AND l.route_section_id IN (
        SELECT route_section_id FROM route_section_legs WHERE from_code = ?
    )
    AND l.route_section_id IN (
        SELECT route_section_id FROM route_section_legs WHERE to_code = ?
    )
ORDER BY l.route_section_id, l.leg_order, l.rowid`

// MultiLegDepartures returns the legs of every multi-leg itinerary running on
// day that touches both ports. Legs that fail to decode are reported in
// Problems keyed by route section id.
func (c *Client) MultiLegDepartures(ctx context.Context, day calendar.ServiceDay, from, to string) (RowSet[Leg], error) {
	return collect(ctx, c, "multi_leg_departures", multiLegDeparturesSQL, c.decodeLeg,
		activeCalendarArgs(day, from, to)...)
}

func (c *Client) decodeLeg(row rowScanner, index int) (Leg, error) {
	var (
		leg                   Leg
		runTimeText, waitText sql.NullString
		note                  sql.NullString
	)
	err := row.Scan(
		&leg.RouteSectionID, &leg.FromCode, &leg.FromName, &leg.ToCode, &leg.ToName,
		&leg.DepartureHour, &leg.DepartureMinute,
		&runTimeText, &waitText, &leg.Order, &note,
	)
	if err != nil {
		return Leg{}, err
	}
	leg.Note = note.String
	leg.Row = index

	if err := checkClock(leg.DepartureHour, leg.DepartureMinute); err != nil {
		return Leg{}, &MappingError{Table: "route_section_legs", Key: leg.RouteSectionID, Column: "departure_hour",
			Value: fmt.Sprintf("%d:%d", leg.DepartureHour, leg.DepartureMinute), Err: err}
	}

	runTime, ok, err := ParseDurationText(runTimeText.String, c.config.DurationUnit)
	if err == nil && !ok {
		err = errNoRunTime
	}
	if err != nil {
		return Leg{}, &MappingError{Table: "route_section_legs", Key: leg.RouteSectionID, Column: "run_time",
			Value: runTimeText.String, Err: err}
	}
	leg.RunTime = runTime

	wait, _, err := ParseDurationText(waitText.String, c.config.DurationUnit)
	if err != nil {
		return Leg{}, &MappingError{Table: "route_section_legs", Key: leg.RouteSectionID, Column: "wait_time",
			Value: waitText.String, Err: err}
	}
	leg.WaitTime = wait

	return leg, nil
}
