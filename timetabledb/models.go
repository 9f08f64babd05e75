package timetabledb

import "time"

// Calendar is a weekly recurrence window for a set of trips
type Calendar struct {
	ID        string    // id
	Monday    bool      // monday
	Tuesday   bool      // tuesday
	Wednesday bool      // wednesday
	Thursday  bool      // thursday
	Friday    bool      // friday
	Saturday  bool      // saturday
	Sunday    bool      // sunday
	StartDate time.Time // start_date (YYYY-MM-DD)
	EndDate   time.Time // end_date (YYYY-MM-DD)
}

// Exclusion is a day on which an otherwise matching calendar does not run
type Exclusion struct {
	CalendarID string    // calendar_id
	Date       time.Time // date (YYYY-MM-DD)
}

// Port is a ferry terminal
type Port struct {
	Code string // code
	Name string // name
}

// Route is a ferry connection between two fixed ports
type Route struct {
	ID          string // id
	Source      string // source port code
	Destination string // destination port code
}

// Trip is one scheduled direct sailing. RunTime is always resolved to
// seconds, either from the run_time column or from the arrival time.
type Trip struct {
	ID              string // id
	RouteID         string // route_id
	From            string // routes.source
	To              string // routes.destination
	DepartureHour   int    // departure_hour
	DepartureMinute int    // departure_minute
	ArrivalHour     int    // arrival_hour
	ArrivalMinute   int    // arrival_minute
	RunTime         int    // run_time, seconds
	Notes           string // notes
}

// Leg is one row of a multi-leg route section
type Leg struct {
	RouteSectionID  string // route_section_id
	FromCode        string // from_code
	FromName        string // from_name
	ToCode          string // to_code
	ToName          string // to_name
	DepartureHour   int    // departure_hour
	DepartureMinute int    // departure_minute
	RunTime         int    // run_time, seconds
	WaitTime        int    // wait_time, seconds, zero when absent
	Order           int    // leg_order
	Note            string // note
	Row             int    // position in the result set
}

// RowSet carries the decoded records of a query together with the rows
// that failed to decode.
type RowSet[T any] struct {
	Rows     []T
	Problems []*MappingError
}

// BrokenKeys returns the keys (trip id, route section id) of rows that
// failed to decode.
func (s RowSet[T]) BrokenKeys() map[string]bool {
	broken := make(map[string]bool, len(s.Problems))
	for _, p := range s.Problems {
		broken[p.Key] = true
	}
	return broken
}
