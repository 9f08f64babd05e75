// Package fixtures builds small timetable datasets for tests.
package fixtures

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ferrytimetable.org/timetabledb"
)

// Dates with a known status in the Ferry dataset.
var (
	ActiveMonday   = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	ExcludedMonday = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	NextMonday     = time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	ActiveSaturday = time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	OutOfSeason    = time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(i int) *int {
	return &i
}

// Ferry returns a four port network A, B, C, D.
//
// On weekdays C→D has one direct sailing at 09:00 and two chained
// itineraries A→B→C→D that reach C→D at 08:30 and 09:15. Monday 2024-06-10
// is excluded from the weekday calendar. Section "broken" touches C and D
// but carries an unreadable run time.
func Ferry() timetabledb.Dataset {
	return timetabledb.Dataset{
		Ports: []timetabledb.Port{
			{Code: "A", Name: "Ardmore"},
			{Code: "B", Name: "Balfour"},
			{Code: "C", Name: "Craignure"},
			{Code: "D", Name: "Dunoon"},
		},
		Routes: []timetabledb.Route{
			{ID: "A-B", Source: "A", Destination: "B"},
			{ID: "C-D", Source: "C", Destination: "D"},
			{ID: "D-C", Source: "D", Destination: "C"},
		},
		Calendars: []timetabledb.Calendar{
			{
				ID:     "weekday",
				Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true,
				StartDate: date(2024, 6, 1),
				EndDate:   date(2024, 8, 31),
			},
			{
				ID:       "weekend",
				Saturday: true, Sunday: true,
				StartDate: date(2024, 6, 1),
				EndDate:   date(2024, 8, 31),
			},
		},
		Exclusions: []timetabledb.Exclusion{
			{CalendarID: "weekday", Date: ExcludedMonday},
		},
		Trips: []timetabledb.TripRecord{
			{ID: "cd-0900", RouteID: "C-D", DepartureHour: 9, DepartureMinute: 0, RunTime: "1800", CalendarIDs: []string{"weekday"}},
			{ID: "cd-1400", RouteID: "C-D", DepartureHour: 14, DepartureMinute: 0, RunTime: "2100 secs", Notes: "Vehicles only", CalendarIDs: []string{"weekend"}},
			{ID: "ab-0700", RouteID: "A-B", DepartureHour: 7, DepartureMinute: 0, ArrivalHour: intPtr(7), ArrivalMinute: intPtr(40), CalendarIDs: []string{"weekday", "weekend"}},
			{ID: "dc-1000", RouteID: "D-C", DepartureHour: 10, DepartureMinute: 0, RunTime: "1800", CalendarIDs: []string{"weekend"}},
		},
		Sections: []timetabledb.SectionRecord{
			{
				ID:          "early",
				CalendarIDs: []string{"weekday"},
				Legs: []timetabledb.LegRecord{
					{FromCode: "A", FromName: "Ardmore", ToCode: "B", ToName: "Balfour", DepartureHour: 7, DepartureMinute: 0, RunTime: "3000", WaitTime: "600", Order: 1},
					{FromCode: "B", FromName: "Balfour", ToCode: "C", ToName: "Craignure", DepartureHour: 8, DepartureMinute: 0, RunTime: "1800", WaitTime: "0", Order: 2},
					{FromCode: "C", FromName: "Craignure", ToCode: "D", ToName: "Dunoon", DepartureHour: 8, DepartureMinute: 30, RunTime: "1500", Order: 3},
				},
			},
			{
				// Inserted out of leg order on purpose.
				ID:          "late",
				CalendarIDs: []string{"weekday"},
				Legs: []timetabledb.LegRecord{
					{FromCode: "C", FromName: "Craignure", ToCode: "D", ToName: "Dunoon", DepartureHour: 9, DepartureMinute: 15, RunTime: "1200", Order: 3},
					{FromCode: "A", FromName: "Ardmore", ToCode: "B", ToName: "Balfour", DepartureHour: 8, DepartureMinute: 0, RunTime: "1800", WaitTime: "300", Order: 1, Note: "Calls at Balfour on request"},
					{FromCode: "B", FromName: "Balfour", ToCode: "C", ToName: "Craignure", DepartureHour: 8, DepartureMinute: 35, RunTime: "2400", WaitTime: "0", Order: 2},
				},
			},
			{
				ID:          "weekend-loop",
				CalendarIDs: []string{"weekend"},
				Legs: []timetabledb.LegRecord{
					{FromCode: "A", FromName: "Ardmore", ToCode: "B", ToName: "Balfour", DepartureHour: 11, DepartureMinute: 0, RunTime: "1800", Order: 1},
					{FromCode: "B", FromName: "Balfour", ToCode: "C", ToName: "Craignure", DepartureHour: 11, DepartureMinute: 30, RunTime: "1800", Order: 2},
				},
			},
			{
				ID:          "broken",
				CalendarIDs: []string{"weekday"},
				Legs: []timetabledb.LegRecord{
					{FromCode: "B", FromName: "Balfour", ToCode: "C", ToName: "Craignure", DepartureHour: 6, DepartureMinute: 0, RunTime: "tbc", Order: 1},
					{FromCode: "C", FromName: "Craignure", ToCode: "D", ToName: "Dunoon", DepartureHour: 6, DepartureMinute: 45, RunTime: "1800", Order: 2},
				},
			},
		},
	}
}

// BuildDataset writes dataset to a file in a temporary directory and
// returns its path.
func BuildDataset(tb testing.TB, dataset timetabledb.Dataset) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "timetable.db")
	builder, err := timetabledb.CreateDataset(context.Background(), path, nil)
	require.NoError(tb, err)
	defer func() { _ = builder.Close() }()

	require.NoError(tb, builder.Build(context.Background(), dataset))
	return path
}

// FerryClient builds the Ferry dataset and opens a client on it.
func FerryClient(tb testing.TB) *timetabledb.Client {
	tb.Helper()

	client := timetabledb.NewClient(timetabledb.Config{DBPath: BuildDataset(tb, Ferry())})
	tb.Cleanup(func() { _ = client.Close() })
	return client
}
