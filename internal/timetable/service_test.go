package timetable

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ferrytimetable.org/internal/calendar"
	"ferrytimetable.org/internal/fixtures"
	"ferrytimetable.org/internal/logging"
	"ferrytimetable.org/timetabledb"
)

func newFerryService(t *testing.T) (*Service, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logging.NewStructuredLogger(&buf, slog.LevelDebug)
	return NewService(fixtures.FerryClient(t), logger), &buf
}

func clocks(departures []Departure) []string {
	out := []string{}
	for _, d := range departures {
		out = append(out, d.Clock())
	}
	return out
}

func TestFetchDepartures_MergesDirectAndChained(t *testing.T) {
	service, logs := newFerryService(t)

	departures, err := service.FetchDepartures(context.Background(), fixtures.ActiveMonday, "C", "D")
	require.NoError(t, err)

	assert.Equal(t, []string{"08:30", "09:00", "09:15"}, clocks(departures))
	assert.Nil(t, departures[1].Order, "direct trips carry no leg order")
	assert.Equal(t, 1800, departures[1].RunTime)
	assert.Equal(t, 1500, departures[0].RunTime)
	assert.Equal(t, 1200, departures[2].RunTime)
	for _, d := range departures {
		assert.Equal(t, "C", d.From)
		assert.Equal(t, "D", d.To)
	}

	assert.Contains(t, logs.String(), `"key":"broken"`, "the unreadable section is reported")
}

func TestFetchDepartures_NoServiceIsEmpty(t *testing.T) {
	service, _ := newFerryService(t)
	ctx := context.Background()

	testCases := []struct {
		name string
		date time.Time
	}{
		{"excluded date", fixtures.ExcludedMonday},
		{"out of season", fixtures.OutOfSeason},
		{"before season", time.Date(2024, 5, 27, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			departures, err := service.FetchDepartures(ctx, tc.date, "C", "D")
			require.NoError(t, err)
			assert.Empty(t, departures)
		})
	}
}

func TestFetchDepartures_DirectTripsMirrorTripRows(t *testing.T) {
	service, _ := newFerryService(t)
	ctx := context.Background()

	departures, err := service.FetchDepartures(ctx, fixtures.ActiveSaturday, "C", "D")
	require.NoError(t, err)
	require.Len(t, departures, 1)

	trips, err := service.FetchTrips(ctx, "C-D", fixtures.ActiveSaturday)
	require.NoError(t, err)
	require.Len(t, trips, 1)

	assert.Equal(t, Departure{
		From:            trips[0].From,
		To:              trips[0].To,
		DepartureHour:   trips[0].DepartureHour,
		DepartureMinute: trips[0].DepartureMinute,
		RunTime:         trips[0].RunTime,
	}, departures[0])
}

func TestFetchDepartures_Idempotent(t *testing.T) {
	service, _ := newFerryService(t)
	ctx := context.Background()

	first, err := service.FetchDepartures(ctx, fixtures.ActiveMonday, "A", "B")
	require.NoError(t, err)
	second, err := service.FetchDepartures(ctx, fixtures.ActiveMonday, "A", "B")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"07:00", "07:10", "08:05"}, clocks(first))
}

func TestFetchDepartures_TimeOfDayIgnored(t *testing.T) {
	service, _ := newFerryService(t)
	ctx := context.Background()

	midnight, err := service.FetchDepartures(ctx, fixtures.ActiveMonday, "C", "D")
	require.NoError(t, err)
	evening, err := service.FetchDepartures(ctx, fixtures.ActiveMonday.Add(21*time.Hour), "C", "D")
	require.NoError(t, err)

	assert.Equal(t, midnight, evening)
}

func TestFetchDepartures_ConcurrentCalls(t *testing.T) {
	service, _ := newFerryService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			departures, err := service.FetchDepartures(ctx, fixtures.ActiveMonday, "C", "D")
			assert.NoError(t, err)
			assert.Equal(t, []string{"08:30", "09:00", "09:15"}, clocks(departures))
		}()
	}
	wg.Wait()
}

func TestAreTripsAvailable(t *testing.T) {
	service, _ := newFerryService(t)
	ctx := context.Background()

	available, err := service.AreTripsAvailable(ctx, "C-D", fixtures.ActiveMonday)
	require.NoError(t, err)
	assert.True(t, available)

	available, err = service.AreTripsAvailable(ctx, "C-D", fixtures.ExcludedMonday)
	require.NoError(t, err)
	assert.False(t, available, "the excluded Monday has no trips")

	available, err = service.AreTripsAvailable(ctx, "C-D", fixtures.NextMonday)
	require.NoError(t, err)
	assert.True(t, available, "the following Monday runs again")

	assert.True(t, service.TripsAvailable(ctx, "C-D", fixtures.ActiveMonday))
}

func TestMissingDataset(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)
	client := timetabledb.NewClient(timetabledb.Config{DBPath: filepath.Join(t.TempDir(), "missing.db")})
	service := NewService(client, logger)
	ctx := context.Background()

	_, err := service.AreTripsAvailable(ctx, "C-D", fixtures.ActiveMonday)
	assert.ErrorIs(t, err, timetabledb.ErrStorageUnavailable)
	assert.False(t, service.TripsAvailable(ctx, "C-D", fixtures.ActiveMonday))

	_, err = service.FetchDepartures(ctx, fixtures.ActiveMonday, "C", "D")
	assert.ErrorIs(t, err, timetabledb.ErrStorageUnavailable)

	departures := service.DeparturesOrEmpty(ctx, fixtures.ActiveMonday, "C", "D")
	assert.NotNil(t, departures)
	assert.Empty(t, departures)

	_, err = service.FetchTrips(ctx, "C-D", fixtures.ActiveMonday)
	assert.ErrorIs(t, err, timetabledb.ErrStorageUnavailable)

	output := buf.String()
	assert.Contains(t, output, `"msg":"failed to fetch departures"`)
	assert.Contains(t, output, `"msg":"failed to check trip availability"`)
	assert.Contains(t, output, `"storage_unavailable":true`)
}

func TestFetchTrips(t *testing.T) {
	service, _ := newFerryService(t)
	ctx := context.Background()

	trips, err := service.FetchTrips(ctx, "C-D", fixtures.ActiveMonday)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "cd-0900", trips[0].ID)

	trips, err = service.FetchTrips(ctx, "C-D", fixtures.ExcludedMonday)
	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Empty(t, trips)
}

// failingStore fails the multi-leg query after the direct one succeeds.
type failingStore struct {
	Store
	err error
}

func (f failingStore) MultiLegDepartures(context.Context, calendar.ServiceDay, string, string) (timetabledb.RowSet[timetabledb.Leg], error) {
	return timetabledb.RowSet[timetabledb.Leg]{}, f.err
}

func TestFetchDepartures_QueryFailureIsNotPartial(t *testing.T) {
	queryErr := &timetabledb.QueryError{Name: "multi_leg_departures", Err: errors.New("no such table")}
	service := NewService(failingStore{Store: fixtures.FerryClient(t), err: queryErr}, nil)

	departures, err := service.FetchDepartures(context.Background(), fixtures.ActiveMonday, "C", "D")
	assert.Nil(t, departures)

	var target *timetabledb.QueryError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "multi_leg_departures", target.Name)
	assert.False(t, timetabledb.IsStorageUnavailable(err))
}
