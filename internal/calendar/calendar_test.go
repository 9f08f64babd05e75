package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayLabel(t *testing.T) {
	testCases := []struct {
		date     time.Time
		expected string
	}{
		{time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC), "Monday"},
		{time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), "Wednesday"},
		{time.Date(2024, 6, 9, 23, 59, 0, 0, time.UTC), "Sunday"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, WeekdayLabel(tc.date))
		})
	}
}

func TestMidnightUTC(t *testing.T) {
	t.Run("strips time of day", func(t *testing.T) {
		got := MidnightUTC(time.Date(2024, 6, 3, 17, 45, 12, 99, time.UTC))
		assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("keeps the local calendar day", func(t *testing.T) {
		zone := time.FixedZone("UTC+10", 10*60*60)
		got := MidnightUTC(time.Date(2024, 6, 4, 7, 0, 0, 0, zone))
		assert.Equal(t, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), got)
	})
}

func TestForDate(t *testing.T) {
	day := ForDate(time.Date(2024, 6, 8, 9, 30, 0, 0, time.UTC))

	assert.Equal(t, "Saturday", day.Weekday)
	assert.Equal(t, "2024-06-08", day.DateKey())
	assert.Equal(t, time.Date(2024, 6, 8, 14, 5, 0, 0, time.UTC), day.At(14, 5))
	assert.Equal(t, "Saturday 2024-06-08", day.String())
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}
