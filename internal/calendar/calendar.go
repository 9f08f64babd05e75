package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the layout of calendar and exclusion dates in the dataset.
const DateLayout = "2006-01-02"

// ServiceDay holds the bind parameters that select the calendars active on one date.
type ServiceDay struct {
	Weekday string    // English weekday name, e.g. "Monday"
	Date    time.Time // midnight UTC
}

// ForDate resolves the service day for date. The calendar day is taken in
// date's own location before being pinned to midnight UTC, so a late evening
// sailing queried in local time never lands on the following day.
func ForDate(date time.Time) ServiceDay {
	midnight := MidnightUTC(date)
	return ServiceDay{
		Weekday: WeekdayLabel(midnight),
		Date:    midnight,
	}
}

// WeekdayLabel returns the English weekday name for date.
func WeekdayLabel(date time.Time) string {
	return date.Weekday().String()
}

// MidnightUTC strips the time of day from date.
func MidnightUTC(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats the service day the way the dataset stores dates.
func (d ServiceDay) DateKey() string {
	return d.Date.Format(DateLayout)
}

// At returns the instant hour:minute on the service day.
func (d ServiceDay) At(hour, minute int) time.Time {
	return d.Date.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func (d ServiceDay) String() string {
	return fmt.Sprintf("%s %s", d.Weekday, d.DateKey())
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}
