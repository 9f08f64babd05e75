package timetable

import (
	"fmt"
	"sort"
	"time"

	"ferrytimetable.org/internal/calendar"
	"ferrytimetable.org/timetabledb"
)

// Departure is one sailing a passenger can take from one port to another.
type Departure struct {
	From            string `json:"from"`
	To              string `json:"to"`
	DepartureHour   int    `json:"departureHour"`
	DepartureMinute int    `json:"departureMinute"`
	RunTime         int    `json:"runTime"` // seconds
	// Order is the leg position for departures derived from a multi-leg
	// itinerary and nil for direct trips.
	Order *int `json:"order,omitempty"`
}

func departureFromTrip(trip timetabledb.Trip) Departure {
	return Departure{
		From:            trip.From,
		To:              trip.To,
		DepartureHour:   trip.DepartureHour,
		DepartureMinute: trip.DepartureMinute,
		RunTime:         trip.RunTime,
	}
}

// DepartureTime places the departure on date.
func (d Departure) DepartureTime(date time.Time) time.Time {
	return calendar.ForDate(date).At(d.DepartureHour, d.DepartureMinute)
}

// ArrivalInstant is the departure instant on date plus the run time. A
// sailing that crosses midnight lands on the following day.
func (d Departure) ArrivalInstant(date time.Time) time.Time {
	return d.DepartureTime(date).Add(time.Duration(d.RunTime) * time.Second)
}

// Clock formats the departure time as HH:MM.
func (d Departure) Clock() string {
	return FormatClock(d.DepartureHour, d.DepartureMinute)
}

// ArrivalTime formats the arrival of departure on date as HH:MM.
func ArrivalTime(departure Departure, date time.Time) string {
	return departure.ArrivalInstant(date).Format("15:04")
}

// FormatClock renders a time of day as zero padded HH:MM.
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// SortDepartures orders departures by departure hour then minute. Departures
// at the same time keep their relative order.
func SortDepartures(departures []Departure) {
	sort.SliceStable(departures, func(i, j int) bool {
		a, b := departures[i], departures[j]
		if a.DepartureHour != b.DepartureHour {
			return a.DepartureHour < b.DepartureHour
		}
		return a.DepartureMinute < b.DepartureMinute
	})
}
