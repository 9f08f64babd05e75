package models

import (
	"time"

	"ferrytimetable.org/internal/timetable"
	"ferrytimetable.org/timetabledb"
)

// DepartureEntry is a departure rendered for one service day.
type DepartureEntry struct {
	From            string `json:"from"`
	To              string `json:"to"`
	ServiceDate     string `json:"serviceDate"`
	DepartureTime   string `json:"departureTime"`
	ArrivalTime     string `json:"arrivalTime"`
	DepartureHour   int    `json:"departureHour"`
	DepartureMinute int    `json:"departureMinute"`
	RunTime         int    `json:"runTime"`
	Order           *int   `json:"order,omitempty"`
	MultiLeg        bool   `json:"multiLeg"`
}

func NewDepartureEntry(d timetable.Departure, date time.Time) DepartureEntry {
	return DepartureEntry{
		From:            d.From,
		To:              d.To,
		ServiceDate:     date.Format("2006-01-02"),
		DepartureTime:   d.Clock(),
		ArrivalTime:     timetable.ArrivalTime(d, date),
		DepartureHour:   d.DepartureHour,
		DepartureMinute: d.DepartureMinute,
		RunTime:         d.RunTime,
		Order:           d.Order,
		MultiLeg:        d.Order != nil,
	}
}

// TripEntry is a scheduled trip of a route.
type TripEntry struct {
	ID            string `json:"id"`
	RouteID       string `json:"routeId"`
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	RunTime       int    `json:"runTime"`
	Notes         string `json:"notes,omitempty"`
}

func NewTripEntry(trip timetabledb.Trip) TripEntry {
	return TripEntry{
		ID:            trip.ID,
		RouteID:       trip.RouteID,
		From:          trip.From,
		To:            trip.To,
		DepartureTime: timetable.FormatClock(trip.DepartureHour, trip.DepartureMinute),
		ArrivalTime:   timetable.FormatClock(trip.ArrivalHour, trip.ArrivalMinute),
		RunTime:       trip.RunTime,
		Notes:         trip.Notes,
	}
}

// RouteAvailabilityEntry says whether a route runs on a date.
type RouteAvailabilityEntry struct {
	RouteID          string `json:"routeId"`
	ServiceDate      string `json:"serviceDate"`
	Available        bool   `json:"available"`
	StorageAvailable bool   `json:"storageAvailable"`
}
