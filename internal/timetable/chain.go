package timetable

import (
	"sort"
	"time"

	"ferrytimetable.org/internal/calendar"
	"ferrytimetable.org/timetabledb"
)

// ChainLegs derives the departures from one port to another out of the legs
// of multi-leg itineraries.
//
// Legs are grouped by route section and ordered by leg order, with the
// position in legs breaking ties. A section contributes when it has a leg
// running exactly from→to. The departure time is the section's first leg
// departure on date, plus the run and wait time of every leg before the
// first one boarding at from, plus the wait time of the leg itself.
//
// Times that run past midnight wrap onto the clock; the rolled over date is
// not carried anywhere.
func ChainLegs(date time.Time, legs []timetabledb.Leg, from, to string) []Departure {
	day := calendar.ForDate(date)

	var sectionIDs []string
	sections := make(map[string][]timetabledb.Leg)
	for i, leg := range legs {
		if _, seen := sections[leg.RouteSectionID]; !seen {
			sectionIDs = append(sectionIDs, leg.RouteSectionID)
		}
		leg.Row = i
		sections[leg.RouteSectionID] = append(sections[leg.RouteSectionID], leg)
	}

	var departures []Departure
	for _, id := range sectionIDs {
		if departure, ok := chainSection(day, sections[id], from, to); ok {
			departures = append(departures, departure)
		}
	}
	return departures
}

func chainSection(day calendar.ServiceDay, legs []timetabledb.Leg, from, to string) (Departure, bool) {
	ordered := append([]timetabledb.Leg(nil), legs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Order != ordered[j].Order {
			return ordered[i].Order < ordered[j].Order
		}
		return ordered[i].Row < ordered[j].Row
	})

	target := -1
	boarding := -1
	for i, leg := range ordered {
		if boarding < 0 && leg.FromCode == from {
			boarding = i
		}
		if target < 0 && leg.FromCode == from && leg.ToCode == to {
			target = i
		}
	}
	if target < 0 {
		return Departure{}, false
	}

	elapsed := 0
	for _, leg := range ordered[:boarding] {
		elapsed += leg.RunTime + leg.WaitTime
	}
	elapsed += ordered[target].WaitTime

	first := ordered[0]
	actual := day.At(first.DepartureHour, first.DepartureMinute).Add(time.Duration(elapsed) * time.Second)

	order := ordered[target].Order
	return Departure{
		From:            ordered[target].FromCode,
		To:              ordered[target].ToCode,
		DepartureHour:   actual.Hour(),
		DepartureMinute: actual.Minute(),
		RunTime:         ordered[target].RunTime,
		Order:           &order,
	}, true
}
