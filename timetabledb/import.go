package timetabledb

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/jamespfennell/gtfs"

	"ferrytimetable.org/internal/logging"
)

// ImportFromFile builds the dataset from a static GTFS zip file.
func (b *Builder) ImportFromFile(ctx context.Context, path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return b.ImportGTFS(ctx, data)
}

// ImportGTFS parses a static GTFS zip and writes it as a timetable dataset.
// Trips that call at two stops become direct trips; longer trips become
// route sections with one leg per consecutive stop pair.
func (b *Builder) ImportGTFS(ctx context.Context, data []byte) (map[string]int, error) {
	startTime := time.Now()

	staticData, err := gtfs.ParseStatic(data, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}
	if len(staticData.Warnings) > 0 {
		b.logger.Warn("GTFS feed parsed with warnings", slog.Int("warnings", len(staticData.Warnings)))
	}

	dataset := DatasetFromGTFS(staticData)
	if err := b.Build(ctx, dataset); err != nil {
		return nil, err
	}

	counts := map[string]int{
		"ports":          len(dataset.Ports),
		"routes":         len(dataset.Routes),
		"calendars":      len(dataset.Calendars),
		"exclusions":     len(dataset.Exclusions),
		"trips":          len(dataset.Trips),
		"route_sections": len(dataset.Sections),
	}
	logging.LogOperation(b.logger, "gtfs_imported",
		slog.Duration("duration", time.Since(startTime)),
		slog.Any("counts", counts))

	return counts, nil
}

// DatasetFromGTFS converts parsed static GTFS data into a timetable dataset.
// Service additions (calendar_dates exception type 1) have no counterpart in
// the calendar model and are skipped.
func DatasetFromGTFS(staticData *gtfs.Static) Dataset {
	var dataset Dataset

	portNames := make(map[string]string, len(staticData.Stops))
	for _, s := range staticData.Stops {
		portNames[s.Id] = s.Name
		dataset.Ports = append(dataset.Ports, Port{Code: s.Id, Name: s.Name})
	}

	for _, s := range staticData.Services {
		dataset.Calendars = append(dataset.Calendars, Calendar{
			ID:        s.Id,
			Monday:    s.Monday,
			Tuesday:   s.Tuesday,
			Wednesday: s.Wednesday,
			Thursday:  s.Thursday,
			Friday:    s.Friday,
			Saturday:  s.Saturday,
			Sunday:    s.Sunday,
			StartDate: s.StartDate,
			EndDate:   s.EndDate,
		})
		for _, removed := range s.RemovedDates {
			dataset.Exclusions = append(dataset.Exclusions, Exclusion{CalendarID: s.Id, Date: removed})
		}
	}

	routes := make(map[string]Route)
	for _, t := range staticData.Trips {
		if t.Service == nil || len(t.StopTimes) < 2 {
			continue
		}

		stopTimes := append([]gtfs.ScheduledStopTime(nil), t.StopTimes...)
		sort.SliceStable(stopTimes, func(i, j int) bool {
			return stopTimes[i].StopSequence < stopTimes[j].StopSequence
		})

		if len(stopTimes) == 2 {
			first, last := stopTimes[0], stopTimes[1]
			route := Route{
				ID:          first.Stop.Id + "-" + last.Stop.Id,
				Source:      first.Stop.Id,
				Destination: last.Stop.Id,
			}
			routes[route.ID] = route

			depHour, depMinute := clockOf(first.DepartureTime)
			arrHour, arrMinute := clockOf(last.ArrivalTime)
			dataset.Trips = append(dataset.Trips, TripRecord{
				ID:              t.ID,
				RouteID:         route.ID,
				DepartureHour:   depHour,
				DepartureMinute: depMinute,
				ArrivalHour:     &arrHour,
				ArrivalMinute:   &arrMinute,
				RunTime:         secondsText(last.ArrivalTime - first.DepartureTime),
				Notes:           t.Headsign,
				CalendarIDs:     []string{t.Service.Id},
			})
			continue
		}

		section := SectionRecord{ID: t.ID, CalendarIDs: []string{t.Service.Id}}
		for i := 0; i+1 < len(stopTimes); i++ {
			this, next := stopTimes[i], stopTimes[i+1]
			hour, minute := clockOf(this.DepartureTime)
			wait := time.Duration(0)
			if i > 0 {
				wait = this.DepartureTime - this.ArrivalTime
			}
			section.Legs = append(section.Legs, LegRecord{
				FromCode:        this.Stop.Id,
				FromName:        portNames[this.Stop.Id],
				ToCode:          next.Stop.Id,
				ToName:          portNames[next.Stop.Id],
				DepartureHour:   hour,
				DepartureMinute: minute,
				RunTime:         secondsText(next.ArrivalTime - this.DepartureTime),
				WaitTime:        secondsText(wait),
				Order:           i + 1,
				Note:            this.Headsign,
			})
		}
		dataset.Sections = append(dataset.Sections, section)
	}

	routeIDs := make([]string, 0, len(routes))
	for id := range routes {
		routeIDs = append(routeIDs, id)
	}
	sort.Strings(routeIDs)
	for _, id := range routeIDs {
		dataset.Routes = append(dataset.Routes, routes[id])
	}

	return dataset
}

// clockOf maps a GTFS time since service day start, which may exceed 24h,
// onto a wall clock hour and minute.
func clockOf(d time.Duration) (int, int) {
	minutes := int(d/time.Minute) % minutesPerDay
	return minutes / 60, minutes % 60
}

func secondsText(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%d", int(d/time.Second))
}
