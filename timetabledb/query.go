package timetabledb

import (
	"context"
	"errors"

	"ferrytimetable.org/internal/calendar"
	"ferrytimetable.org/internal/logging"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// decodeFunc maps one result row onto a record. It returns a *MappingError
// for rows whose values cannot be interpreted; any other error aborts the
// query.
type decodeFunc[T any] func(row rowScanner, index int) (T, error)

func collect[T any](ctx context.Context, c *Client, name, query string, decode decodeFunc[T], args ...any) (RowSet[T], error) {
	var set RowSet[T]

	db, err := c.handle(ctx)
	if err != nil {
		return set, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return set, &QueryError{Name: name, Err: err}
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, name)

	for index := 0; rows.Next(); index++ {
		record, err := decode(rows, index)
		if err != nil {
			var mappingErr *MappingError
			if errors.As(err, &mappingErr) {
				set.Problems = append(set.Problems, mappingErr)
				continue
			}
			return RowSet[T]{}, &QueryError{Name: name, Err: err}
		}
		set.Rows = append(set.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return RowSet[T]{}, &QueryError{Name: name, Err: err}
	}

	return set, nil
}

// activeCalendarsCTE selects the calendars running on one service day. The
// weekday is a bound parameter matched against each flag column.
const activeCalendarsCTE = `
WITH active_calendars AS (
    SELECT c.id
    FROM calendar c
    WHERE (CASE ?
            WHEN 'Monday' THEN c.monday
            WHEN 'Tuesday' THEN c.tuesday
            WHEN 'Wednesday' THEN c.wednesday
            WHEN 'Thursday' THEN c.thursday
            WHEN 'Friday' THEN c.friday
            WHEN 'Saturday' THEN c.saturday
            WHEN 'Sunday' THEN c.sunday
            ELSE 0
        END) = 1
        AND c.start_date <= ?
        AND c.end_date >= ?
        AND c.id NOT IN (
            SELECT e.calendar_id FROM calendar_exclusions e WHERE e.date = ?
        )
)`

func activeCalendarArgs(day calendar.ServiceDay, extra ...any) []any {
	key := day.DateKey()
	args := []any{day.Weekday, key, key, key}
	return append(args, extra...)
}
