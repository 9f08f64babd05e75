package timetabledb

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable is returned when the dataset file is missing or cannot be opened.
var ErrStorageUnavailable = errors.New("timetable storage unavailable")

// QueryError reports a statement or driver failure for a named query.
type QueryError struct {
	Name string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s failed: %v", e.Name, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// MappingError reports a row that could not be decoded into its record type.
// Key identifies the row (trip id, route section id) so callers can drop
// everything that depends on it.
type MappingError struct {
	Table  string
	Key    string
	Column string
	Value  string
	Err    error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s %s: column %s value %q: %v", e.Table, e.Key, e.Column, e.Value, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// IsStorageUnavailable reports whether err means the dataset could not be opened.
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
