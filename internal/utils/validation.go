package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"ferrytimetable.org/internal/calendar"
)

// Compiled regular expressions for validation
var (
	// Allow alphanumeric, underscore, hyphen, dot - common in timetable IDs
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	// Port codes are short alphanumeric terminal codes
	validPortCodePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// Detect HTML/script tags
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidatePortCode validates a boarding or alighting port code
func ValidatePortCode(code string) error {
	if code == "" {
		return errors.New("port code cannot be empty")
	}

	if len(code) > 20 {
		return errors.New("port code too long (max 20 characters)")
	}

	if !validPortCodePattern.MatchString(code) {
		return errors.New("port code contains invalid characters")
	}

	return nil
}

// ValidateDate validates date strings in YYYY-MM-DD format
func ValidateDate(date string) error {
	// Empty dates are allowed (will default to current date)
	if date == "" {
		return nil
	}

	if _, err := time.Parse(calendar.DateLayout, date); err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}

	return nil
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}

// ValidateDepartureParams validates a departures request
func ValidateDepartureParams(from, to, date string) map[string][]string {
	fieldErrors := make(map[string][]string)

	if err := ValidatePortCode(from); err != nil {
		fieldErrors["from"] = append(fieldErrors["from"], err.Error())
	}

	if err := ValidatePortCode(to); err != nil {
		fieldErrors["to"] = append(fieldErrors["to"], err.Error())
	}

	if from != "" && from == to {
		fieldErrors["to"] = append(fieldErrors["to"], "to must differ from from")
	}

	if err := ValidateDate(date); err != nil {
		fieldErrors["date"] = append(fieldErrors["date"], err.Error())
	}

	return fieldErrors
}

// ParseServiceDate parses an optional YYYY-MM-DD date parameter. An empty
// value means the current date in loc.
func ParseServiceDate(value string, now time.Time, loc *time.Location) (time.Time, error) {
	if value == "" {
		return calendar.MidnightUTC(now.In(loc)), nil
	}
	if err := ValidateDate(value); err != nil {
		return time.Time{}, err
	}
	return calendar.ParseDate(value)
}
