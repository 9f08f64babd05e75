package timetabledb

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

var errNoDigits = errors.New("no digits in duration text")

// ParseDurationText extracts the digits of a free text duration such as
// "20 mins" and scales them to seconds using unit. Text that is empty after
// trimming yields ok=false so callers can decide whether the value is
// optional.
func ParseDurationText(text string, unit DurationUnit) (seconds int, ok bool, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false, nil
	}

	var digits strings.Builder
	for _, r := range text {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false, errNoDigits
	}

	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false, err
	}
	if unit == Minutes {
		n *= 60
	}
	return n, true, nil
}
