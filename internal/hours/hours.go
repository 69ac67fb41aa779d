// Package hours resolves open/closed status from the free-text operating
// hours carried by directory entries ("9 AM - 9 PM", "24/7",
// "Mon-Sat: 9 AM - 8 PM"). The text is the only source of truth; anything
// the parser cannot understand resolves to StatusUnknown, never an error.
package hours

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Status is the resolved open/closed state of a facility.
type Status int

const (
	// StatusUnknown means the timings text did not match any known pattern.
	// Callers must not render a status badge for it; it is not Closed.
	StatusUnknown Status = iota
	StatusOpen
	StatusClosed
)

// String returns the badge label for the status.
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// rangeRe extracts a single start-end hour pair such as "9 AM - 9 PM" or
// "7-21". The meridiem is optional on both sides; the close-hour meridiem
// is what usually disambiguates.
var rangeRe = regexp.MustCompile(`(\d+)\s*(am|pm)?\s*-\s*(\d+)\s*(am|pm)?`)

// Resolve determines whether a facility is open at the given time based on
// its free-text timings. It is a pure function of its two inputs: no clock
// is read besides now.
//
// Rules, in order:
//  1. A 24-hour marker ("24", "24x7", "24/7") is always open.
//  2. "mon-sat" closes the facility on Sundays.
//  3. A single hour range is compared half-open: open at the start hour,
//     already closed at the close hour. Ranges that cross midnight
//     ("9 PM - 6 AM") wrap around.
//  4. Anything else is StatusUnknown.
func Resolve(timings string, now time.Time) Status {
	text := strings.ToLower(strings.TrimSpace(timings))
	if text == "" {
		return StatusUnknown
	}

	if strings.Contains(text, "24") {
		return StatusOpen
	}

	if strings.Contains(text, "mon-sat") && now.Weekday() == time.Sunday {
		return StatusClosed
	}

	m := rangeRe.FindStringSubmatch(text)
	if m == nil {
		return StatusUnknown
	}

	openHour := normalizeHour(m[1], m[2])
	closeHour := normalizeHour(m[3], m[4])
	hour := now.Hour()

	if openHour > closeHour {
		// Overnight range, e.g. "9 PM - 6 AM".
		if hour >= openHour || hour < closeHour {
			return StatusOpen
		}
		return StatusClosed
	}

	if hour >= openHour && hour < closeHour {
		return StatusOpen
	}
	return StatusClosed
}

// normalizeHour converts a matched hour and optional meridiem to 24-hour
// form. "pm" adds 12 except for 12 itself; a bare hour or "am" is used
// as written, so "12" stays 12.
func normalizeHour(digits, meridiem string) int {
	h, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	if meridiem == "pm" && h != 12 {
		h += 12
	}
	return h
}
