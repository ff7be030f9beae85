package availability

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// clockRe matches the "HH:MM" 24-hour format accepted by the write contract
// ("9:00" and "09:00" are both valid).
var clockRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// dateRe matches the "YYYY-MM-DD" holiday date format.
var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidClock reports whether s is a well-formed "HH:MM" time-of-day string.
func ValidClock(s string) bool { return clockRe.MatchString(s) }

// ValidDate reports whether s is a well-formed "YYYY-MM-DD" calendar date.
func ValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidOverride reports whether s is one of the three manual override values.
func ValidOverride(s string) bool {
	return s == OverrideNone || s == OverrideForceOpen || s == OverrideForceClose
}

// ValidTimezone reports whether tz names a loadable IANA zone. Reads
// tolerate unknown zones via fallback, but writes reject them.
func ValidTimezone(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// parseClock converts "HH:MM" into minutes since midnight.  ok is false for
// anything that does not match the write contract, letting callers fall
// back to defaults instead of propagating a parse error.
func parseClock(s string) (int, bool) {
	if !clockRe.MatchString(s) {
		return 0, false
	}
	i := strings.IndexByte(s, ':')
	h, _ := strconv.Atoi(s[:i])
	m, _ := strconv.Atoi(s[i+1:])
	return h*60 + m, true
}

// localTime converts an instant into wall-clock time in the named zone.
// An unknown or empty zone falls back to the server's local time; the
// availability check must always produce an answer.
func localTime(now time.Time, tz string) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return now.Local()
	}
	return now.In(loc)
}

// dateKey builds the zero-padded "YYYY-MM-DD" holiday lookup key from a
// local wall-clock time.
func dateKey(t time.Time) string { return t.Format("2006-01-02") }
