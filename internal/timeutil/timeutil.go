// Package timeutil provides wall-clock parsing, day-rollover duration
// arithmetic, and UTC-to-local normalisation for roster times.
//
// Every duration in this system is computed with the same rule: when the end
// of a span is lexically before its start, the span crossed midnight and one
// day is added before subtracting.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ftl_checker/internal/airports"
)

const minutesPerDay = 24 * 60

// ParseClock parses a wall-clock token in "HH:MM" or compact "HHMM" form and
// returns minutes since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	var hh, mm string
	switch {
	case len(s) == 5 && s[2] == ':':
		hh, mm = s[:2], s[3:]
	case len(s) == 4:
		hh, mm = s[:2], s[2:]
	default:
		return 0, fmt.Errorf("malformed clock value %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM". Values are wrapped
// into a single day first.
func FormatClock(minutes int) string {
	minutes %= minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatDuration renders a minute count as "H:MM" elapsed time (no day wrap).
func FormatDuration(minutes int) string {
	if minutes < 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// SpanMinutes returns the elapsed minutes from start to end, both wall-clock
// tokens. An end before the start is taken to mean the span crosses midnight.
func SpanMinutes(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if e < s {
		e += minutesPerDay
	}
	return e - s, nil
}

// ClockHour returns the hour component of a wall-clock token, or -1 when the
// token is malformed.
func ClockHour(s string) int {
	m, err := ParseClock(s)
	if err != nil {
		return -1
	}
	return m / 60
}

// Normalized is the outcome of a time normalisation. Zone conversion can
// shift the calendar day, so the resulting local date travels with the time.
type Normalized struct {
	Clock string    // HH:MM local
	Date  time.Time // local calendar date (midnight)
}

// Normalize converts a wall-clock token into local time at the given airport
// on the reference date. If utc is false the value is already local and is
// only reformatted. On any failure the unconverted value is returned so a
// single bad token degrades one field rather than the whole parse.
func Normalize(clock string, date time.Time, airport string, utc bool, defaultZone string) Normalized {
	fallback := Normalized{Clock: reformat(clock), Date: midnight(date)}

	minutes, err := ParseClock(clock)
	if err != nil {
		return Normalized{Clock: clock, Date: midnight(date)}
	}
	if !utc {
		return Normalized{Clock: FormatClock(minutes), Date: midnight(date)}
	}

	zone := airports.ZoneOrDefault(airport, defaultZone)
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return fallback
	}

	t := time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, time.UTC)
	local := t.In(loc)
	return Normalized{
		Clock: local.Format("15:04"),
		Date:  time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// reformat renders a clock token canonically without zone conversion, keeping
// the input untouched when it does not parse.
func reformat(clock string) string {
	m, err := ParseClock(clock)
	if err != nil {
		return clock
	}
	return FormatClock(m)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ResolveRosterDate maps a day-of-month from a roster without a year/month
// header onto a calendar date. The current month is preferred when that date
// is today or later; otherwise the same day next month, falling back to the
// current month when the day overflows the next month. Rosters more than a
// month in the past resolve wrongly by construction; that is an accepted
// limitation of the heuristic.
func ResolveRosterDate(dayOfMonth int, now time.Time) time.Time {
	today := midnight(now)

	current := time.Date(now.Year(), now.Month(), dayOfMonth, 0, 0, 0, 0, time.UTC)
	if current.Day() == dayOfMonth && !current.Before(today) {
		return current
	}

	next := time.Date(now.Year(), now.Month()+1, dayOfMonth, 0, 0, 0, 0, time.UTC)
	if next.Day() == dayOfMonth {
		return next
	}
	return current
}
