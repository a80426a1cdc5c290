// Package patterns provides extraction functions for roster text parsing.
package patterns

import (
	"strconv"
)

// BareDayNumbers extracts every integer in 1-31 from a line that is not
// adjacent to a colon. The colon check excludes clock values: in
// "06:15-14:30" neither 06, 15, 14 nor 30 is a day number.
func BareDayNumbers(line string) []int {
	var days []int
	n := len(line)
	i := 0
	for i < n {
		if !isDigit(line[i]) {
			i++
			continue
		}
		j := i
		for j < n && isDigit(line[j]) {
			j++
		}
		// Reject runs longer than two digits (years, compact times) and
		// runs touching a colon on either side.
		if j-i <= 2 && !adjacentToColon(line, i, j) {
			if v, err := strconv.Atoi(line[i:j]); err == nil && v >= 1 && v <= 31 {
				days = append(days, v)
			}
		}
		i = j
	}
	return days
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func adjacentToColon(s string, start, end int) bool {
	if start > 0 && s[start-1] == ':' {
		return true
	}
	if end < len(s) && s[end] == ':' {
		return true
	}
	return false
}

// StripLayovers removes layover-duration substrings from harvested duty
// text. Layovers carry a time range just like a flight does, so they must go
// before flight ranges are extracted.
func StripLayovers(text string) string {
	return LayoverPattern.ReplaceAllString(text, " ")
}

// FlightRange is one compact flight-time-range-with-airports match.
type FlightRange struct {
	Airline       string
	Number        string
	Departure     string
	DepartureTime string
	Arrival       string
	ArrivalTime   string
}

// FlightRanges extracts every compact flight range from text. Callers are
// expected to strip layovers first.
func FlightRanges(text string) []FlightRange {
	var out []FlightRange
	for _, m := range FlightRangePattern.FindAllStringSubmatch(text, -1) {
		out = append(out, FlightRange{
			Airline:       m[1],
			Number:        m[2],
			Departure:     m[3],
			DepartureTime: m[4],
			ArrivalTime:   m[5],
			Arrival:       m[6],
		})
	}
	return out
}

// IsValidAirport reports whether code is a well-formed 3-letter airport code.
func IsValidAirport(code string) bool {
	return AirportCodePattern.MatchString(code)
}
