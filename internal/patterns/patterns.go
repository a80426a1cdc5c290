// Package patterns provides shared regex patterns and helper functions for
// roster text parsing.
package patterns

import "regexp"

// Line-structured roster patterns.
var (
	// WeekdayDayPattern matches a duty start line: Sat07, Mon 1, Fri23.
	WeekdayDayPattern = regexp.MustCompile(`^(Mon|Tue|Wed|Thu|Fri|Sat|Sun)\s*(\d{1,2})\b`)

	// CheckInPattern matches a check-in marker: C/I VIE 1200.
	CheckInPattern = regexp.MustCompile(`C/I\s+([A-Z]{3})\s+(\d{4})\b`)

	// FlightRowPattern matches a full flight row:
	// OS 655 VIE 1314 1454 RMO A220
	FlightRowPattern = regexp.MustCompile(`^([A-Z]{2})\s?(\d{1,4}[A-Z]?)\s+([A-Z]{3})\s+(\d{4})\s+(\d{4})\s+([A-Z]{3})\s+([A-Z][A-Z0-9]{2,3})\s*$`)

	// CheckOutPattern matches a checkout line with its bracketed flight-time
	// annotation: C/O 2039 AMS [FT 05:13]
	CheckOutPattern = regexp.MustCompile(`C/O\s+(\d{4})\s+([A-Z]{3})(?:\s+\[([^\]]+)\])?`)

	// AnnotationPattern matches bracketed duty-period/FDP/flight-time
	// annotations carried into notes only: [DP 10:24] [FDP 09:54] [FT 05:13]
	AnnotationPattern = regexp.MustCompile(`\[(?:DP|FDP|FT)\s+\d{1,2}:\d{2}\]`)
)

// Calendar-grid roster patterns.
var (
	// ReportPattern matches a grid report-time token:
	// 06:15-14:30 (Rep 0545Z)
	ReportPattern = regexp.MustCompile(`(\d{2}:\d{2})\s*-\s*(\d{2}:\d{2})\s*\(Rep\s+(\d{4})Z\)`)

	// FlightRangePattern matches the compact flight-time-range-with-airports
	// form used inside grid cells, with an optional flight number prefix:
	// OS 655 VIE 13:14 - 14:54 RMO
	FlightRangePattern = regexp.MustCompile(`(?:([A-Z]{2})\s?(\d{1,4}[A-Z]?)\s+)?([A-Z]{3})\s+(\d{2}:\d{2})\s*-\s*(\d{2}:\d{2})\s+([A-Z]{3})`)

	// LayoverPattern matches layover-duration substrings. These look enough
	// like flight ranges to produce false positives, so they are stripped
	// before flight extraction: AMS 20:39 - 05:45 (9:06)
	LayoverPattern = regexp.MustCompile(`[A-Z]{3}\s+\d{2}:\d{2}\s*-\s*\d{2}:\d{2}(?:\s+[A-Z]{3})?\s*\(\d{1,2}:\d{2}\)`)

	// GridCheckOutPattern matches the grid checkout marker with flight-time
	// annotation: C/O 2039 [FT 05:13] or C/O 20:39
	GridCheckOutPattern = regexp.MustCompile(`C/O\s+(\d{2}:?\d{2})(?:\s+\[FT\s+(\d{1,2}:\d{2})\])?`)

	// StandbyHomePattern matches a standby-at-home marker with an optional
	// window: SBY HOME 06:00-18:00, HSB
	StandbyHomePattern = regexp.MustCompile(`(?i)\b(?:HSB|SBY\s+HOME|STANDBY\s+AT\s+HOME)\b(?:\s*(\d{2}:\d{2})\s*-\s*(\d{2}:\d{2}))?`)

	// WeekdayHeaderPattern matches the weekday header row of a printed
	// month calendar: Mo Tu We Th Fr Sa Su
	WeekdayHeaderPattern = regexp.MustCompile(`\bMo\s+Tu\s+We\s+Th\s+Fr\s+Sa\s+Su\b`)

	// DayNumberRowPattern matches a row of bare day numbers:  1  2  3  4  5
	DayNumberRowPattern = regexp.MustCompile(`^\s*\d{1,2}(?:\s+\d{1,2}){3,}\s*$`)

	// DayOffPattern matches explicit day-off markers in grid cells.
	DayOffPattern = regexp.MustCompile(`(?i)\b(?:OFF|DAYOFF|D/O)\b`)

	// MonthHeaderPattern matches the free-text month/year header:
	// Roster March 2026
	MonthHeaderPattern = regexp.MustCompile(`(?i)\b(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\s+(\d{4})\b`)
)

// Validation patterns.
var (
	// AirportCodePattern validates a standalone 3-letter airport code.
	AirportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

	// ClockPattern validates an HH:MM wall-clock value.
	ClockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// monthsByName resolves header month names and abbreviations.
var monthsByName = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// MonthNumber resolves a month name or abbreviation to 1-12, or 0 when
// unknown.
func MonthNumber(name string) int {
	if len(name) < 3 {
		return 0
	}
	key := [3]byte{name[0] | 0x20, name[1] | 0x20, name[2] | 0x20}
	return monthsByName[string(key[:])]
}
