// Package patterns provides shared regex patterns and helper functions for
// roster text parsing. This file contains the reusable base fragments the
// pattern compiler expands into full format regexes.

package patterns

// BasePatterns defines reusable regex components for pattern composition.
// These are referenced in format patterns using {PATTERN_NAME} syntax.
var BasePatterns = map[string]string{
	// Airport codes.
	"AIRPORT": `[A-Z]{3}`,

	// Wall-clock time with separator: 06:15, 23:59.
	"CLOCK": `\d{2}:\d{2}`,

	// Compact 4-digit wall-clock time: 0615, 2359.
	"CLOCK4": `\d{4}`,

	// Airline designator plus flight number, with or without a space.
	// e.g., OS 655, LH1234, FR7318A
	"FLIGHT_NUM": `[A-Z]{2}\s?\d{1,4}[A-Z]?`,

	// Aircraft type designators as printed on rosters: A220, B738, E195, DH8D.
	"ACFT": `[A-Z][A-Z0-9]{2,3}`,

	// Day of month without zero-padding guarantees: 1-31.
	"DAY": `\d{1,2}`,

	// Three-letter weekday abbreviation as printed on duty rows.
	"WEEKDAY": `Mon|Tue|Wed|Thu|Fri|Sat|Sun`,

	// Flight-board status words.
	"BOARD_STATUS": `SCHEDULED|BOARDING|DEPARTED|DELAYED|CANCELLED|DIVERTED|ARRIVED`,
}
