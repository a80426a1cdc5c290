package flightboard

import "ftl_checker/internal/patterns"

// Formats describe the tabular flight-board row layouts. Patterns use
// {PLACEHOLDER} references expanded by the patterns compiler.
var Formats = []patterns.Format{
	{
		// OS 321  VIE  FRA  06:15  06:25  DELAYED  A320
		Name:    "board_row_full",
		Pattern: `^\s*(?P<airline>[A-Z]{2})\s?(?P<num>\d{1,4}[A-Z]?)\s+(?P<dep>{AIRPORT})\s+(?P<arr>{AIRPORT})\s+(?P<std>{CLOCK})\s+(?P<etd>{CLOCK})\s+(?P<status>{BOARD_STATUS})(?:\s+(?P<acft>{ACFT}))?\s*$`,
	},
	{
		// OS 321  VIE  FRA  06:15  SCHEDULED
		Name:    "board_row_scheduled",
		Pattern: `^\s*(?P<airline>[A-Z]{2})\s?(?P<num>\d{1,4}[A-Z]?)\s+(?P<dep>{AIRPORT})\s+(?P<arr>{AIRPORT})\s+(?P<std>{CLOCK})\s+(?P<status>{BOARD_STATUS})(?:\s+(?P<acft>{ACFT}))?\s*$`,
	},
	{
		// Compact feed variant: OS321 VIE-FRA 0615 DEPARTED
		Name:    "board_row_compact",
		Pattern: `^\s*(?P<airline>[A-Z]{2})(?P<num>\d{1,4}[A-Z]?)\s+(?P<dep>{AIRPORT})-(?P<arr>{AIRPORT})\s+(?P<std>{CLOCK4})\s+(?P<status>{BOARD_STATUS})\s*$`,
	},
}
