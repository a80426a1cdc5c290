// Package compliance evaluates duty period sequences against flight time
// limitation rules and explains the outcome per day.
package compliance

// All limit values are minutes unless stated otherwise. The tables mirror
// the EASA subpart FTL figures; alternate regulatory regimes can be loaded
// through the TOML config and injected into the engine.
type Limits struct {
	// MaxFDP is the maximum flight duty period by start-time band and
	// sector count (1-6, capped at 6). Values are monotonically
	// non-increasing as sectors rise and as the start moves toward the
	// circadian low.
	MaxFDP [4][6]int `toml:"-"`

	// ExtensionAllowance is the bounded overrun of MaxFDP a commander's
	// discretion extension may cover.
	ExtensionAllowance int `toml:"extension_allowance"`

	// CloseToLimitMargin triggers an advisory when FDP lands within this
	// margin of MaxFDP without exceeding it.
	CloseToLimitMargin int `toml:"close_to_limit_margin"`

	// StandardRest and ExtendedRest are the minimum rest thresholds.
	// ExtendedRest applies when the previous FDP came within
	// ExtendedRestTrigger of its own maximum.
	StandardRest        int `toml:"standard_rest"`
	ExtendedRest        int `toml:"extended_rest"`
	ExtendedRestTrigger int `toml:"extended_rest_trigger"`

	// Cumulative flight time limits.
	DailyFlightTime   int `toml:"daily_flight_time"`
	WeeklyFlightTime  int `toml:"weekly_flight_time"`
	MonthlyFlightTime int `toml:"monthly_flight_time"`
	YearlyFlightTime  int `toml:"yearly_flight_time"`

	// Cumulative duty time limits over trailing windows.
	WeeklyDutyTime      int `toml:"weekly_duty_time"`
	FortnightlyDutyTime int `toml:"fortnightly_duty_time"`

	// Workload flags.
	MaxConsecutiveDuties int `toml:"max_consecutive_duties"`
	FatigueWarnScore     int `toml:"fatigue_warn_score"`
	HighSectorCount      int `toml:"high_sector_count"`
}

// Start-time bands for the MaxFDP table.
const (
	bandDay      = 0 // 06:00-17:59
	bandEvening  = 1 // 18:00-21:59
	bandNight    = 2 // 22:00-04:59
	bandEarly    = 3 // 05:00-05:59
	bandUndefine = -1
)

// DefaultLimits returns the baseline EASA-style rule set.
func DefaultLimits() Limits {
	return Limits{
		MaxFDP: [4][6]int{
			// sectors:  1-2        3    4    5    6+
			bandDay:     {780, 780, 750, 720, 690, 660},
			bandEvening: {720, 720, 690, 660, 630, 600},
			bandNight:   {660, 660, 630, 600, 570, 540},
			bandEarly:   {720, 720, 690, 660, 630, 600},
		},
		ExtensionAllowance:   60,
		CloseToLimitMargin:   30,
		StandardRest:         10 * 60,
		ExtendedRest:         12 * 60,
		ExtendedRestTrigger:  60,
		DailyFlightTime:      10 * 60,
		WeeklyFlightTime:     60 * 60,
		MonthlyFlightTime:    100 * 60,
		YearlyFlightTime:     900 * 60,
		WeeklyDutyTime:       60 * 60,
		FortnightlyDutyTime:  110 * 60,
		MaxConsecutiveDuties: 4,
		FatigueWarnScore:     3,
		HighSectorCount:      6,
	}
}

// startBand maps a duty start (minutes since midnight) onto its MaxFDP band.
func startBand(startMinutes int) int {
	if startMinutes < 0 {
		return bandUndefine
	}
	h := startMinutes / 60
	switch {
	case h >= 6 && h < 18:
		return bandDay
	case h >= 18 && h < 22:
		return bandEvening
	case h >= 22 || h < 5:
		return bandNight
	default:
		return bandEarly
	}
}

// maxFDPFor looks up the FDP ceiling for a start time and sector count.
// Sector counts beyond six resolve identically to six.
func (l *Limits) maxFDPFor(startMinutes, sectors int) int {
	band := startBand(startMinutes)
	if band == bandUndefine {
		return -1
	}
	if sectors < 1 {
		sectors = 1
	}
	if sectors > 6 {
		sectors = 6
	}
	return l.MaxFDP[band][sectors-1]
}
