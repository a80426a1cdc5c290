// Package duty provides the duty period and flight segment types shared by
// the roster parsers and the compliance engine.
package duty

import (
	"sort"
	"time"
)

// Type classifies a duty period.
type Type string

const (
	Flight   Type = "FLIGHT"
	Standby  Type = "STANDBY"
	DayOff   Type = "DAYOFF"
	Training Type = "TRAINING"
	Admin    Type = "ADMIN"
)

// DateFormat is the canonical wire format for duty dates.
const DateFormat = "2006-01-02"

// Segment represents one flown sector within a duty.
type Segment struct {
	FlightNumber  string `json:"flight_number"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	DepartureTime string `json:"departure_time"` // HH:MM local
	ArrivalTime   string `json:"arrival_time"`   // HH:MM local
	AircraftType  string `json:"aircraft_type,omitempty"`
}

// Period represents one day's work assignment.
// Times are local wall-clock HH:MM strings; an off-duty time lexically before
// the report time means the duty crossed midnight.
type Period struct {
	Date             string    `json:"date"` // YYYY-MM-DD
	Type             Type      `json:"type"`
	ReportTime       string    `json:"report_time,omitempty"`
	OffDutyTime      string    `json:"off_duty_time,omitempty"`
	CallTime         string    `json:"call_time,omitempty"`          // standby only: activation time
	StandbyStartTime string    `json:"standby_start_time,omitempty"` // standby only: window start
	Flights          []Segment `json:"flights,omitempty"`
	Notes            string    `json:"notes,omitempty"`
}

// Day returns the parsed calendar date, or the zero time if malformed.
func (p *Period) Day() time.Time {
	t, err := time.Parse(DateFormat, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// StartTime returns the effective duty start: call time for activated
// standby, otherwise the report time.
func (p *Period) StartTime() string {
	if p.Type == Standby && p.CallTime != "" {
		return p.CallTime
	}
	return p.ReportTime
}

// SortPeriods orders periods ascending by date in place.
func SortPeriods(periods []Period) {
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].Date < periods[j].Date
	})
}

// BoardFlight is one row of a tabular flight-status feed. It is produced by
// the flight-board parser and consumed only by the standby availability
// computation, never by the compliance engine.
type BoardFlight struct {
	FlightNumber string `json:"flight_number"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	ScheduledDep string `json:"scheduled_dep"` // HH:MM
	EstimatedDep string `json:"estimated_dep,omitempty"`
	Status       string `json:"status,omitempty"`
	AircraftType string `json:"aircraft_type,omitempty"`
}

// Summary reports what a parse produced, broken down by duty type.
type Summary struct {
	TotalDays     int          `json:"total_days"`
	DaysByType    map[Type]int `json:"days_by_type,omitempty"`
	TotalSegments int          `json:"total_segments"`
}

// ParseResult is the envelope every roster parser returns. A failed or
// partial parse still returns an envelope: Errors itemises what went wrong
// and DutyPeriods holds whatever was recovered.
type ParseResult struct {
	Success     bool          `json:"success"`
	Errors      []string      `json:"errors,omitempty"`
	DutyPeriods []Period      `json:"duty_periods,omitempty"`
	Flights     []BoardFlight `json:"flights,omitempty"`
	Summary     Summary       `json:"summary"`
}

// Summarise fills the envelope summary from its duty periods and flights.
func (r *ParseResult) Summarise() {
	s := Summary{DaysByType: make(map[Type]int)}
	for i := range r.DutyPeriods {
		p := &r.DutyPeriods[i]
		s.TotalDays++
		s.DaysByType[p.Type]++
		s.TotalSegments += len(p.Flights)
	}
	if len(s.DaysByType) == 0 {
		s.DaysByType = nil
	}
	if len(r.Flights) > 0 {
		s.TotalSegments += len(r.Flights)
	}
	r.Summary = s
}
