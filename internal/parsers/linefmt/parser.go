// Package linefmt parses line-structured rosters: explicitly tagged
// multi-line duty blocks with check-in, flight-row and checkout markers.
package linefmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ftl_checker/internal/duty"
	"ftl_checker/internal/patterns"
	"ftl_checker/internal/registry"
	"ftl_checker/internal/timeutil"
)

// Segment durations outside this window are implausible and dropped.
const (
	minSegmentMinutes = 30
	maxSegmentMinutes = 16 * 60
)

// Parser parses line-structured rosters. It is the registry fallback: text
// no other format claims lands here.
type Parser struct {
	// DefaultZone is handed to the time normaliser for unknown airports.
	DefaultZone string
}

func init() {
	registry.RegisterFallback(&Parser{})
}

func (p *Parser) Name() string   { return "line_structured" }
func (p *Parser) Threshold() int { return 1 }
func (p *Parser) Priority() int  { return 100 }

// SignatureCount counts line-format signatures. As the fallback parser this
// is informational: classification never gates on it.
func (p *Parser) SignatureCount(text string) int {
	count := 0
	if patterns.CheckInPattern.MatchString(text) {
		count++
	}
	if patterns.CheckOutPattern.MatchString(text) {
		count++
	}
	for _, line := range strings.Split(text, "\n") {
		if patterns.WeekdayDayPattern.MatchString(strings.TrimSpace(line)) {
			count++
			break
		}
	}
	return count
}

// ExampleInput returns a literal sample of the expected input shape.
func (p *Parser) ExampleInput() string {
	return strings.Join([]string{
		"Sat07 C/I VIE 1200",
		"OS 655 VIE 1314 1454 RMO A220",
		"OS 656 RMO 1540 1730 VIE A220",
		"C/O 2039 VIE [FT 05:13]",
		"Sun08 OFF",
	}, "\n")
}

// Parse runs the line state machine: one mutable "current duty" accumulator,
// flushed on each new duty-start line and at end of input.
func (p *Parser) Parse(text string, now time.Time) *duty.ParseResult {
	res := &duty.ParseResult{}

	var acc *duty.Period
	flush := func() {
		if acc != nil {
			res.DutyPeriods = append(res.DutyPeriods, *acc)
			acc = nil
		}
	}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := patterns.WeekdayDayPattern.FindStringSubmatch(line); m != nil {
			flush()
			day, _ := strconv.Atoi(m[2])
			date := timeutil.ResolveRosterDate(day, now)
			acc = &duty.Period{
				Date: date.Format(duty.DateFormat),
				Type: duty.Flight,
			}
			// A duty-start line may carry its check-in inline.
			p.applyCheckIn(acc, line)
			p.applyMarkers(acc, line)
			continue
		}

		if acc == nil {
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: no open duty for %q", i+1, line))
			continue
		}

		switch {
		case patterns.FlightRowPattern.MatchString(line):
			p.applyFlightRow(acc, line, res)
		case patterns.CheckOutPattern.MatchString(line):
			p.applyCheckOut(acc, line)
		case patterns.CheckInPattern.MatchString(line):
			p.applyCheckIn(acc, line)
		case p.applyMarkers(acc, line):
			// standby / day-off marker consumed the line
		case patterns.AnnotationPattern.MatchString(line):
			// Duty-period/FDP annotations are provenance only; the engine
			// recomputes every figure itself.
			appendNote(acc, line)
		default:
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: unrecognised: %q", i+1, line))
		}
	}
	flush()

	if len(res.DutyPeriods) == 0 {
		res.Errors = append(res.Errors, "no duty periods found in input")
	}
	res.Success = len(res.DutyPeriods) > 0
	res.Summarise()
	return res
}

// applyCheckIn fills report time and base airport from a check-in marker.
func (p *Parser) applyCheckIn(acc *duty.Period, line string) {
	m := patterns.CheckInPattern.FindStringSubmatch(line)
	if m == nil || acc.ReportTime != "" {
		return
	}
	norm := timeutil.Normalize(m[2], acc.Day(), m[1], false, p.DefaultZone)
	acc.ReportTime = norm.Clock
	appendNote(acc, "C/I "+m[1])
}

// applyFlightRow appends one flight segment, dropping implausible ones with
// a warning instead of propagating them.
func (p *Parser) applyFlightRow(acc *duty.Period, line string, res *duty.ParseResult) {
	m := patterns.FlightRowPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	dep := timeutil.Normalize(m[4], acc.Day(), m[3], false, p.DefaultZone)
	arr := timeutil.Normalize(m[5], acc.Day(), m[6], false, p.DefaultZone)

	dur, err := timeutil.SpanMinutes(dep.Clock, arr.Clock)
	if err != nil || dur < minSegmentMinutes || dur > maxSegmentMinutes {
		res.Errors = append(res.Errors, fmt.Sprintf(
			"discarded implausible segment %s%s %s-%s (duration outside plausible range)",
			m[1], m[2], m[3], m[6]))
		return
	}

	acc.Flights = append(acc.Flights, duty.Segment{
		FlightNumber:  m[1] + m[2],
		Departure:     m[3],
		DepartureTime: dep.Clock,
		Arrival:       m[6],
		ArrivalTime:   arr.Clock,
		AircraftType:  m[7],
	})
}

// applyCheckOut sets the off-duty time and records provenance.
func (p *Parser) applyCheckOut(acc *duty.Period, line string) {
	m := patterns.CheckOutPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	norm := timeutil.Normalize(m[1], acc.Day(), m[2], false, p.DefaultZone)
	acc.OffDutyTime = norm.Clock
	note := "C/O " + m[2]
	if m[3] != "" {
		note += " [" + m[3] + "]"
	}
	appendNote(acc, note)
}

// applyMarkers handles standby and day-off markers on a duty line. Returns
// true when the line carried one.
func (p *Parser) applyMarkers(acc *duty.Period, line string) bool {
	if m := patterns.StandbyHomePattern.FindStringSubmatch(line); m != nil {
		acc.Type = duty.Standby
		if m[1] != "" {
			acc.StandbyStartTime = m[1]
			acc.ReportTime = m[1]
			acc.OffDutyTime = m[2]
		}
		appendNote(acc, "standby at home")
		return true
	}
	if patterns.DayOffPattern.MatchString(line) && !patterns.CheckOutPattern.MatchString(line) {
		acc.Type = duty.DayOff
		acc.ReportTime = ""
		acc.OffDutyTime = ""
		return true
	}
	return false
}

func appendNote(acc *duty.Period, note string) {
	if acc.Notes == "" {
		acc.Notes = note
		return
	}
	acc.Notes += "; " + note
}

// ParseWithTrace implements registry.Traceable for detailed debugging.
func (p *Parser) ParseWithTrace(text string, now time.Time) *registry.TraceResult {
	trace := &registry.TraceResult{
		ParserName: p.Name(),
		Claimed:    true, // fallback always claims
	}
	trace.Signatures = []registry.SignatureCheck{
		{Name: "check_in", Matched: patterns.CheckInPattern.MatchString(text)},
		{Name: "check_out", Matched: patterns.CheckOutPattern.MatchString(text)},
		{Name: "weekday_day", Matched: patterns.WeekdayDayPattern.MatchString(text)},
	}

	lineFormats := []struct {
		name string
		re   interface{ FindStringSubmatch(string) []string }
	}{
		{"weekday_day", patterns.WeekdayDayPattern},
		{"flight_row", patterns.FlightRowPattern},
		{"check_in", patterns.CheckInPattern},
		{"check_out", patterns.CheckOutPattern},
	}
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		for _, f := range lineFormats {
			if m := f.re.FindStringSubmatch(line); m != nil {
				trace.Formats = append(trace.Formats, patterns.FormatTrace{
					Name:    f.name,
					Matched: true,
					Captures: map[string]string{
						"line": line,
					},
				})
				break
			}
		}
	}

	trace.Envelope = p.Parse(text, now)
	return trace
}
