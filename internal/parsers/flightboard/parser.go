// Package flightboard parses tabular flight-status feeds into flight
// records. The records feed the standby availability computation only; they
// never reach the compliance engine.
package flightboard

import (
	"fmt"
	"strings"
	"sync"

	"ftl_checker/internal/duty"
	"ftl_checker/internal/patterns"
	"ftl_checker/internal/timeutil"
)

// Parser parses flight-board feeds.
type Parser struct{}

// Pattern compiler singleton.
var (
	compiler     *patterns.Compiler
	compilerOnce sync.Once
	compilerErr  error
)

func getCompiler() (*patterns.Compiler, error) {
	compilerOnce.Do(func() {
		compiler = patterns.NewCompiler(Formats, nil)
		compilerErr = compiler.Compile()
	})
	return compiler, compilerErr
}

// ExampleInput returns a literal sample of the expected input shape.
func (p *Parser) ExampleInput() string {
	return strings.Join([]string{
		"FLIGHT  DEP  ARR  STD    ETD    STATUS",
		"OS 321  VIE  FRA  06:15  06:15  BOARDING  A320",
		"OS 655  VIE  RMO  13:14  13:30  DELAYED   A220",
		"OS 901  VIE  JFK  10:05  SCHEDULED",
	}, "\n")
}

// Parse converts a flight-board feed into board flight records. Unmatched
// lines other than the header degrade to itemised errors.
func (p *Parser) Parse(text string) *duty.ParseResult {
	res := &duty.ParseResult{}

	c, err := getCompiler()
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("pattern compiler: %v", err))
		res.Summarise()
		return res
	}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, " \t")
		if strings.TrimSpace(line) == "" || isHeader(line) {
			continue
		}

		m := c.Parse(line)
		if m == nil {
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: unrecognised board row: %q", i+1, strings.TrimSpace(line)))
			continue
		}

		std := m.GetCapture("std", "")
		if mins, err := timeutil.ParseClock(std); err == nil {
			std = timeutil.FormatClock(mins)
		}
		flight := duty.BoardFlight{
			FlightNumber: m.GetCapture("airline", "") + m.GetCapture("num", ""),
			Departure:    m.GetCapture("dep", ""),
			Arrival:      m.GetCapture("arr", ""),
			ScheduledDep: std,
			EstimatedDep: m.GetCapture("etd", ""),
			Status:       m.GetCapture("status", ""),
			AircraftType: m.GetCapture("acft", ""),
		}
		res.Flights = append(res.Flights, flight)
	}

	if len(res.Flights) == 0 {
		res.Errors = append(res.Errors, "no flight rows found in input")
	}
	res.Success = len(res.Flights) > 0
	res.Summarise()
	return res
}

// isHeader reports whether a line is the column header of the board.
func isHeader(line string) bool {
	upper := strings.ToUpper(line)
	return strings.Contains(upper, "FLIGHT") && strings.Contains(upper, "STATUS")
}
