// Package calendargrid parses flattened monthly calendar rosters: day
// numbers, duty fragments and annotations scattered across lines with no
// per-cell structure surviving the text extraction. The parser reconstructs
// which duty belongs to which day with a greedy nearest-neighbour matcher
// over token line positions.
package calendargrid

import (
	"fmt"
	"strings"
	"time"

	"ftl_checker/internal/duty"
	"ftl_checker/internal/patterns"
	"ftl_checker/internal/registry"
	"ftl_checker/internal/timeutil"
)

// Matching and harvesting bounds. The matcher is deliberately approximate:
// one-shot greedy consumption with a directional bias, no backtracking.
const (
	reportMatchThreshold  = 10 // max adjusted line distance for report tokens
	standbyMatchThreshold = 5  // tighter bound for standby markers
	directionPenalty      = 3  // day number after the report line is unusual
	harvestLookahead      = 20 // lines of duty content considered per match
)

// Segment plausibility bounds, shared with the line-structured parser.
const (
	minSegmentMinutes   = 30
	maxSegmentMinutes   = 16 * 60
	sameAirportArtifact = 30 // same-airport hops under this are extraction noise
)

// Parser parses calendar-grid rosters.
type Parser struct {
	// DefaultZone is handed to the time normaliser for unknown airports.
	DefaultZone string
}

func init() {
	registry.Register(&Parser{})
}

func (p *Parser) Name() string   { return "calendar_grid" }
func (p *Parser) Threshold() int { return 2 }
func (p *Parser) Priority() int  { return 10 }

// signatureChecks lists the layout signatures whose distinct presence
// classifies text as calendar-grid.
var signatureChecks = []struct {
	name  string
	match func(string) bool
}{
	{"weekday_header", patterns.WeekdayHeaderPattern.MatchString},
	{"day_number_row", hasDayNumberRow},
	{"day_off_marker", patterns.DayOffPattern.MatchString},
	{"report_marker", patterns.ReportPattern.MatchString},
	{"checkout_marker", patterns.GridCheckOutPattern.MatchString},
	{"layover_marker", patterns.LayoverPattern.MatchString},
	{"flight_range", patterns.FlightRangePattern.MatchString},
	{"standby_home", patterns.StandbyHomePattern.MatchString},
}

func hasDayNumberRow(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if patterns.DayNumberRowPattern.MatchString(line) {
			return true
		}
	}
	return false
}

// SignatureCount counts distinct calendar-grid signatures in the text.
func (p *Parser) SignatureCount(text string) int {
	count := 0
	for _, sig := range signatureChecks {
		if sig.match(text) {
			count++
		}
	}
	return count
}

// ExampleInput returns a literal sample of the expected input shape.
func (p *Parser) ExampleInput() string {
	return strings.Join([]string{
		"Roster March 2026",
		"Mo Tu We Th Fr Sa Su",
		" 2  3  4  5  6  7  8",
		"06:15-14:30 (Rep 0545Z)",
		"OS 655 VIE 06:55 - 08:35 RMO",
		"OS 656 RMO 09:20 - 11:05 VIE",
		"C/O 14:30 [FT 03:25]",
		" 9 OFF",
		"10 SBY HOME 06:00-18:00",
	}, "\n")
}

// token positions are line indices; the matcher works purely on them.
type reportToken struct {
	line  int
	start string // local range start, HH:MM
	end   string // local range end, HH:MM
	rep   string // compact UTC report stamp, HHMM
	used  bool
}

type dayToken struct {
	line int
	day  int
	used bool
}

type standbyToken struct {
	line  int
	start string
	end   string
	used  bool
}

// Parse reconstructs one duty block per day of month present in the text.
func (p *Parser) Parse(text string, now time.Time) *duty.ParseResult {
	res := &duty.ParseResult{}
	lines := strings.Split(text, "\n")

	year, month := headerMonth(lines, now)

	reports, days, standbys := collectTokens(lines)
	if len(days) == 0 {
		res.Errors = append(res.Errors, "no day numbers found in input")
		res.Success = false
		res.Summarise()
		return res
	}

	// Greedy nearest-neighbour assignment, report tokens in discovery
	// order. The directional penalty biases toward day numbers at or
	// before the duty content they label.
	type pair struct {
		report *reportToken
		day    *dayToken
	}
	var pairs []pair
	for ri := range reports {
		rep := &reports[ri]
		best := -1
		bestAdj := reportMatchThreshold + 1
		for di := range days {
			if days[di].used {
				continue
			}
			adj := absInt(days[di].line - rep.line)
			if days[di].line > rep.line {
				adj += directionPenalty
			}
			if adj < bestAdj {
				bestAdj = adj
				best = di
			}
		}
		if best < 0 {
			continue
		}
		rep.used = true
		days[best].used = true
		pairs = append(pairs, pair{report: rep, day: &days[best]})
	}

	// Standby markers: tighter threshold, no directional penalty.
	type standbyPair struct {
		marker *standbyToken
		day    *dayToken
	}
	var standbyPairs []standbyPair
	for si := range standbys {
		sb := &standbys[si]
		best := -1
		bestDist := standbyMatchThreshold + 1
		for di := range days {
			if days[di].used {
				continue
			}
			d := absInt(days[di].line - sb.line)
			if d < bestDist {
				bestDist = d
				best = di
			}
		}
		if best < 0 {
			continue
		}
		sb.used = true
		days[best].used = true
		standbyPairs = append(standbyPairs, standbyPair{marker: sb, day: &days[best]})
	}

	// Build duty blocks: matched flight duties first, then standby, then
	// day-off for every day number never consumed. Dedup below keeps the
	// first occurrence per day, so this ordering makes real duties win.
	var duties []duty.Period
	for _, pr := range pairs {
		d := p.buildFlightDuty(lines, pr.report, pr.day, year, month, res)
		duties = append(duties, d)
	}
	for _, sp := range standbyPairs {
		duties = append(duties, duty.Period{
			Date:             gridDate(year, month, sp.day.day),
			Type:             duty.Standby,
			ReportTime:       sp.marker.start,
			OffDutyTime:      sp.marker.end,
			StandbyStartTime: sp.marker.start,
			Notes:            "standby at home",
		})
	}
	for di := range days {
		if !days[di].used {
			duties = append(duties, duty.Period{
				Date: gridDate(year, month, days[di].day),
				Type: duty.DayOff,
			})
		}
	}

	duties = dedupeByDate(duties)
	duty.SortPeriods(duties)
	res.DutyPeriods = duties

	p.validate(res)
	res.Success = len(res.DutyPeriods) > 0
	res.Summarise()
	return res
}

// buildFlightDuty harvests duty content around a matched report/day pair and
// parses it like one line-structured block.
func (p *Parser) buildFlightDuty(lines []string, rep *reportToken, day *dayToken, year int, month time.Month, res *duty.ParseResult) duty.Period {
	d := duty.Period{
		Date:        gridDate(year, month, day.day),
		Type:        duty.Flight,
		ReportTime:  rep.start,
		OffDutyTime: rep.end,
		Notes:       "Rep " + rep.rep + "Z",
	}
	date := d.Day()

	start := minInt(rep.line, day.line)
	end := minInt(len(lines), start+harvestLookahead)

	var kept []string
	for i := start; i < end; i++ {
		line := lines[i]
		// A different duty's report marker ends this duty's content.
		if i != rep.line && patterns.ReportPattern.MatchString(line) {
			break
		}
		if patterns.ReportPattern.MatchString(line) ||
			patterns.GridCheckOutPattern.MatchString(line) ||
			patterns.FlightRangePattern.MatchString(line) ||
			patterns.StandbyHomePattern.MatchString(line) {
			kept = append(kept, line)
		}
	}
	content := strings.Join(kept, "\n")

	// Layover substrings look like flight ranges; strip them first.
	stripped := patterns.StripLayovers(content)
	for _, fr := range patterns.FlightRanges(stripped) {
		dep := timeutil.Normalize(fr.DepartureTime, date, fr.Departure, false, p.DefaultZone)
		arr := timeutil.Normalize(fr.ArrivalTime, date, fr.Arrival, false, p.DefaultZone)

		dur, err := timeutil.SpanMinutes(dep.Clock, arr.Clock)
		if err != nil {
			continue
		}
		// A short same-airport hop is a parsing artifact, not a sector.
		if fr.Departure == fr.Arrival && dur < sameAirportArtifact {
			continue
		}
		if dur < minSegmentMinutes || dur > maxSegmentMinutes {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"day %d: discarded implausible segment %s-%s (duration outside plausible range)",
				day.day, fr.Departure, fr.Arrival))
			continue
		}
		num := ""
		if fr.Airline != "" {
			num = fr.Airline + fr.Number
		}
		acc := duty.Segment{
			FlightNumber:  num,
			Departure:     fr.Departure,
			DepartureTime: dep.Clock,
			Arrival:       fr.Arrival,
			ArrivalTime:   arr.Clock,
		}
		d.Flights = append(d.Flights, acc)
	}

	// A checkout line with a flight-time annotation sets the off-duty time.
	if m := patterns.GridCheckOutPattern.FindStringSubmatch(content); m != nil {
		co := timeutil.Normalize(strings.ReplaceAll(m[1], ":", ""), date, "", false, p.DefaultZone)
		d.OffDutyTime = co.Clock
		if m[2] != "" {
			d.Notes += "; C/O [FT " + m[2] + "]"
		}
	}

	return d
}

// validate produces field-level messages for non-day-off duties without
// aborting the batch.
func (p *Parser) validate(res *duty.ParseResult) {
	for i := range res.DutyPeriods {
		d := &res.DutyPeriods[i]
		if d.Type == duty.DayOff {
			continue
		}
		if d.ReportTime == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: missing report time", d.Date))
		}
		if d.OffDutyTime == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: missing off-duty time", d.Date))
		}
		for _, seg := range d.Flights {
			if !patterns.IsValidAirport(seg.Departure) || !patterns.IsValidAirport(seg.Arrival) {
				res.Errors = append(res.Errors, fmt.Sprintf(
					"%s: malformed airport code in segment %s-%s", d.Date, seg.Departure, seg.Arrival))
			}
		}
	}
}

// collectTokens gathers report, day-number and standby tokens with their
// line indices.
func collectTokens(lines []string) ([]reportToken, []dayToken, []standbyToken) {
	var reports []reportToken
	var days []dayToken
	var standbys []standbyToken

	for i, line := range lines {
		for _, m := range patterns.ReportPattern.FindAllStringSubmatch(line, -1) {
			reports = append(reports, reportToken{line: i, start: m[1], end: m[2], rep: m[3]})
		}
		for _, day := range patterns.BareDayNumbers(line) {
			days = append(days, dayToken{line: i, day: day})
		}
		if m := patterns.StandbyHomePattern.FindStringSubmatch(line); m != nil {
			standbys = append(standbys, standbyToken{line: i, start: m[1], end: m[2]})
		}
	}
	return reports, days, standbys
}

// headerMonth extracts the month/year header, defaulting to the current
// month when absent.
func headerMonth(lines []string, now time.Time) (int, time.Month) {
	for _, line := range lines {
		if m := patterns.MonthHeaderPattern.FindStringSubmatch(line); m != nil {
			if mon := patterns.MonthNumber(m[1]); mon != 0 {
				year := 0
				fmt.Sscanf(m[2], "%d", &year)
				if year > 0 {
					return year, time.Month(mon)
				}
			}
		}
	}
	return now.Year(), now.Month()
}

func gridDate(year int, month time.Month, day int) string {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(duty.DateFormat)
}

// dedupeByDate keeps the first duty per date.
func dedupeByDate(duties []duty.Period) []duty.Period {
	seen := make(map[string]bool, len(duties))
	out := duties[:0]
	for _, d := range duties {
		if seen[d.Date] {
			continue
		}
		seen[d.Date] = true
		out = append(out, d)
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ParseWithTrace implements registry.Traceable for detailed debugging.
func (p *Parser) ParseWithTrace(text string, now time.Time) *registry.TraceResult {
	trace := &registry.TraceResult{ParserName: p.Name()}
	matched := 0
	for _, sig := range signatureChecks {
		ok := sig.match(text)
		if ok {
			matched++
		}
		trace.Signatures = append(trace.Signatures, registry.SignatureCheck{
			Name:    sig.name,
			Matched: ok,
		})
	}
	trace.Claimed = matched >= p.Threshold()
	trace.Envelope = p.Parse(text, now)
	return trace
}
