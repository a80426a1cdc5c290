// Package compliance evaluates a sequence of duty periods against
// flight-time-limitation rules. The engine is a pure batch computation: the
// whole duty history is required up front because rolling windows on any day
// depend on every other day, and results come back in ascending date order.
package compliance

import (
	"fmt"
	"strconv"
	"time"

	"ftl_checker/internal/duty"
	"ftl_checker/internal/timeutil"
)

// Scope restricts which evaluated days appear in the report. The full input
// sequence is always evaluated so that rolling windows see complete history;
// scope only filters the emitted results.
type Scope string

const (
	ScopeAll       Scope = "all"
	ScopeToday     Scope = "today"
	ScopeThreeDays Scope = "3days"
	ScopeWeek      Scope = "week"
)

// Options configure one evaluation run.
type Options struct {
	Scope    Scope
	Language string
	Now      time.Time // reference date for scope filtering; zero means wall clock
}

// DayResult is the evaluated outcome for a single duty day.
type DayResult struct {
	Date         string            `json:"date"`
	DutyType     duty.Type         `json:"duty_type"`
	Status       Status            `json:"status"`
	Issues       []Issue           `json:"issues,omitempty"`
	Regulations  []string          `json:"regulations,omitempty"`
	Calculations map[string]string `json:"calculations"`
	FatigueScore int               `json:"fatigue_score"`
}

// Summary counts evaluated days by status.
type Summary struct {
	TotalDays    int `json:"total_days"`
	LegalDays    int `json:"legal_days"`
	WarningDays  int `json:"warning_days"`
	IllegalDays  int `json:"illegal_days"`
	IssuesRaised int `json:"issues_raised"`
}

// Report is the full result of one evaluation run.
type Report struct {
	Results []DayResult `json:"results"`
	Summary Summary     `json:"summary"`
}

// Engine holds the rule tables for an evaluation. The tables are read-only
// after construction, so one engine is safe for concurrent use.
type Engine struct {
	limits Limits
}

// NewEngine returns an engine using the given rule set.
func NewEngine(limits Limits) *Engine {
	return &Engine{limits: limits}
}

// dayMetrics carries the per-day core numbers between the two evaluation
// passes. A value of -1 means the underlying fields were absent or malformed
// and the metric is unknown.
type dayMetrics struct {
	fdp        int
	sectors    int
	maxFDP     int
	flightTime int
	dutyTime   int
}

// Evaluate runs the rule set over the duty sequence. Any unexpected internal
// failure is caught at this boundary and returned as a single error so a run
// is never partially applied.
func (e *Engine) Evaluate(duties []duty.Period, opts Options) (rep *Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			rep = nil
			err = fmt.Errorf("compliance evaluation failed: %v", r)
		}
	}()

	lang := opts.Language
	if _, ok := catalogs[lang]; !ok {
		lang = DefaultLanguage
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	days := make([]duty.Period, len(duties))
	copy(days, duties)
	duty.SortPeriods(days)

	metrics := make([]dayMetrics, len(days))
	for i := range days {
		metrics[i] = e.computeMetrics(&days[i])
	}

	rep = &Report{}
	for i := range days {
		res := e.evaluateDay(days, metrics, i, lang)
		if !inScope(&days[i], opts.Scope, now) {
			continue
		}
		rep.Results = append(rep.Results, res)
		rep.Summary.TotalDays++
		rep.Summary.IssuesRaised += len(res.Issues)
		switch res.Status {
		case StatusIllegal:
			rep.Summary.IllegalDays++
		case StatusWarning:
			rep.Summary.WarningDays++
		default:
			rep.Summary.LegalDays++
		}
	}
	return rep, nil
}

// computeMetrics derives the per-day core numbers. FDP applies to flight
// duties and to standby once a call time is present; standby duty time also
// counts the waiting period before activation.
func (e *Engine) computeMetrics(p *duty.Period) dayMetrics {
	m := dayMetrics{fdp: -1, maxFDP: -1, flightTime: -1, dutyTime: -1}
	m.sectors = len(p.Flights)

	for _, f := range p.Flights {
		span, err := timeutil.SpanMinutes(f.DepartureTime, f.ArrivalTime)
		if err != nil {
			continue
		}
		if m.flightTime < 0 {
			m.flightTime = 0
		}
		m.flightTime += span
	}

	switch p.Type {
	case duty.Flight:
		if span, err := timeutil.SpanMinutes(p.StartTime(), p.OffDutyTime); err == nil {
			m.fdp = span
			m.dutyTime = span
		}
		if start, err := timeutil.ParseClock(p.StartTime()); err == nil {
			m.maxFDP = e.limits.maxFDPFor(start, m.sectors)
		}
	case duty.Standby:
		wait := -1
		waitEnd := p.OffDutyTime
		if p.CallTime != "" {
			waitEnd = p.CallTime
			if span, err := timeutil.SpanMinutes(p.CallTime, p.OffDutyTime); err == nil {
				m.fdp = span
			}
			if start, err := timeutil.ParseClock(p.CallTime); err == nil {
				m.maxFDP = e.limits.maxFDPFor(start, m.sectors)
			}
		}
		if p.StandbyStartTime != "" && waitEnd != "" {
			if span, err := timeutil.SpanMinutes(p.StandbyStartTime, waitEnd); err == nil {
				wait = span
			}
		}
		switch {
		case wait >= 0 && m.fdp >= 0:
			m.dutyTime = wait + m.fdp
		case wait >= 0:
			m.dutyTime = wait
		case m.fdp >= 0:
			m.dutyTime = m.fdp
		}
	case duty.Training, duty.Admin:
		if span, err := timeutil.SpanMinutes(p.ReportTime, p.OffDutyTime); err == nil {
			m.dutyTime = span
		}
	case duty.DayOff:
		m.dutyTime = 0
		m.flightTime = 0
	}
	return m
}

func (e *Engine) evaluateDay(days []duty.Period, metrics []dayMetrics, i int, lang string) DayResult {
	p := &days[i]
	m := metrics[i]

	res := DayResult{
		Date:         p.Date,
		DutyType:     p.Type,
		Status:       StatusLegal,
		Regulations:  regulationRefs[p.Type],
		Calculations: newCalculations(),
	}
	add := func(iss Issue) {
		res.Issues = append(res.Issues, iss)
		if rank(iss.Severity) > rank(res.Status) {
			res.Status = iss.Severity
		}
	}

	res.Calculations["sectors"] = strconv.Itoa(m.sectors)
	setDuration(res.Calculations, "fdp", m.fdp)
	setDuration(res.Calculations, "max_fdp", m.maxFDP)
	setDuration(res.Calculations, "flight_time", m.flightTime)
	setDuration(res.Calculations, "duty_time", m.dutyTime)

	if p.Type == duty.DayOff {
		res.Calculations["fatigue_score"] = "0"
		return res
	}

	// FDP against the banded maximum, three-way: within the limit, needing
	// the 1-hour extension, or beyond even that.
	if m.fdp >= 0 && m.maxFDP >= 0 {
		allowed := m.maxFDP + e.limits.ExtensionAllowance
		switch {
		case m.fdp > allowed:
			res.Calculations["extension"] = "not permitted"
			add(newIssue(lang, IssueFDPExceeded, timeutil.FormatDuration(m.fdp), timeutil.FormatDuration(m.maxFDP)))
		case m.fdp > m.maxFDP:
			res.Calculations["extension"] = "required"
			add(newIssue(lang, IssueFDPExtension, timeutil.FormatDuration(m.fdp), timeutil.FormatDuration(m.maxFDP)))
		default:
			res.Calculations["extension"] = "not required"
			if m.fdp > m.maxFDP-e.limits.CloseToLimitMargin {
				add(newIssue(lang, IssueFDPCloseToLimit, timeutil.FormatDuration(m.fdp), timeutil.FormatDuration(m.maxFDP)))
			}
		}
	}

	// Rest since the previous duty. The minimum rises when the previous day
	// itself ran close enough to its ceiling to count as extended.
	if i > 0 {
		prev := &days[i-1]
		pm := metrics[i-1]
		restStart := p.StartTime()
		if p.Type == duty.Standby && p.StandbyStartTime != "" {
			restStart = p.StandbyStartTime
		}
		if prev.OffDutyTime != "" && restStart != "" {
			if rest, err := timeutil.SpanMinutes(prev.OffDutyTime, restStart); err == nil {
				minRest := e.limits.StandardRest
				if pm.fdp >= 0 && pm.maxFDP >= 0 && pm.maxFDP-pm.fdp <= e.limits.ExtendedRestTrigger {
					minRest = e.limits.ExtendedRest
				}
				res.Calculations["rest"] = timeutil.FormatDuration(rest)
				res.Calculations["min_rest"] = timeutil.FormatDuration(minRest)
				if rest < minRest {
					add(newIssue(lang, IssueRestInsufficient, timeutil.FormatDuration(rest), timeutil.FormatDuration(minRest)))
				}
			}
		}
	}

	if m.flightTime > e.limits.DailyFlightTime {
		add(newIssue(lang, IssueDailyFlightTime, timeutil.FormatDuration(m.flightTime), timeutil.FormatDuration(e.limits.DailyFlightTime)))
	}

	e.checkWindows(days, metrics, i, lang, &res, add)

	score := fatigueScore(*p, m.sectors, e.limits)
	res.FatigueScore = score
	res.Calculations["fatigue_score"] = strconv.Itoa(score)
	if score >= e.limits.FatigueWarnScore {
		add(newIssue(lang, IssueHighFatigueRisk, strconv.Itoa(score), strconv.Itoa(e.limits.FatigueWarnScore)))
	}

	if start, err := timeutil.ParseClock(p.StartTime()); err == nil {
		hour := start / 60
		if hour >= 22 || hour <= 6 {
			add(newIssue(lang, IssueNightDuty, timeutil.FormatClock(start)))
		}
	}
	if m.sectors >= e.limits.HighSectorCount {
		add(newIssue(lang, IssueHighSectorCount, strconv.Itoa(m.sectors), strconv.Itoa(e.limits.HighSectorCount)))
	}

	consecutive := consecutiveDuties(days, i)
	res.Calculations["consecutive_duties"] = strconv.Itoa(consecutive)
	if consecutive > e.limits.MaxConsecutiveDuties {
		add(newIssue(lang, IssueConsecutiveDuties, strconv.Itoa(consecutive), strconv.Itoa(e.limits.MaxConsecutiveDuties)))
	}

	return res
}

// checkWindows evaluates the cumulative flight and duty totals whose windows
// end on day i. Each breach raises its own issue independent of the per-day
// checks.
func (e *Engine) checkWindows(days []duty.Period, metrics []dayMetrics, i int, lang string, res *DayResult, add func(Issue)) {
	date := days[i].Day()
	if date.IsZero() {
		return
	}
	weekStart := date.AddDate(0, 0, -6)
	fortnightStart := date.AddDate(0, 0, -13)

	var weeklyFlight, monthlyFlight, yearlyFlight int
	var weeklyDuty, fortnightlyDuty int
	for j := 0; j <= i; j++ {
		d := days[j].Day()
		if d.IsZero() || d.After(date) {
			continue
		}
		ft := metrics[j].flightTime
		dt := metrics[j].dutyTime
		if ft > 0 {
			if !d.Before(weekStart) {
				weeklyFlight += ft
			}
			if d.Year() == date.Year() {
				yearlyFlight += ft
				if d.Month() == date.Month() {
					monthlyFlight += ft
				}
			}
		}
		if dt > 0 {
			if !d.Before(weekStart) {
				weeklyDuty += dt
			}
			if !d.Before(fortnightStart) {
				fortnightlyDuty += dt
			}
		}
	}

	res.Calculations["weekly_flight_time"] = timeutil.FormatDuration(weeklyFlight)
	res.Calculations["monthly_flight_time"] = timeutil.FormatDuration(monthlyFlight)
	res.Calculations["yearly_flight_time"] = timeutil.FormatDuration(yearlyFlight)
	res.Calculations["weekly_duty_time"] = timeutil.FormatDuration(weeklyDuty)
	res.Calculations["fortnightly_duty_time"] = timeutil.FormatDuration(fortnightlyDuty)

	if weeklyFlight > e.limits.WeeklyFlightTime {
		add(newIssue(lang, IssueWeeklyFlightTime, timeutil.FormatDuration(weeklyFlight), timeutil.FormatDuration(e.limits.WeeklyFlightTime)))
	}
	if monthlyFlight > e.limits.MonthlyFlightTime {
		add(newIssue(lang, IssueMonthlyFlightTime, timeutil.FormatDuration(monthlyFlight), timeutil.FormatDuration(e.limits.MonthlyFlightTime)))
	}
	if yearlyFlight > e.limits.YearlyFlightTime {
		add(newIssue(lang, IssueYearlyFlightTime, timeutil.FormatDuration(yearlyFlight), timeutil.FormatDuration(e.limits.YearlyFlightTime)))
	}
	if weeklyDuty > e.limits.WeeklyDutyTime {
		add(newIssue(lang, IssueWeeklyDutyTime, timeutil.FormatDuration(weeklyDuty), timeutil.FormatDuration(e.limits.WeeklyDutyTime)))
	}
	if fortnightlyDuty > e.limits.FortnightlyDutyTime {
		add(newIssue(lang, IssueFortnightlyDutyTime, timeutil.FormatDuration(fortnightlyDuty), timeutil.FormatDuration(e.limits.FortnightlyDutyTime)))
	}
}

// newCalculations seeds every metric key so that an absent or malformed field
// surfaces as a visible placeholder instead of a missing entry.
func newCalculations() map[string]string {
	return map[string]string{
		"fdp":                   "N/A",
		"max_fdp":               "N/A",
		"flight_time":           "N/A",
		"duty_time":             "N/A",
		"rest":                  "N/A",
		"min_rest":              "N/A",
		"extension":             "N/A",
		"sectors":               "0",
		"weekly_flight_time":    "N/A",
		"monthly_flight_time":   "N/A",
		"yearly_flight_time":    "N/A",
		"weekly_duty_time":      "N/A",
		"fortnightly_duty_time": "N/A",
		"consecutive_duties":    "N/A",
		"fatigue_score":         "N/A",
	}
}

func setDuration(calcs map[string]string, key string, minutes int) {
	if minutes >= 0 {
		calcs[key] = timeutil.FormatDuration(minutes)
	}
}

func inScope(p *duty.Period, scope Scope, now time.Time) bool {
	var horizon int
	switch scope {
	case ScopeToday:
		horizon = 0
	case ScopeThreeDays:
		horizon = 2
	case ScopeWeek:
		horizon = 6
	default:
		return true
	}
	d := p.Day()
	if d.IsZero() {
		return true
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(today) && !d.After(today.AddDate(0, 0, horizon))
}
