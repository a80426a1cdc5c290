// Package standby computes which flights on a flight board a home-standby
// crew member could realistically be activated for. It is independent of the
// compliance engine.
package standby

import (
	"ftl_checker/internal/duty"
	"ftl_checker/internal/timeutil"
)

// DefaultCallLeadMinutes is the minimum gap between a standby call and the
// covered flight's departure: travel to the airport plus briefing.
const DefaultCallLeadMinutes = 90

// Options configure an availability computation.
type Options struct {
	WindowStart     string // standby window start, HH:MM
	WindowEnd       string // standby window end, HH:MM
	CallLeadMinutes int    // 0 means DefaultCallLeadMinutes
}

// Candidate is one coverable flight with its latest possible call time.
type Candidate struct {
	Flight         duty.BoardFlight `json:"flight"`
	LatestCallTime string           `json:"latest_call_time"` // HH:MM
}

// Availability reports the outcome for one standby window.
type Availability struct {
	WindowStart string      `json:"window_start"`
	WindowEnd   string      `json:"window_end"`
	Candidates  []Candidate `json:"candidates,omitempty"`
	Total       int         `json:"total"`
}

// statuses that no longer need crew.
var uncoverable = map[string]bool{
	"DEPARTED":  true,
	"ARRIVED":   true,
	"CANCELLED": true,
}

// Compute returns the flights whose departure falls inside the standby
// window with enough lead time for an activation call. Board rows with
// malformed times are skipped rather than failing the computation.
func Compute(flights []duty.BoardFlight, opts Options) Availability {
	lead := opts.CallLeadMinutes
	if lead <= 0 {
		lead = DefaultCallLeadMinutes
	}

	av := Availability{
		WindowStart: opts.WindowStart,
		WindowEnd:   opts.WindowEnd,
	}

	winStart, err := timeutil.ParseClock(opts.WindowStart)
	if err != nil {
		return av
	}
	winEnd, err := timeutil.ParseClock(opts.WindowEnd)
	if err != nil {
		return av
	}
	if winEnd < winStart {
		// Overnight standby window.
		winEnd += 24 * 60
	}

	for _, f := range flights {
		if uncoverable[f.Status] {
			continue
		}
		depClock := f.ScheduledDep
		if f.EstimatedDep != "" {
			depClock = f.EstimatedDep
		}
		dep, err := timeutil.ParseClock(depClock)
		if err != nil {
			continue
		}
		if dep < winStart {
			dep += 24 * 60
		}

		// The call must land inside the window, lead minutes before
		// departure.
		call := dep - lead
		if call < winStart || call > winEnd {
			continue
		}
		av.Candidates = append(av.Candidates, Candidate{
			Flight:         f,
			LatestCallTime: timeutil.FormatClock(call),
		})
	}

	av.Total = len(av.Candidates)
	return av
}
