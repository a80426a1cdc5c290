package standby

import (
	"testing"

	"ftl_checker/internal/duty"
)

func board(num, dep, status string) duty.BoardFlight {
	return duty.BoardFlight{
		FlightNumber: num,
		Departure:    "VIE",
		Arrival:      "FRA",
		ScheduledDep: dep,
		Status:       status,
	}
}

func TestComputeWindowAndLead(t *testing.T) {
	flights := []duty.BoardFlight{
		board("OS100", "07:00", "SCHEDULED"), // call 05:30, before window
		board("OS200", "09:00", "SCHEDULED"), // call 07:30, coverable
		board("OS300", "19:00", "SCHEDULED"), // call 17:30, coverable
		board("OS400", "20:00", "SCHEDULED"), // call 18:30, after window
	}

	av := Compute(flights, Options{WindowStart: "06:00", WindowEnd: "18:00"})

	if av.Total != 2 {
		t.Fatalf("Total = %d, want 2: %+v", av.Total, av.Candidates)
	}
	if av.Candidates[0].Flight.FlightNumber != "OS200" || av.Candidates[0].LatestCallTime != "07:30" {
		t.Errorf("candidate 0 = %+v", av.Candidates[0])
	}
	if av.Candidates[1].Flight.FlightNumber != "OS300" || av.Candidates[1].LatestCallTime != "17:30" {
		t.Errorf("candidate 1 = %+v", av.Candidates[1])
	}
}

func TestComputeCustomLead(t *testing.T) {
	flights := []duty.BoardFlight{board("OS100", "07:00", "SCHEDULED")}

	// With a 30 minute lead the 07:00 departure becomes coverable.
	av := Compute(flights, Options{WindowStart: "06:00", WindowEnd: "18:00", CallLeadMinutes: 30})
	if av.Total != 1 {
		t.Fatalf("Total = %d, want 1", av.Total)
	}
	if av.Candidates[0].LatestCallTime != "06:30" {
		t.Errorf("LatestCallTime = %s, want 06:30", av.Candidates[0].LatestCallTime)
	}
}

func TestComputeUncoverableStatuses(t *testing.T) {
	flights := []duty.BoardFlight{
		board("OS100", "10:00", "DEPARTED"),
		board("OS200", "10:00", "ARRIVED"),
		board("OS300", "10:00", "CANCELLED"),
		board("OS400", "10:00", "DELAYED"),
	}

	av := Compute(flights, Options{WindowStart: "06:00", WindowEnd: "18:00"})

	if av.Total != 1 {
		t.Fatalf("Total = %d, want 1: %+v", av.Total, av.Candidates)
	}
	if av.Candidates[0].Flight.FlightNumber != "OS400" {
		t.Errorf("candidate = %+v", av.Candidates[0])
	}
}

func TestComputeEstimatedDepWins(t *testing.T) {
	f := board("OS100", "17:00", "DELAYED")
	f.EstimatedDep = "19:45"

	// Scheduled at 17:00 the call fits; the delay pushes it past the window.
	av := Compute([]duty.BoardFlight{f}, Options{WindowStart: "06:00", WindowEnd: "18:00"})
	if av.Total != 0 {
		t.Fatalf("Total = %d, want 0: %+v", av.Total, av.Candidates)
	}
}

func TestComputeOvernightWindow(t *testing.T) {
	flights := []duty.BoardFlight{
		board("OS100", "23:50", "SCHEDULED"), // call 22:20, inside
		board("OS200", "05:00", "SCHEDULED"), // call 03:30 next day, inside
		board("OS300", "12:00", "SCHEDULED"), // call 10:30, outside
	}

	av := Compute(flights, Options{WindowStart: "20:00", WindowEnd: "06:00"})

	if av.Total != 2 {
		t.Fatalf("Total = %d, want 2: %+v", av.Total, av.Candidates)
	}
	if av.Candidates[0].LatestCallTime != "22:20" {
		t.Errorf("candidate 0 call = %s, want 22:20", av.Candidates[0].LatestCallTime)
	}
	if av.Candidates[1].LatestCallTime != "03:30" {
		t.Errorf("candidate 1 call = %s, want 03:30", av.Candidates[1].LatestCallTime)
	}
}

func TestComputeMalformedInputs(t *testing.T) {
	av := Compute([]duty.BoardFlight{board("OS100", "10:00", "SCHEDULED")}, Options{WindowStart: "bogus", WindowEnd: "18:00"})
	if av.Total != 0 {
		t.Errorf("malformed window should yield no candidates, got %d", av.Total)
	}

	av = Compute([]duty.BoardFlight{board("OS100", "??:??", "SCHEDULED")}, Options{WindowStart: "06:00", WindowEnd: "18:00"})
	if av.Total != 0 {
		t.Errorf("malformed departure should be skipped, got %d", av.Total)
	}
}
