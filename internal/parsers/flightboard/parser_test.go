package flightboard

import (
	"strings"
	"testing"

	"ftl_checker/internal/duty"
)

func TestParseExampleInput(t *testing.T) {
	p := &Parser{}
	res := p.Parse(p.ExampleInput())

	if !res.Success {
		t.Fatalf("parse failed: %v", res.Errors)
	}
	if len(res.Flights) != 3 {
		t.Fatalf("got %d flights, want 3", len(res.Flights))
	}

	want := []duty.BoardFlight{
		{FlightNumber: "OS321", Departure: "VIE", Arrival: "FRA", ScheduledDep: "06:15", EstimatedDep: "06:15", Status: "BOARDING", AircraftType: "A320"},
		{FlightNumber: "OS655", Departure: "VIE", Arrival: "RMO", ScheduledDep: "13:14", EstimatedDep: "13:30", Status: "DELAYED", AircraftType: "A220"},
		{FlightNumber: "OS901", Departure: "VIE", Arrival: "JFK", ScheduledDep: "10:05", Status: "SCHEDULED"},
	}
	for i, w := range want {
		if res.Flights[i] != w {
			t.Errorf("flight %d = %+v, want %+v", i, res.Flights[i], w)
		}
	}
}

func TestParseCompactRow(t *testing.T) {
	p := &Parser{}
	res := p.Parse("OS321 VIE-FRA 0615 DEPARTED")

	if len(res.Flights) != 1 {
		t.Fatalf("got %d flights, want 1: %v", len(res.Flights), res.Errors)
	}
	f := res.Flights[0]
	if f.FlightNumber != "OS321" || f.Departure != "VIE" || f.Arrival != "FRA" {
		t.Errorf("flight = %+v", f)
	}
	// Compact times come out canonical.
	if f.ScheduledDep != "06:15" {
		t.Errorf("ScheduledDep = %s, want 06:15", f.ScheduledDep)
	}
	if f.Status != "DEPARTED" {
		t.Errorf("Status = %s, want DEPARTED", f.Status)
	}
}

func TestParseHeaderSkipped(t *testing.T) {
	input := strings.Join([]string{
		"FLIGHT  DEP  ARR  STD    STATUS",
		"OS 100  VIE  LHR  07:00  SCHEDULED",
	}, "\n")

	p := &Parser{}
	res := p.Parse(input)

	if len(res.Flights) != 1 {
		t.Fatalf("got %d flights, want 1: %v", len(res.Flights), res.Errors)
	}
	for _, e := range res.Errors {
		if strings.Contains(e, "FLIGHT") {
			t.Errorf("header produced an error: %s", e)
		}
	}
}

func TestParseUnrecognisedRow(t *testing.T) {
	input := strings.Join([]string{
		"OS 100  VIE  LHR  07:00  SCHEDULED",
		"not a board row at all",
	}, "\n")

	p := &Parser{}
	res := p.Parse(input)

	if !res.Success {
		t.Fatal("one good row should still succeed")
	}
	found := false
	for _, e := range res.Errors {
		if strings.Contains(e, "line 2") && strings.Contains(e, "unrecognised") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an unrecognised-row error for line 2, got %v", res.Errors)
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := &Parser{}
	res := p.Parse("")

	if res.Success {
		t.Error("expected failure on empty input")
	}
	if len(res.Errors) == 0 {
		t.Error("expected a no-flight-rows error")
	}
}
