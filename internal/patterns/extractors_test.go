package patterns

import (
	"reflect"
	"strings"
	"testing"
)

func TestBareDayNumbers(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []int
	}{
		{
			name: "plain day row",
			line: "9 10 11 12",
			want: []int{9, 10, 11, 12},
		},
		{
			name: "clock values excluded",
			line: "06:15-14:30",
			want: nil,
		},
		{
			name: "day beside clock",
			line: "9 VIE 06:15 - 14:30 AMS",
			want: []int{9},
		},
		{
			name: "out of range",
			line: "0 32 99 31 1",
			want: []int{31, 1},
		},
		{
			name: "long runs rejected",
			line: "2026 0915 15",
			want: []int{15},
		},
		{
			name: "empty line",
			line: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BareDayNumbers(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BareDayNumbers(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestStripLayovers(t *testing.T) {
	in := "OS 411 VIE 18:25 - 20:39 AMS AMS 20:39 - 05:45 (9:06) OS 412 AMS 06:45 - 08:55 VIE"
	out := StripLayovers(in)

	if strings.Contains(out, "(9:06)") {
		t.Errorf("layover survived stripping: %q", out)
	}
	ranges := FlightRanges(out)
	if len(ranges) != 2 {
		t.Fatalf("got %d flight ranges after stripping, want 2: %+v", len(ranges), ranges)
	}
	if ranges[0].Departure != "VIE" || ranges[1].Departure != "AMS" {
		t.Errorf("unexpected departures: %q, %q", ranges[0].Departure, ranges[1].Departure)
	}
}

func TestFlightRanges(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []FlightRange
	}{
		{
			name: "with flight number",
			text: "OS 655 VIE 13:14 - 14:54 RMO",
			want: []FlightRange{{
				Airline:       "OS",
				Number:        "655",
				Departure:     "VIE",
				DepartureTime: "13:14",
				ArrivalTime:   "14:54",
				Arrival:       "RMO",
			}},
		},
		{
			name: "without flight number",
			text: "VIE 06:10 - 07:45 FRA",
			want: []FlightRange{{
				Departure:     "VIE",
				DepartureTime: "06:10",
				ArrivalTime:   "07:45",
				Arrival:       "FRA",
			}},
		},
		{
			name: "suffixed flight number",
			text: "LH1234A MUC 09:00 - 10:15 TXL",
			want: []FlightRange{{
				Airline:       "LH",
				Number:        "1234A",
				Departure:     "MUC",
				DepartureTime: "09:00",
				ArrivalTime:   "10:15",
				Arrival:       "TXL",
			}},
		},
		{
			name: "no match",
			text: "C/O 20:39 [FT 5:13]",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlightRanges(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FlightRanges(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsValidAirport(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"VIE", true},
		{"AMS", true},
		{"vie", false},
		{"VIEN", false},
		{"VI", false},
		{"V1E", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidAirport(tt.code); got != tt.want {
			t.Errorf("IsValidAirport(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestMonthNumber(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"JANUARY", 1},
		{"Aug", 8},
		{"december", 12},
		{"SEPT", 9},
		{"XYZ", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := MonthNumber(tt.name); got != tt.want {
			t.Errorf("MonthNumber(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}
