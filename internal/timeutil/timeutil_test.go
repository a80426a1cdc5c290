package timeutil

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"06:15", 375, false},
		{"23:59", 1439, false},
		{"0615", 375, false},
		{"1200", 720, false},
		{" 12:00 ", 720, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"615", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSpanMinutes(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{"same day", "12:00", "20:39", 519},
		{"overnight", "22:00", "06:00", 480},
		{"zero span", "09:00", "09:00", 0},
		{"one minute before midnight", "23:59", "00:01", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SpanMinutes(tt.start, tt.end)
			if err != nil {
				t.Fatalf("SpanMinutes(%q, %q): %v", tt.start, tt.end, err)
			}
			if got != tt.want {
				t.Errorf("SpanMinutes(%q, %q) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
		})
	}

	if _, err := SpanMinutes("25:00", "06:00"); err == nil {
		t.Error("expected error for malformed start")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0:00"},
		{519, "8:39"},
		{780, "13:00"},
		{3780, "63:00"},
		{-1, "N/A"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestClockHour(t *testing.T) {
	if got := ClockHour("05:59"); got != 5 {
		t.Errorf("ClockHour(05:59) = %d, want 5", got)
	}
	if got := ClockHour("bogus"); got != -1 {
		t.Errorf("ClockHour(bogus) = %d, want -1", got)
	}
}

func TestNormalizeLocal(t *testing.T) {
	date := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)

	// Local input is only reformatted, never shifted.
	n := Normalize("1314", date, "VIE", false, "UTC")
	if n.Clock != "13:14" {
		t.Errorf("Clock = %q, want 13:14", n.Clock)
	}
	if !n.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", n.Date, date)
	}
}

func TestNormalizeUTC(t *testing.T) {
	// August, so Vienna is UTC+2 and the conversion can cross midnight.
	date := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)

	n := Normalize("0915", date, "VIE", true, "UTC")
	if n.Clock != "11:15" {
		t.Errorf("Clock = %q, want 11:15", n.Clock)
	}
	if !n.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", n.Date, date)
	}

	n = Normalize("23:30", date, "VIE", true, "UTC")
	if n.Clock != "01:30" {
		t.Errorf("Clock = %q, want 01:30", n.Clock)
	}
	next := date.AddDate(0, 0, 1)
	if !n.Date.Equal(next) {
		t.Errorf("Date = %v, want %v after rollover", n.Date, next)
	}
}

func TestNormalizeUnknownAirportUsesDefault(t *testing.T) {
	date := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)

	n := Normalize("12:00", date, "XXX", true, "Europe/Vienna")
	if n.Clock != "14:00" {
		t.Errorf("Clock = %q, want 14:00", n.Clock)
	}
}

func TestNormalizeMalformedClock(t *testing.T) {
	date := time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC)

	n := Normalize("9999", date, "VIE", true, "UTC")
	if n.Clock != "9999" {
		t.Errorf("malformed token should pass through, got %q", n.Clock)
	}
}

func TestResolveRosterDate(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		day  int
		want time.Time
	}{
		{"later this month", 25, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)},
		{"today", 20, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
		{"already passed rolls to next month", 7, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)},
		{"end of month", 31, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRosterDate(tt.day, now)
			if !got.Equal(tt.want) {
				t.Errorf("ResolveRosterDate(%d) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}

	// Passed day whose next month lacks it falls back to the current month.
	got := ResolveRosterDate(29, time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC))
	want := time.Date(2026, 1, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ResolveRosterDate(29) = %v, want %v", got, want)
	}
}
