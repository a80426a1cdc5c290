package airports

import "testing"

func TestZone(t *testing.T) {
	tests := []struct {
		code   string
		want   string
		wantOK bool
	}{
		{"VIE", "Europe/Vienna", true},
		{"AMS", "Europe/Amsterdam", true},
		{"RMO", "Europe/Chisinau", true},
		{"JFK", "America/New_York", true},
		{"XXX", "", false},
		{"vie", "", false},
	}

	for _, tt := range tests {
		got, ok := Zone(tt.code)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Zone(%q) = (%q, %v), want (%q, %v)", tt.code, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestZoneOrDefault(t *testing.T) {
	if got := ZoneOrDefault("LHR", "Europe/Paris"); got != "Europe/London" {
		t.Errorf("known code ignored fallback: %q", got)
	}
	if got := ZoneOrDefault("ZZZ", "Europe/Paris"); got != "Europe/Paris" {
		t.Errorf("unknown code did not use fallback: %q", got)
	}
	if got := ZoneOrDefault("ZZZ", ""); got != DefaultZone {
		t.Errorf("empty fallback did not resolve to default: %q", got)
	}
}

func TestKnown(t *testing.T) {
	if !Known("FRA") {
		t.Error("FRA should be known")
	}
	if Known("Q0Q") {
		t.Error("Q0Q should be unknown")
	}
}
