package patterns

import "testing"

func testCompiler(t *testing.T) *Compiler {
	t.Helper()
	c := NewCompiler([]Format{
		{Name: "hop", Pattern: `^(?P<dep>{AIRPORT})-(?P<arr>{AIRPORT})\s+(?P<std>{CLOCK})$`},
		{Name: "bare", Pattern: `^(?P<code>{AIRPORT})$`},
	}, nil)
	if err := c.Compile(); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return c
}

func TestCompilerParse(t *testing.T) {
	c := testCompiler(t)

	m := c.Parse("VIE-FRA 06:15")
	if m == nil {
		t.Fatal("expected a match")
	}
	if m.FormatName != "hop" {
		t.Errorf("FormatName = %s, want hop", m.FormatName)
	}
	if m.GetCapture("dep", "") != "VIE" || m.GetCapture("arr", "") != "FRA" {
		t.Errorf("captures = %v", m.Captures)
	}
	if got := m.GetCapture("missing", "dflt"); got != "dflt" {
		t.Errorf("GetCapture default = %q, want dflt", got)
	}

	if c.Parse("no match here") != nil {
		t.Error("expected nil for unmatched text")
	}
}

func TestCompilerFormatOrder(t *testing.T) {
	c := testCompiler(t)

	// Formats are tried in declaration order; the first match wins.
	m := c.Parse("VIE")
	if m == nil || m.FormatName != "bare" {
		t.Fatalf("match = %+v, want bare", m)
	}
}

func TestCompilerLocalOverride(t *testing.T) {
	c := NewCompiler([]Format{
		{Name: "row", Pattern: `^(?P<code>{AIRPORT})$`},
	}, map[string]string{"AIRPORT": `[A-Z]{4}`})
	if err := c.Compile(); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if c.Parse("VIE") != nil {
		t.Error("override should reject 3-letter codes")
	}
	if c.Parse("LOWW") == nil {
		t.Error("override should accept 4-letter codes")
	}
}

func TestCompilerFindAllMatches(t *testing.T) {
	c := testCompiler(t)

	text := "VIE-FRA 06:15"
	got := c.FindAllMatches(text, "hop")
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	if got[0]["std"] != "06:15" {
		t.Errorf("std = %q, want 06:15", got[0]["std"])
	}

	if c.FindAllMatches(text, "nonexistent") != nil {
		t.Error("unknown format should yield nil")
	}
}

func TestCompilerBadPattern(t *testing.T) {
	c := NewCompiler([]Format{{Name: "broken", Pattern: `([unclosed`}}, nil)
	if err := c.Compile(); err == nil {
		t.Error("expected a compile error")
	}
}

func TestCompilerTraceAll(t *testing.T) {
	c := testCompiler(t)

	traces := c.TraceAll("VIE-FRA 06:15")
	if len(traces) != 2 {
		t.Fatalf("got %d traces, want 2", len(traces))
	}
	if !traces[0].Matched || traces[0].Captures["dep"] != "VIE" {
		t.Errorf("hop trace = %+v", traces[0])
	}
	if traces[1].Matched {
		t.Errorf("bare should not match: %+v", traces[1])
	}
}
