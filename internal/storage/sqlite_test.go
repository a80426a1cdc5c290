package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func archive(t *testing.T, db *DB, crew, format string, success bool, raw string) int64 {
	t.Helper()
	id, err := db.Insert(InsertParams{
		ReceivedAt: time.Date(2026, 8, 7, 12, 0, 0, 0, time.UTC),
		CrewID:     crew,
		Format:     format,
		Success:    success,
		DutyDays:   3,
		Segments:   4,
		RawText:    raw,
		Result:     map[string]bool{"success": success},
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return id
}

func TestInsertAndGetByID(t *testing.T) {
	db := testDB(t)

	id := archive(t, db, "OE-123", "line_structured", true, "Sat07 C/I VIE 1200")

	got, err := db.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("roster not found")
	}
	if got.CrewID != "OE-123" || got.Format != "line_structured" || !got.Success {
		t.Errorf("roster = %+v", got)
	}
	if got.DutyDays != 3 || got.Segments != 4 {
		t.Errorf("counts = %d days, %d segments", got.DutyDays, got.Segments)
	}
	if !strings.Contains(got.ResultJSON, "success") {
		t.Errorf("ResultJSON = %q", got.ResultJSON)
	}

	missing, err := db.GetByID(9999)
	if err != nil {
		t.Fatalf("GetByID(missing): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing id, got %+v", missing)
	}
}

func TestQueryFilters(t *testing.T) {
	db := testDB(t)

	archive(t, db, "OE-123", "line_structured", true, "Sat07 C/I VIE 1200")
	archive(t, db, "OE-123", "calendar_grid", false, "Mo Tu We Th Fr Sa Su")
	archive(t, db, "OE-456", "line_structured", true, "Sun08 C/I VIE 0600")

	byCrew, err := db.Query(QueryParams{CrewID: "OE-123"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(byCrew) != 2 {
		t.Errorf("crew filter: got %d, want 2", len(byCrew))
	}

	byFormat, err := db.Query(QueryParams{Format: "calendar_grid"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(byFormat) != 1 || byFormat[0].Success {
		t.Errorf("format filter: %+v", byFormat)
	}

	failed, err := db.Query(QueryParams{FailedOnly: true})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(failed) != 1 || failed[0].Format != "calendar_grid" {
		t.Errorf("failed filter: %+v", failed)
	}

	limited, err := db.Query(QueryParams{Limit: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit: got %d, want 2", len(limited))
	}
}

func TestQueryFullText(t *testing.T) {
	db := testDB(t)

	archive(t, db, "OE-123", "line_structured", true, "Sat07 C/I VIE 1200 OS 655")
	archive(t, db, "OE-456", "line_structured", true, "Sun08 C/I FRA 0600 LH 441")

	hits, err := db.Query(QueryParams{FullText: "VIE"})
	if err != nil {
		t.Fatalf("Query(FullText): %v", err)
	}
	if len(hits) != 1 || hits[0].CrewID != "OE-123" {
		t.Errorf("full-text search: %+v", hits)
	}

	// Filters compose with the text match.
	none, err := db.Query(QueryParams{FullText: "VIE", CrewID: "OE-456"})
	if err != nil {
		t.Fatalf("Query(FullText+crew): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("composed filter should be empty: %+v", none)
	}
}

func TestGetStats(t *testing.T) {
	db := testDB(t)

	archive(t, db, "OE-123", "line_structured", true, "a")
	archive(t, db, "OE-123", "line_structured", false, "b")
	archive(t, db, "OE-456", "calendar_grid", true, "c")

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalRosters != 3 {
		t.Errorf("TotalRosters = %d, want 3", stats.TotalRosters)
	}
	if stats.Failed != 1 {
		t.Errorf("Failed = %d, want 1", stats.Failed)
	}
	if stats.TotalDays != 9 {
		t.Errorf("TotalDays = %d, want 9", stats.TotalDays)
	}
	if stats.ByFormat["line_structured"] != 2 || stats.ByFormat["calendar_grid"] != 1 {
		t.Errorf("ByFormat = %v", stats.ByFormat)
	}

	counts, err := db.CountByFormat()
	if err != nil {
		t.Fatalf("CountByFormat: %v", err)
	}
	if counts["line_structured"] != 2 {
		t.Errorf("CountByFormat = %v", counts)
	}
}
