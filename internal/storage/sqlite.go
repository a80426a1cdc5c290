// Package storage persists parsed rosters and compliance results. SQLite
// holds the local roster archive, PostgreSQL the mutable crew state, and
// ClickHouse the append-only compliance analytics.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Roster represents an archived roster submission with its parse result.
type Roster struct {
	ID         int64
	ReceivedAt time.Time
	CrewID     string
	Format     string
	Success    bool
	DutyDays   int
	Segments   int
	RawText    string
	ResultJSON string
	Errors     string
}

// DB wraps a SQLite database connection for the roster archive.
type DB struct {
	db *sql.DB
}

// Open opens or creates a SQLite archive at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS rosters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		received_at TEXT NOT NULL,
		crew_id TEXT,
		format TEXT NOT NULL,
		success INTEGER NOT NULL,
		duty_days INTEGER NOT NULL,
		segments INTEGER NOT NULL,
		raw_text TEXT NOT NULL,
		result_json TEXT NOT NULL,
		errors TEXT,
		created_at TEXT DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_rosters_format ON rosters(format);
	CREATE INDEX IF NOT EXISTS idx_rosters_crew ON rosters(crew_id);
	CREATE INDEX IF NOT EXISTS idx_rosters_received ON rosters(received_at);

	-- FTS5 virtual table for full-text search on raw roster text.
	CREATE VIRTUAL TABLE IF NOT EXISTS rosters_fts USING fts5(
		raw_text,
		content='rosters',
		content_rowid='id'
	);

	-- Triggers to keep the FTS index in sync.
	CREATE TRIGGER IF NOT EXISTS rosters_ai AFTER INSERT ON rosters BEGIN
		INSERT INTO rosters_fts(rowid, raw_text) VALUES (new.id, new.raw_text);
	END;

	CREATE TRIGGER IF NOT EXISTS rosters_ad AFTER DELETE ON rosters BEGIN
		INSERT INTO rosters_fts(rosters_fts, rowid, raw_text) VALUES('delete', old.id, old.raw_text);
	END;

	CREATE TRIGGER IF NOT EXISTS rosters_au AFTER UPDATE ON rosters BEGIN
		INSERT INTO rosters_fts(rosters_fts, rowid, raw_text) VALUES('delete', old.id, old.raw_text);
		INSERT INTO rosters_fts(rowid, raw_text) VALUES (new.id, new.raw_text);
	END;
	`

	_, err := db.Exec(schema)
	return err
}

// InsertParams contains the parameters for archiving a roster.
type InsertParams struct {
	ReceivedAt time.Time
	CrewID     string
	Format     string
	Success    bool
	DutyDays   int
	Segments   int
	RawText    string
	Result     interface{}
	Errors     []string
}

// Insert archives a parsed roster.
func (d *DB) Insert(p InsertParams) (int64, error) {
	resultJSON, err := json.Marshal(p.Result)
	if err != nil {
		return 0, fmt.Errorf("marshal result: %w", err)
	}

	success := 0
	if p.Success {
		success = 1
	}

	result, err := d.db.Exec(`
		INSERT INTO rosters (received_at, crew_id, format, success, duty_days, segments, raw_text, result_json, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ReceivedAt.Format(time.RFC3339), p.CrewID, p.Format, success, p.DutyDays, p.Segments, p.RawText, string(resultJSON), strings.Join(p.Errors, "\n"))
	if err != nil {
		return 0, fmt.Errorf("insert roster: %w", err)
	}

	return result.LastInsertId()
}

// QueryParams contains filtering options for querying archived rosters.
type QueryParams struct {
	ID          int64  // Filter by specific roster ID.
	CrewID      string // Filter by crew member (exact match).
	Format      string // Filter by detected format (exact match).
	FailedOnly  bool   // Only rosters whose parse did not succeed.
	FullText    string // FTS5 full-text search on raw_text.
	Limit       int    // Max results (default 100).
	Offset      int    // Pagination offset.
	NewestFirst bool   // Sort by received_at descending.
}

// Query retrieves archived rosters matching the given parameters.
func (d *DB) Query(p QueryParams) ([]Roster, error) {
	var conditions []string
	var args []interface{}

	if p.ID != 0 {
		conditions = append(conditions, "id = ?")
		args = append(args, p.ID)
	}
	if p.CrewID != "" {
		conditions = append(conditions, "crew_id = ?")
		args = append(args, p.CrewID)
	}
	if p.Format != "" {
		conditions = append(conditions, "format = ?")
		args = append(args, p.Format)
	}
	if p.FailedOnly {
		conditions = append(conditions, "success = 0")
	}

	// FTS5 search requires a JOIN with the virtual table.
	var query string
	if p.FullText != "" {
		query = `SELECT r.id, r.received_at, r.crew_id, r.format, r.success, r.duty_days, r.segments, r.raw_text, r.result_json, r.errors
				FROM rosters r
				JOIN rosters_fts fts ON r.id = fts.rowid
				WHERE rosters_fts MATCH ?`
		args = append([]interface{}{p.FullText}, args...)
		if len(conditions) > 0 {
			query += " AND " + strings.Join(conditions, " AND ")
		}
	} else {
		query = `SELECT id, received_at, crew_id, format, success, duty_days, segments, raw_text, result_json, errors
				FROM rosters`
		if len(conditions) > 0 {
			query += " WHERE " + strings.Join(conditions, " AND ")
		}
	}

	order := "ASC"
	if p.NewestFirst {
		order = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY received_at %s", order)

	limit := 100
	if p.Limit > 0 {
		limit = p.Limit
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, p.Offset)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rosters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rosters []Roster
	for rows.Next() {
		var r Roster
		var received string
		var crewID, errText sql.NullString
		var success int

		err := rows.Scan(&r.ID, &received, &crewID, &r.Format, &success, &r.DutyDays, &r.Segments, &r.RawText, &r.ResultJSON, &errText)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		r.ReceivedAt, _ = time.Parse(time.RFC3339, received)
		r.Success = success == 1
		if crewID.Valid {
			r.CrewID = crewID.String
		}
		if errText.Valid {
			r.Errors = errText.String
		}
		rosters = append(rosters, r)
	}

	return rosters, rows.Err()
}

// GetByID retrieves a single archived roster.
func (d *DB) GetByID(id int64) (*Roster, error) {
	rosters, err := d.Query(QueryParams{ID: id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rosters) == 0 {
		return nil, nil
	}
	return &rosters[0], nil
}

// Stats contains aggregate statistics about the archive.
type Stats struct {
	TotalRosters int
	ByFormat     map[string]int
	Failed       int
	TotalDays    int
}

// GetStats returns statistics about the archived rosters.
func (d *DB) GetStats() (*Stats, error) {
	stats := &Stats{ByFormat: make(map[string]int)}

	row := d.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(duty_days), 0) FROM rosters")
	if err := row.Scan(&stats.TotalRosters, &stats.TotalDays); err != nil {
		return nil, err
	}

	rows, err := d.db.Query("SELECT format, COUNT(*) FROM rosters GROUP BY format ORDER BY COUNT(*) DESC")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var format string
		var count int
		if err := rows.Scan(&format, &count); err != nil {
			_ = rows.Close()
			return nil, err
		}
		stats.ByFormat[format] = count
	}
	_ = rows.Close()

	row = d.db.QueryRow("SELECT COUNT(*) FROM rosters WHERE success = 0")
	if err := row.Scan(&stats.Failed); err != nil {
		return nil, err
	}

	return stats, nil
}

// CountByFormat returns roster counts grouped by detected format.
func (d *DB) CountByFormat() (map[string]int, error) {
	counts := make(map[string]int)
	rows, err := d.db.Query("SELECT format, COUNT(*) FROM rosters GROUP BY format")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var format string
		var count int
		if err := rows.Scan(&format, &count); err != nil {
			return nil, err
		}
		counts[format] = count
	}
	return counts, rows.Err()
}
