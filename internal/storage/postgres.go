package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ftl_checker/internal/duty"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// PostgresDB wraps a PostgreSQL connection pool for crew state storage.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Test the connection.
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (d *PostgresDB) Close() {
	d.pool.Close()
}

// CreateSchema creates the PostgreSQL tables.
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	schema := `
	-- Crew members known to the system
	CREATE TABLE IF NOT EXISTS crew (
		crew_id         TEXT PRIMARY KEY,
		name            TEXT,
		home_base       TEXT,
		first_seen      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		roster_count    INTEGER NOT NULL DEFAULT 1
	);

	-- Current duty state per crew member and calendar day. A re-submitted
	-- roster replaces the day in place.
	CREATE TABLE IF NOT EXISTS duty_periods (
		crew_id             TEXT NOT NULL REFERENCES crew(crew_id) ON DELETE CASCADE,
		duty_date           DATE NOT NULL,
		duty_type           TEXT NOT NULL,
		report_time         TEXT,
		off_duty_time       TEXT,
		call_time           TEXT,
		standby_start_time  TEXT,
		flights             JSONB,
		notes               TEXT,
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (crew_id, duty_date)
	);

	CREATE INDEX IF NOT EXISTS idx_duty_periods_date ON duty_periods(duty_date);
	CREATE INDEX IF NOT EXISTS idx_duty_periods_type ON duty_periods(duty_type);

	-- One row per compliance evaluation run
	CREATE TABLE IF NOT EXISTS compliance_runs (
		run_id          UUID PRIMARY KEY,
		crew_id         TEXT NOT NULL,
		scope           TEXT NOT NULL,
		language        TEXT NOT NULL,
		total_days      INTEGER NOT NULL,
		legal_days      INTEGER NOT NULL,
		warning_days    INTEGER NOT NULL,
		illegal_days    INTEGER NOT NULL,
		report          JSONB NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_compliance_runs_crew ON compliance_runs(crew_id, created_at);
	`

	_, err := d.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	// Partial index for quickly finding runs with violations.
	_, _ = d.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_compliance_runs_illegal ON compliance_runs(crew_id) WHERE illegal_days > 0`)

	return nil
}

// Crew represents a crew member record.
type Crew struct {
	CrewID      string
	Name        string
	HomeBase    string
	FirstSeen   time.Time
	LastSeen    time.Time
	RosterCount int
}

// UpsertCrew inserts or updates a crew member record.
func (d *PostgresDB) UpsertCrew(ctx context.Context, c Crew) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO crew (crew_id, name, home_base, first_seen, last_seen)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (crew_id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), crew.name),
			home_base = COALESCE(NULLIF(EXCLUDED.home_base, ''), crew.home_base),
			last_seen = NOW(),
			roster_count = crew.roster_count + 1
	`, c.CrewID, c.Name, c.HomeBase)
	return err
}

// GetCrew retrieves a crew member by ID.
func (d *PostgresDB) GetCrew(ctx context.Context, crewID string) (*Crew, error) {
	var c Crew
	err := d.pool.QueryRow(ctx, `
		SELECT crew_id, COALESCE(name, ''), COALESCE(home_base, ''), first_seen, last_seen, roster_count
		FROM crew WHERE crew_id = $1
	`, crewID).Scan(&c.CrewID, &c.Name, &c.HomeBase, &c.FirstSeen, &c.LastSeen, &c.RosterCount)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertDutyPeriod stores one parsed duty day, replacing any earlier
// submission for the same crew member and date.
func (d *PostgresDB) UpsertDutyPeriod(ctx context.Context, crewID string, p duty.Period) error {
	flightsJSON, err := json.Marshal(p.Flights)
	if err != nil {
		return fmt.Errorf("marshal flights: %w", err)
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO duty_periods (crew_id, duty_date, duty_type, report_time, off_duty_time, call_time, standby_start_time, flights, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (crew_id, duty_date) DO UPDATE SET
			duty_type = EXCLUDED.duty_type,
			report_time = EXCLUDED.report_time,
			off_duty_time = EXCLUDED.off_duty_time,
			call_time = EXCLUDED.call_time,
			standby_start_time = EXCLUDED.standby_start_time,
			flights = EXCLUDED.flights,
			notes = EXCLUDED.notes,
			updated_at = NOW()
	`, crewID, p.Date, string(p.Type), p.ReportTime, p.OffDutyTime, p.CallTime, p.StandbyStartTime, flightsJSON, p.Notes)
	return err
}

// GetDutyPeriods retrieves the stored duty history for a crew member in
// ascending date order, the shape the compliance engine expects.
func (d *PostgresDB) GetDutyPeriods(ctx context.Context, crewID string) ([]duty.Period, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT to_char(duty_date, 'YYYY-MM-DD'), duty_type, COALESCE(report_time, ''), COALESCE(off_duty_time, ''),
			COALESCE(call_time, ''), COALESCE(standby_start_time, ''), flights, COALESCE(notes, '')
		FROM duty_periods
		WHERE crew_id = $1
		ORDER BY duty_date
	`, crewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []duty.Period
	for rows.Next() {
		var p duty.Period
		var typ string
		var flightsJSON []byte
		if err := rows.Scan(&p.Date, &typ, &p.ReportTime, &p.OffDutyTime, &p.CallTime, &p.StandbyStartTime, &flightsJSON, &p.Notes); err != nil {
			return nil, err
		}
		p.Type = duty.Type(typ)
		_ = json.Unmarshal(flightsJSON, &p.Flights)
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// ComplianceRun represents one stored evaluation run.
type ComplianceRun struct {
	RunID       uuid.UUID
	CrewID      string
	Scope       string
	Language    string
	TotalDays   int
	LegalDays   int
	WarningDays int
	IllegalDays int
	ReportJSON  []byte
	CreatedAt   time.Time
}

// InsertComplianceRun stores an evaluation run, returning its generated ID.
func (d *PostgresDB) InsertComplianceRun(ctx context.Context, run ComplianceRun) (uuid.UUID, error) {
	id := uuid.New()
	_, err := d.pool.Exec(ctx, `
		INSERT INTO compliance_runs (run_id, crew_id, scope, language, total_days, legal_days, warning_days, illegal_days, report)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, run.CrewID, run.Scope, run.Language, run.TotalDays, run.LegalDays, run.WarningDays, run.IllegalDays, run.ReportJSON)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert compliance run: %w", err)
	}
	return id, nil
}

// GetComplianceRun retrieves a stored run by ID.
func (d *PostgresDB) GetComplianceRun(ctx context.Context, runID uuid.UUID) (*ComplianceRun, error) {
	var run ComplianceRun
	err := d.pool.QueryRow(ctx, `
		SELECT run_id, crew_id, scope, language, total_days, legal_days, warning_days, illegal_days, report, created_at
		FROM compliance_runs WHERE run_id = $1
	`, runID).Scan(&run.RunID, &run.CrewID, &run.Scope, &run.Language, &run.TotalDays, &run.LegalDays, &run.WarningDays, &run.IllegalDays, &run.ReportJSON, &run.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListComplianceRuns retrieves the most recent runs for a crew member.
func (d *PostgresDB) ListComplianceRuns(ctx context.Context, crewID string, limit int) ([]ComplianceRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.pool.Query(ctx, `
		SELECT run_id, crew_id, scope, language, total_days, legal_days, warning_days, illegal_days, report, created_at
		FROM compliance_runs
		WHERE crew_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, crewID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []ComplianceRun
	for rows.Next() {
		var run ComplianceRun
		if err := rows.Scan(&run.RunID, &run.CrewID, &run.Scope, &run.Language, &run.TotalDays, &run.LegalDays, &run.WarningDays, &run.IllegalDays, &run.ReportJSON, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Pool returns the underlying connection pool for advanced operations.
func (d *PostgresDB) Pool() *pgxpool.Pool {
	return d.pool
}
