package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseDB wraps a ClickHouse connection for compliance analytics.
type ClickHouseDB struct {
	conn driver.Conn
}

// Conn returns the underlying ClickHouse connection for direct queries.
func (d *ClickHouseDB) Conn() driver.Conn {
	return d.conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	// Test the connection.
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseDB) Close() error {
	return d.conn.Close()
}

// CreateSchema creates the ClickHouse tables.
func (d *ClickHouseDB) CreateSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS compliance_days (
		run_id               UUID,
		crew_id              LowCardinality(String),
		duty_date            Date,
		duty_type            LowCardinality(String),
		status               LowCardinality(String),
		fdp_minutes          Int32,
		max_fdp_minutes      Int32,
		flight_time_minutes  Int32,
		rest_minutes         Int32,
		sectors              UInt8,
		fatigue_score        UInt8,
		issue_types          Array(LowCardinality(String)),
		created_at           DateTime64(3) DEFAULT now64(3)
	)
	ENGINE = MergeTree()
	PARTITION BY toYYYYMM(duty_date)
	ORDER BY (crew_id, duty_date, run_id)
	SETTINGS index_granularity = 8192`

	if err := d.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CHDayParams contains parameters for recording one evaluated day.
type CHDayParams struct {
	RunID             string
	CrewID            string
	DutyDate          time.Time
	DutyType          string
	Status            string
	FDPMinutes        int32
	MaxFDPMinutes     int32
	FlightTimeMinutes int32
	RestMinutes       int32
	Sectors           uint8
	FatigueScore      uint8
	IssueTypes        []string
}

// InsertDays appends the evaluated days of one run.
func (d *ClickHouseDB) InsertDays(ctx context.Context, days []CHDayParams) error {
	if len(days) == 0 {
		return nil
	}

	batch, err := d.conn.PrepareBatch(ctx, `
		INSERT INTO compliance_days (run_id, crew_id, duty_date, duty_type, status, fdp_minutes, max_fdp_minutes, flight_time_minutes, rest_minutes, sectors, fatigue_score, issue_types)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range days {
		err = batch.Append(p.RunID, p.CrewID, p.DutyDate, p.DutyType, p.Status, p.FDPMinutes, p.MaxFDPMinutes, p.FlightTimeMinutes, p.RestMinutes, p.Sectors, p.FatigueScore, p.IssueTypes)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// CHStats contains aggregate statistics about evaluated days.
type CHStats struct {
	TotalDays   uint64
	ByStatus    map[string]uint64
	ByIssueType map[string]uint64
	AvgFDP      float64
	MaxFatigue  uint8
}

// GetStats returns aggregate statistics, optionally scoped to one crew member.
func (d *ClickHouseDB) GetStats(ctx context.Context, crewID string) (*CHStats, error) {
	stats := &CHStats{
		ByStatus:    make(map[string]uint64),
		ByIssueType: make(map[string]uint64),
	}

	where := ""
	var args []interface{}
	if crewID != "" {
		where = " WHERE crew_id = ?"
		args = append(args, crewID)
	}

	row := d.conn.QueryRow(ctx, "SELECT count(), avg(fdp_minutes), max(fatigue_score) FROM compliance_days"+where, args...)
	if err := row.Scan(&stats.TotalDays, &stats.AvgFDP, &stats.MaxFatigue); err != nil {
		return nil, err
	}

	rows, err := d.conn.Query(ctx, "SELECT status, count() FROM compliance_days"+where+" GROUP BY status", args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var status string
		var count uint64
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan status stats: %w", err)
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate status stats: %w", err)
	}
	rows.Close()

	rows, err = d.conn.Query(ctx, "SELECT issue, count() FROM compliance_days"+where+" ARRAY JOIN issue_types AS issue GROUP BY issue ORDER BY count() DESC LIMIT 20", args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var issue string
		var count uint64
		if err := rows.Scan(&issue, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan issue stats: %w", err)
		}
		stats.ByIssueType[issue] = count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate issue stats: %w", err)
	}
	rows.Close()

	return stats, nil
}

// CHDay represents one evaluated day read back from ClickHouse.
type CHDay struct {
	RunID             string
	CrewID            string
	DutyDate          time.Time
	DutyType          string
	Status            string
	FDPMinutes        int32
	MaxFDPMinutes     int32
	FlightTimeMinutes int32
	RestMinutes       int32
	Sectors           uint8
	FatigueScore      uint8
	IssueTypes        []string
	CreatedAt         time.Time
}

// QueryDays retrieves evaluated days for a crew member within a date range.
func (d *ClickHouseDB) QueryDays(ctx context.Context, crewID string, from, to time.Time, statuses []string) ([]CHDay, error) {
	conditions := []string{"crew_id = ?", "duty_date >= ?", "duty_date <= ?"}
	args := []interface{}{crewID, from, to}
	if len(statuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
		conditions = append(conditions, "status IN ("+placeholders+")")
		for _, s := range statuses {
			args = append(args, s)
		}
	}

	query := `SELECT run_id, crew_id, duty_date, duty_type, status, fdp_minutes, max_fdp_minutes, flight_time_minutes, rest_minutes, sectors, fatigue_score, issue_types, created_at
		FROM compliance_days WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY duty_date`

	rows, err := d.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	defer rows.Close()

	var days []CHDay
	for rows.Next() {
		var day CHDay
		err := rows.Scan(&day.RunID, &day.CrewID, &day.DutyDate, &day.DutyType, &day.Status, &day.FDPMinutes, &day.MaxFDPMinutes,
			&day.FlightTimeMinutes, &day.RestMinutes, &day.Sectors, &day.FatigueScore, &day.IssueTypes, &day.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return days, nil
}
