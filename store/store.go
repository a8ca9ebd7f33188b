// Package store persists audit runs in Postgres. One run writes a summary
// row plus its gap records and per-module gap analysis; the raw dataset is
// never the store's responsibility.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"curriculum-equity-audit/engine"
)

// Config carries the connection and labeling settings for one audit run.
type Config struct {
	URL    string
	Schema string
	Tag    string
	Source string
}

// URLFromEnv resolves the database URL from EQUITY_AUDIT_DB_URL, falling
// back to DATABASE_URL.
func URLFromEnv() string {
	if value := strings.TrimSpace(os.Getenv("EQUITY_AUDIT_DB_URL")); value != "" {
		return value
	}
	return strings.TrimSpace(os.Getenv("DATABASE_URL"))
}

func sanitizeSchema(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("db schema is required")
	}
	valid := regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	if !valid.MatchString(value) {
		return "", fmt.Errorf("invalid schema name: %s", value)
	}
	return value, nil
}

// Seed initializes the schema and stores the report only when no prior run
// exists. Returns the new run ID, or empty when data was already present.
func Seed(report engine.Report, cfg Config) (string, error) {
	schemaName, db, ctx, cancel, err := open(cfg)
	if err != nil {
		return "", err
	}
	defer db.Close()
	defer cancel()

	var count int
	if err := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s.audit_runs`, schemaName)).Scan(&count); err != nil {
		return "", err
	}
	if count > 0 {
		return "", nil
	}
	return storeReportTx(ctx, db, report, schemaName, cfg)
}

// Store persists one audit run, bootstrapping the schema if needed.
func Store(report engine.Report, cfg Config) (string, error) {
	schemaName, db, ctx, cancel, err := open(cfg)
	if err != nil {
		return "", err
	}
	defer db.Close()
	defer cancel()

	return storeReportTx(ctx, db, report, schemaName, cfg)
}

func open(cfg Config) (string, *sql.DB, context.Context, context.CancelFunc, error) {
	schemaName, err := sanitizeSchema(cfg.Schema)
	if err != nil {
		return "", nil, nil, nil, err
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return "", nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)

	if err := db.PingContext(ctx); err != nil {
		cancel()
		db.Close()
		return "", nil, nil, nil, err
	}
	if err := ensureSchema(ctx, db, schemaName); err != nil {
		cancel()
		db.Close()
		return "", nil, nil, nil, err
	}
	return schemaName, db, ctx, cancel, nil
}

func storeReportTx(ctx context.Context, db *sql.DB, report engine.Report, schemaName string, cfg Config) (string, error) {
	runID := uuid.New()

	var shannon, simpson, balance sql.NullFloat64
	if report.Diversity != nil {
		shannon = sql.NullFloat64{Float64: report.Diversity.ShannonIndex, Valid: true}
		simpson = sql.NullFloat64{Float64: report.Diversity.SimpsonIndex, Valid: true}
		balance = sql.NullFloat64{Float64: report.Diversity.RepresentationBalance, Valid: true}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s.audit_runs (
			id, source, total_rows, total_people, demographic_columns,
			overall_score, shannon_index, simpson_index, representation_balance,
			warning_count, run_tag
		) VALUES (
			$1,$2,$3,$4,$5,
			$6,$7,$8,$9,
			$10,$11
		)`, schemaName),
		runID,
		nullString(cfg.Source),
		report.Summary.TotalRows,
		report.Summary.TotalPeople,
		report.Summary.DemographicColumns,
		report.Scorecard.OverallScore,
		shannon,
		simpson,
		balance,
		len(report.Warnings),
		nullString(cfg.Tag),
	)
	if err != nil {
		_ = tx.Rollback()
		return "", err
	}

	insertGapSQL := fmt.Sprintf(`
		INSERT INTO %s.audit_gap_records (
			id, run_id, demographic, actual_count, actual_pct,
			target_pct, gap, status
		) VALUES (
			$1,$2,$3,$4,$5,
			$6,$7,$8
		)`, schemaName)

	for _, entry := range report.Gaps {
		_, err = tx.ExecContext(ctx, insertGapSQL,
			uuid.New(),
			runID,
			entry.Demographic,
			entry.ActualCount,
			entry.ActualPct,
			entry.TargetPct,
			entry.Gap,
			string(entry.Status),
		)
		if err != nil {
			_ = tx.Rollback()
			return "", err
		}
	}

	insertModuleSQL := fmt.Sprintf(`
		INSERT INTO %s.audit_module_gaps (
			id, run_id, module, total_people, largest_overrep,
			largest_underrep, gap_range, high_risk
		) VALUES (
			$1,$2,$3,$4,$5,
			$6,$7,$8
		)`, schemaName)

	for _, entry := range report.ModuleGaps {
		_, err = tx.ExecContext(ctx, insertModuleSQL,
			uuid.New(),
			runID,
			entry.Module,
			entry.TotalPeople,
			entry.LargestOverrep,
			entry.LargestUnderrep,
			entry.GapRange,
			entry.HighRisk,
		)
		if err != nil {
			_ = tx.Rollback()
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID.String(), nil
}

func ensureSchema(ctx context.Context, db *sql.DB, schemaName string) error {
	if _, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, schemaName)); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.audit_runs (
			id uuid PRIMARY KEY,
			source text,
			total_rows integer NOT NULL,
			total_people integer NOT NULL,
			demographic_columns integer NOT NULL,
			overall_score numeric(6,2) NOT NULL,
			shannon_index numeric(10,6),
			simpson_index numeric(10,6),
			representation_balance numeric(10,6),
			warning_count integer NOT NULL,
			run_tag text,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schemaName))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.audit_gap_records (
			id uuid PRIMARY KEY,
			run_id uuid NOT NULL REFERENCES %s.audit_runs(id) ON DELETE CASCADE,
			demographic text NOT NULL,
			actual_count integer NOT NULL,
			actual_pct numeric(8,4) NOT NULL,
			target_pct numeric(8,4) NOT NULL,
			gap numeric(8,4) NOT NULL,
			status text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schemaName, schemaName))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.audit_module_gaps (
			id uuid PRIMARY KEY,
			run_id uuid NOT NULL REFERENCES %s.audit_runs(id) ON DELETE CASCADE,
			module text NOT NULL,
			total_people integer NOT NULL,
			largest_overrep text NOT NULL,
			largest_underrep text NOT NULL,
			gap_range numeric(8,4) NOT NULL,
			high_risk boolean NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schemaName, schemaName))
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_audit_gap_records_run_idx ON %s.audit_gap_records (run_id)`, schemaName, schemaName))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_audit_gap_records_status_idx ON %s.audit_gap_records (status)`, schemaName, schemaName))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_audit_module_gaps_run_idx ON %s.audit_module_gaps (run_id)`, schemaName, schemaName))
	return err
}

func nullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
