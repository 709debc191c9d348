// Package postgres stores validation reports in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/uwg-schema/internal/observability"
	"github.com/couchcryptid/uwg-schema/internal/pipeline"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

const schema = `
CREATE TABLE IF NOT EXISTS uwg_validation_reports (
	id            TEXT PRIMARY KEY,
	entity_type   TEXT NOT NULL,
	valid         BOOLEAN NOT NULL,
	error_kind    TEXT,
	error_path    TEXT,
	error_message TEXT,
	document      JSONB,
	stock         JSONB,
	validated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS uwg_validation_reports_entity_idx
	ON uwg_validation_reports (entity_type, valid);
`

const insertReport = `
INSERT INTO uwg_validation_reports
	(id, entity_type, valid, error_kind, error_path, error_message, document, stock, validated_at)
VALUES
	(:id, :entity_type, :valid, :error_kind, :error_path, :error_message, :document, :stock, :validated_at)
ON CONFLICT (id) DO NOTHING`

// Repository persists reports. It implements pipeline.BatchLoader.
type Repository struct {
	db      *sqlx.DB
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Open connects to dsn, sizes the pool and verifies the connection.
func Open(ctx context.Context, dsn string, logger *slog.Logger, metrics *observability.Metrics) (*Repository, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("postgres connection established")
	return &Repository{db: db, logger: logger, metrics: metrics}, nil
}

// EnsureSchema creates the reports table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create report table: %w", err)
	}
	return nil
}

// LoadBatch inserts reports in one transaction. Reports already stored under
// the same ID are left untouched.
func (r *Repository) LoadBatch(ctx context.Context, reports []pipeline.Report) error {
	if len(reports) == 0 {
		return nil
	}
	rows := make([]reportRow, len(reports))
	for i := range reports {
		row, err := toRow(reports[i])
		if err != nil {
			return err
		}
		rows[i] = row
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var stored int64
	for _, row := range rows {
		res, err := tx.NamedExecContext(ctx, insertReport, row)
		if err != nil {
			return fmt.Errorf("insert report %s: %w", row.ID, err)
		}
		n, err := res.RowsAffected()
		if err == nil {
			stored += n
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reports: %w", err)
	}

	r.metrics.ReportsStored.Add(float64(stored))
	r.logger.Debug("reports stored", "count", stored, "duplicates", int64(len(rows))-stored)
	return nil
}

// CheckReadiness pings the database.
func (r *Repository) CheckReadiness(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	return r.db.Close()
}

type reportRow struct {
	ID           string         `db:"id"`
	EntityType   string         `db:"entity_type"`
	Valid        bool           `db:"valid"`
	ErrorKind    sql.NullString `db:"error_kind"`
	ErrorPath    sql.NullString `db:"error_path"`
	ErrorMessage sql.NullString `db:"error_message"`
	Document     sql.NullString `db:"document"`
	Stock        sql.NullString `db:"stock"`
	ValidatedAt  time.Time      `db:"validated_at"`
}

// toRow flattens a report into table columns. JSON columns are bound as text
// and absent values map to NULL.
func toRow(r pipeline.Report) (reportRow, error) {
	row := reportRow{
		ID:          r.ID,
		EntityType:  r.EntityType,
		Valid:       r.Valid,
		ValidatedAt: r.ValidatedAt,
	}
	if r.Error != nil {
		row.ErrorKind = sql.NullString{String: r.Error.Kind, Valid: true}
		row.ErrorPath = sql.NullString{String: r.Error.Path, Valid: r.Error.Path != ""}
		row.ErrorMessage = sql.NullString{String: r.Error.Message, Valid: true}
	}
	if len(r.Document) > 0 {
		row.Document = sql.NullString{String: string(r.Document), Valid: true}
	}
	if len(r.Stock) > 0 {
		data, err := json.Marshal(r.Stock)
		if err != nil {
			return reportRow{}, fmt.Errorf("encode stock of report %s: %w", r.ID, err)
		}
		row.Stock = sql.NullString{String: string(data), Valid: true}
	}
	return row, nil
}
