package migration

import (
	"context"

	"spendscope/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createUploadSessionsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create upload_sessions table")
	}
	if err := r.createSpendRecordsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create spend_records table")
	}
	if err := r.createCostSessionsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create cost_sessions table")
	}
	if err := r.createCostLineItemsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create cost_line_items table")
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}
	return nil
}

func (r *MigrationRunner) createUploadSessionsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS upload_sessions (
			id UUID PRIMARY KEY,
			file_hash TEXT NOT NULL,
			file_name TEXT NOT NULL,
			period TEXT NOT NULL DEFAULT '',
			total_rows INTEGER NOT NULL DEFAULT 0,
			inserted_rows INTEGER NOT NULL DEFAULT 0,
			rejected_rows INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createSpendRecordsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS spend_records (
			session_id UUID NOT NULL REFERENCES upload_sessions(id) ON DELETE CASCADE,
			pns TEXT NOT NULL DEFAULT '',
			part_desc TEXT NOT NULL DEFAULT '',
			commodity TEXT NOT NULL DEFAULT '',
			supplier TEXT NOT NULL DEFAULT '',
			currency TEXT NOT NULL DEFAULT '',
			quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			apv DOUBLE PRECISION NOT NULL DEFAULT 0,
			covered_apv DOUBLE PRECISION NOT NULL DEFAULT 0,
			target_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			target_spend DOUBLE PRECISION NOT NULL DEFAULT 0,
			gap_to_target DOUBLE PRECISION NOT NULL DEFAULT 0,
			opportunity DOUBLE PRECISION NOT NULL DEFAULT 0,
			gap_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createCostSessionsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cost_sessions (
			id UUID PRIMARY KEY,
			file_name TEXT NOT NULL,
			part_number TEXT NOT NULL DEFAULT '',
			supplier TEXT NOT NULL DEFAULT '',
			target_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			supplier_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createCostLineItemsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cost_line_items (
			session_id UUID NOT NULL REFERENCES cost_sessions(id) ON DELETE CASCADE,
			item_name TEXT NOT NULL,
			process TEXT NOT NULL DEFAULT '',
			cost_type TEXT NOT NULL DEFAULT '',
			target_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			actual_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			sort_order INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_spend_records_session ON spend_records(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_spend_records_commodity ON spend_records(session_id, commodity)`,
		`CREATE INDEX IF NOT EXISTS idx_spend_records_supplier ON spend_records(session_id, supplier)`,
		`CREATE INDEX IF NOT EXISTS idx_cost_line_items_session ON cost_line_items(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_upload_sessions_hash ON upload_sessions(file_hash)`,
	}
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}
