package postgres

import (
	"context"

	"spendscope/domain/core"
	"spendscope/domain/spend"
	"spendscope/internal/errors"
	"spendscope/ports"

	"github.com/jmoiron/sqlx"
)

// RecordRepositoryImpl implements RecordRepository for PostgreSQL
type RecordRepositoryImpl struct {
	db *sqlx.DB
}

// NewRecordRepository creates a new PostgreSQL spend record repository
func NewRecordRepository(db *sqlx.DB) ports.RecordRepository {
	return &RecordRepositoryImpl{db: db}
}

// InsertRecords bulk-inserts one session's record batch. Records are
// write-once: nothing updates them afterwards.
func (r *RecordRepositoryImpl) InsertRecords(ctx context.Context, id core.SessionID, records []spend.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	for i := range records {
		records[i].SessionID = id
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO spend_records (session_id, pns, part_desc, commodity, supplier, currency, quantity, price, apv, covered_apv, target_cost, target_spend, gap_to_target, opportunity, gap_percent)
		VALUES (:session_id, :pns, :part_desc, :commodity, :supplier, :currency, :quantity, :price, :apv, :covered_apv, :target_cost, :target_spend, :gap_to_target, :opportunity, :gap_percent)
	`, records)
	if err != nil {
		return 0, errors.Wrap(err, "failed to insert spend records")
	}
	return len(records), nil
}

// GetRecords loads a session's full record set in insertion order.
func (r *RecordRepositoryImpl) GetRecords(ctx context.Context, id core.SessionID) ([]spend.Record, error) {
	var records []spend.Record
	err := r.db.SelectContext(ctx, &records, `
		SELECT session_id, pns, part_desc, commodity, supplier, currency, quantity, price, apv, covered_apv, target_cost, target_spend, gap_to_target, opportunity, gap_percent
		FROM spend_records
		WHERE session_id = $1
	`, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load spend records")
	}
	return records, nil
}
