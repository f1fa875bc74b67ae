package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"spendscope/domain/core"
	"spendscope/domain/costtree"
	"spendscope/internal/errors"
	"spendscope/ports"

	"github.com/jmoiron/sqlx"
)

// CostRepositoryImpl implements CostRepository for PostgreSQL
type CostRepositoryImpl struct {
	db *sqlx.DB
}

// NewCostRepository creates a new PostgreSQL cost-variance repository
func NewCostRepository(db *sqlx.DB) ports.CostRepository {
	return &CostRepositoryImpl{db: db}
}

// CreateSession stores a cost session and its line items in one transaction.
func (r *CostRepositoryImpl) CreateSession(ctx context.Context, session *costtree.Session, items []costtree.LineItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin cost session transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cost_sessions (id, file_name, part_number, supplier, target_price, supplier_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, session.ID, session.FileName, session.PartNumber, session.Supplier,
		session.TargetPrice, session.SupplierPrice)
	if err != nil {
		return errors.Wrap(err, "failed to insert cost session")
	}

	for i, item := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO cost_line_items (session_id, item_name, process, cost_type, target_cost, actual_cost, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, session.ID, item.ItemName, item.Process, item.Type,
			item.TargetCost, item.ActualCost, i+1)
		if err != nil {
			return errors.Wrap(err, "failed to insert cost line item")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit cost session")
	}
	return nil
}

// GetSession retrieves one cost session by id
func (r *CostRepositoryImpl) GetSession(ctx context.Context, id core.CostSessionID) (*costtree.Session, error) {
	var session costtree.Session
	err := r.db.GetContext(ctx, &session, `
		SELECT id, file_name, part_number, supplier, target_price, supplier_price, created_at
		FROM cost_sessions
		WHERE id = $1
	`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.UnknownSession(id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cost session")
	}
	return &session, nil
}

// ListSessions returns the most recent cost sessions
func (r *CostRepositoryImpl) ListSessions(ctx context.Context, limit int) ([]costtree.Session, error) {
	if limit <= 0 {
		limit = 10
	}
	var sessions []costtree.Session
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT id, file_name, part_number, supplier, target_price, supplier_price, created_at
		FROM cost_sessions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cost sessions")
	}
	return sessions, nil
}

// GetLineItems loads a session's leaf items in sheet order.
func (r *CostRepositoryImpl) GetLineItems(ctx context.Context, id core.CostSessionID) ([]costtree.LineItem, error) {
	var items []costtree.LineItem
	err := r.db.SelectContext(ctx, &items, `
		SELECT item_name, process, cost_type, target_cost, actual_cost, sort_order
		FROM cost_line_items
		WHERE session_id = $1
		ORDER BY sort_order
	`, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cost line items")
	}
	return items, nil
}

// DeleteSession removes a cost session; line items cascade.
func (r *CostRepositoryImpl) DeleteSession(ctx context.Context, id core.CostSessionID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cost_sessions WHERE id = $1`, id)
	if err != nil {
		return false, errors.Wrap(err, "failed to delete cost session")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read delete result")
	}
	return affected > 0, nil
}
