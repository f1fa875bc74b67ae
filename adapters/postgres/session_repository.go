package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"spendscope/domain/core"
	"spendscope/domain/spend"
	"spendscope/internal/errors"
	"spendscope/ports"

	"github.com/jmoiron/sqlx"
)

// SessionRepositoryImpl implements SessionRepository for PostgreSQL
type SessionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) ports.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// CreateSession inserts a new upload session row
func (r *SessionRepositoryImpl) CreateSession(ctx context.Context, session *spend.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO upload_sessions (id, file_hash, file_name, period, total_rows, inserted_rows, rejected_rows, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`, session.ID, session.FileHash, session.FileName, session.Period,
		session.TotalRows, session.InsertedRows, session.RejectedRows, session.Status)
	if err != nil {
		return errors.Wrap(err, "failed to insert upload session")
	}
	return nil
}

// GetSession retrieves an upload session by id. Unknown ids surface as a
// not-found condition, never as an empty session.
func (r *SessionRepositoryImpl) GetSession(ctx context.Context, id core.SessionID) (*spend.Session, error) {
	var session spend.Session
	err := r.db.GetContext(ctx, &session, `
		SELECT id, file_hash, file_name, period, total_rows, inserted_rows, rejected_rows, status, created_at, updated_at
		FROM upload_sessions
		WHERE id = $1
	`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.UnknownSession(id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load upload session")
	}
	return &session, nil
}

// UpdateSessionStatus records the ingestion outcome for a session
func (r *SessionRepositoryImpl) UpdateSessionStatus(ctx context.Context, id core.SessionID, status string, inserted, rejected int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE upload_sessions
		SET status = $2, inserted_rows = $3, rejected_rows = $4, updated_at = NOW()
		WHERE id = $1
	`, id, status, inserted, rejected)
	if err != nil {
		return errors.Wrap(err, "failed to update upload session status")
	}
	return nil
}
