// Package ports defines the interfaces the application core depends on.
// Adapters implement them; services consume them.
package ports

import (
	"context"

	"spendscope/domain/core"
	"spendscope/domain/costtree"
	"spendscope/domain/spend"
)

// SessionRepository persists upload session metadata.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *spend.Session) error
	GetSession(ctx context.Context, id core.SessionID) (*spend.Session, error)
	UpdateSessionStatus(ctx context.Context, id core.SessionID, status string, inserted, rejected int) error
}

// RecordRepository persists the write-once record batch of a session.
type RecordRepository interface {
	InsertRecords(ctx context.Context, id core.SessionID, records []spend.Record) (int, error)
	GetRecords(ctx context.Context, id core.SessionID) ([]spend.Record, error)
}

// CostRepository persists cost-variance sessions and their line items.
type CostRepository interface {
	CreateSession(ctx context.Context, session *costtree.Session, items []costtree.LineItem) error
	GetSession(ctx context.Context, id core.CostSessionID) (*costtree.Session, error)
	ListSessions(ctx context.Context, limit int) ([]costtree.Session, error)
	GetLineItems(ctx context.Context, id core.CostSessionID) ([]costtree.LineItem, error)
	DeleteSession(ctx context.Context, id core.CostSessionID) (bool, error)
}
