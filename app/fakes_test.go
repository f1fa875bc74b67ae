package app

import (
	"context"
	"sync"

	"spendscope/domain/core"
	"spendscope/domain/costtree"
	"spendscope/domain/spend"
	"spendscope/internal"
	"spendscope/internal/errors"
)

// memorySessionRepo is an in-memory SessionRepository for service tests.
type memorySessionRepo struct {
	mu       sync.Mutex
	sessions map[core.SessionID]*spend.Session
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[core.SessionID]*spend.Session)}
}

func (r *memorySessionRepo) CreateSession(ctx context.Context, session *spend.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *memorySessionRepo) GetSession(ctx context.Context, id core.SessionID) (*spend.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, errors.UnknownSession(id.String())
	}
	copied := *session
	return &copied, nil
}

func (r *memorySessionRepo) UpdateSessionStatus(ctx context.Context, id core.SessionID, status string, inserted, rejected int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return errors.UnknownSession(id.String())
	}
	session.Status = status
	session.InsertedRows = inserted
	session.RejectedRows = rejected
	return nil
}

// memoryRecordRepo is an in-memory RecordRepository.
type memoryRecordRepo struct {
	mu      sync.Mutex
	records map[core.SessionID][]spend.Record
}

func newMemoryRecordRepo() *memoryRecordRepo {
	return &memoryRecordRepo{records: make(map[core.SessionID][]spend.Record)}
}

func (r *memoryRecordRepo) InsertRecords(ctx context.Context, id core.SessionID, records []spend.Record) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range records {
		records[i].SessionID = id
	}
	r.records[id] = append(r.records[id], records...)
	return len(records), nil
}

func (r *memoryRecordRepo) GetRecords(ctx context.Context, id core.SessionID) ([]spend.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]spend.Record(nil), r.records[id]...), nil
}

// memoryCostRepo is an in-memory CostRepository.
type memoryCostRepo struct {
	mu       sync.Mutex
	sessions map[core.CostSessionID]*costtree.Session
	items    map[core.CostSessionID][]costtree.LineItem
	order    []core.CostSessionID
}

func newMemoryCostRepo() *memoryCostRepo {
	return &memoryCostRepo{
		sessions: make(map[core.CostSessionID]*costtree.Session),
		items:    make(map[core.CostSessionID][]costtree.LineItem),
	}
}

func (r *memoryCostRepo) CreateSession(ctx context.Context, session *costtree.Session, items []costtree.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.sessions[session.ID] = &copied
	r.items[session.ID] = append([]costtree.LineItem(nil), items...)
	r.order = append(r.order, session.ID)
	return nil
}

func (r *memoryCostRepo) GetSession(ctx context.Context, id core.CostSessionID) (*costtree.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, errors.UnknownSession(id.String())
	}
	copied := *session
	return &copied, nil
}

func (r *memoryCostRepo) ListSessions(ctx context.Context, limit int) ([]costtree.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sessions []costtree.Session
	for i := len(r.order) - 1; i >= 0 && (limit <= 0 || len(sessions) < limit); i-- {
		sessions = append(sessions, *r.sessions[r.order[i]])
	}
	return sessions, nil
}

func (r *memoryCostRepo) GetLineItems(ctx context.Context, id core.CostSessionID) ([]costtree.LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]costtree.LineItem(nil), r.items[id]...), nil
}

func (r *memoryCostRepo) DeleteSession(ctx context.Context, id core.CostSessionID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false, nil
	}
	delete(r.sessions, id)
	delete(r.items, id)
	return true, nil
}

func testLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}
