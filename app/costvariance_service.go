package app

import (
	"context"

	"spendscope/adapters/excel"
	"spendscope/domain/core"
	"spendscope/domain/costtree"
	"spendscope/internal"
	"spendscope/ports"
)

// CostVarianceService owns cost-breakdown sessions: parse an uploaded sheet
// into flat line items, persist them, and serve the rolled-up variance tree
// in either grouping view.
type CostVarianceService struct {
	repo   ports.CostRepository
	logger *internal.Logger
}

func NewCostVarianceService(repo ports.CostRepository, logger *internal.Logger) *CostVarianceService {
	return &CostVarianceService{repo: repo, logger: logger}
}

// UploadResult reports a stored cost session.
type UploadResult struct {
	SessionID     core.CostSessionID `json:"session_id"`
	PartNumber    string             `json:"part_number"`
	Supplier      string             `json:"supplier"`
	TargetPrice   float64            `json:"target_price"`
	SupplierPrice float64            `json:"supplier_price"`
	ItemCount     int                `json:"item_count"`
}

// Upload parses a cost-breakdown sheet and stores it as a new session.
func (s *CostVarianceService) Upload(ctx context.Context, content []byte, filename string) (*UploadResult, error) {
	sheet, err := excel.ParseCostSheet(content, filename)
	if err != nil {
		return nil, err
	}

	session := &costtree.Session{
		ID:            core.CostSessionID(core.NewID()),
		FileName:      filename,
		PartNumber:    sheet.PartNumber,
		Supplier:      sheet.Supplier,
		TargetPrice:   sheet.TargetPrice,
		SupplierPrice: sheet.SupplierPrice,
	}
	if err := s.repo.CreateSession(ctx, session, sheet.Items); err != nil {
		return nil, err
	}

	s.logger.Info("[cost] session %s: %s (%d items)", session.ID, filename, len(sheet.Items))

	return &UploadResult{
		SessionID:     session.ID,
		PartNumber:    session.PartNumber,
		Supplier:      session.Supplier,
		TargetPrice:   session.TargetPrice,
		SupplierPrice: session.SupplierPrice,
		ItemCount:     len(sheet.Items),
	}, nil
}

// TreeResult is the rolled-up variance tree plus its session header.
type TreeResult struct {
	Session *costtree.Session `json:"session"`
	View    costtree.View     `json:"view"`
	Tree    *costtree.Node    `json:"tree"`
}

// Tree builds the variance tree for one session in the requested view.
func (s *CostVarianceService) Tree(ctx context.Context, id core.CostSessionID, view costtree.View) (*TreeResult, error) {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetLineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TreeResult{
		Session: session,
		View:    view,
		Tree:    costtree.BuildTree(items, view),
	}, nil
}

// ListSessions returns recent cost sessions for the session picker.
func (s *CostVarianceService) ListSessions(ctx context.Context, limit int) ([]costtree.Session, error) {
	return s.repo.ListSessions(ctx, limit)
}

// GetSession returns one cost session's metadata.
func (s *CostVarianceService) GetSession(ctx context.Context, id core.CostSessionID) (*costtree.Session, error) {
	return s.repo.GetSession(ctx, id)
}

// DeleteSession removes a cost session and its items.
func (s *CostVarianceService) DeleteSession(ctx context.Context, id core.CostSessionID) (bool, error) {
	return s.repo.DeleteSession(ctx, id)
}
