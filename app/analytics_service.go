package app

import (
	"context"

	"spendscope/adapters/excel"
	"spendscope/domain/analytics"
	"spendscope/domain/core"
	"spendscope/domain/spend"
	"spendscope/ports"

	"github.com/xuri/excelize/v2"
)

// AnalyticsService serves dashboard aggregations for one session's record
// batch. Every query loads the batch and aggregates in memory; filters
// compose with the same aggregations the unfiltered views use.
type AnalyticsService struct {
	sessions ports.SessionRepository
	records  ports.RecordRepository
}

func NewAnalyticsService(sessions ports.SessionRepository, records ports.RecordRepository) *AnalyticsService {
	return &AnalyticsService{sessions: sessions, records: records}
}

// load verifies the session exists before reading records, so an unknown id
// surfaces as UNKNOWN_SESSION rather than an empty dataset.
func (s *AnalyticsService) load(ctx context.Context, id core.SessionID) ([]spend.Record, error) {
	if _, err := s.sessions.GetSession(ctx, id); err != nil {
		return nil, err
	}
	return s.records.GetRecords(ctx, id)
}

func (s *AnalyticsService) Summary(ctx context.Context, id core.SessionID) (spend.KPISummary, error) {
	records, err := s.load(ctx, id)
	if err != nil {
		return spend.KPISummary{}, err
	}
	return analytics.Summary(records), nil
}

func (s *AnalyticsService) ByCommodity(ctx context.Context, id core.SessionID) ([]spend.CommodityData, error) {
	records, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return analytics.ByCommodity(records), nil
}

func (s *AnalyticsService) TopSuppliers(ctx context.Context, id core.SessionID, limit int) ([]spend.SupplierRank, error) {
	records, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return analytics.TopSuppliers(records, limit), nil
}

func (s *AnalyticsService) TopProjects(ctx context.Context, id core.SessionID, limit int) ([]spend.ProjectRank, error) {
	records, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return analytics.TopProjects(records, limit), nil
}

// MatrixResult pairs the scatter points with their headline stats.
type MatrixResult struct {
	Points []spend.MatrixPoint `json:"points"`
	Stats  spend.MatrixStats   `json:"stats"`
}

// OpportunityMatrix returns the scatter plus stats, optionally scoped to one
// commodity. An empty commodity means the whole session.
func (s *AnalyticsService) OpportunityMatrix(ctx context.Context, id core.SessionID, commodity string) (*MatrixResult, error) {
	records, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if commodity != "" {
		records = analytics.Filter(records, analytics.CommodityIs(commodity))
	}
	points := analytics.OpportunityMatrix(records)
	return &MatrixResult{Points: points, Stats: analytics.MatrixStats(points)}, nil
}

func (s *AnalyticsService) Concentration(ctx context.Context, id core.SessionID, commodity string) (spend.ConcentrationSummary, error) {
	records, err := s.load(ctx, id)
	if err != nil {
		return spend.ConcentrationSummary{}, err
	}
	if commodity != "" {
		records = analytics.Filter(records, analytics.CommodityIs(commodity))
	}
	return analytics.Concentration(records), nil
}

// CommoditySummary is the drill-down KPI block scoped to one commodity.
func (s *AnalyticsService) CommoditySummary(ctx context.Context, id core.SessionID, commodity string) (spend.KPISummary, error) {
	records, err := s.load(ctx, id)
	if err != nil {
		return spend.KPISummary{}, err
	}
	return analytics.Summary(analytics.Filter(records, analytics.CommodityIs(commodity))), nil
}

// CommodityTopSuppliers ranks suppliers within one commodity.
func (s *AnalyticsService) CommodityTopSuppliers(ctx context.Context, id core.SessionID, commodity string, limit int) ([]spend.SupplierRank, error) {
	records, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return analytics.TopSuppliers(analytics.Filter(records, analytics.CommodityIs(commodity)), limit), nil
}

// SupplierTopPNs ranks one supplier's part numbers by opportunity.
func (s *AnalyticsService) SupplierTopPNs(ctx context.Context, id core.SessionID, supplier string, limit int) ([]spend.ProjectRank, error) {
	records, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return analytics.TopProjects(analytics.Filter(records, analytics.SupplierIs(supplier)), limit), nil
}

// ExportWorkbook builds the downloadable analytics workbook for a session.
func (s *AnalyticsService) ExportWorkbook(ctx context.Context, id core.SessionID) (*excelize.File, error) {
	records, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return excel.BuildAnalyticsWorkbook(excel.ExportData{
		Summary:       analytics.Summary(records),
		Commodities:   analytics.ByCommodity(records),
		TopSuppliers:  analytics.TopSuppliers(records, 10),
		Concentration: analytics.Concentration(records),
	})
}
