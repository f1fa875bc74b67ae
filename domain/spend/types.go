// Package spend holds the standard procurement record schema and the
// aggregate shapes served to the dashboard.
package spend

import (
	"time"

	"spendscope/domain/core"
)

// Record is one normalized procurement row owned by an upload session.
// Records are a write-once batch per upload; nothing mutates them after
// ingestion.
type Record struct {
	SessionID   core.SessionID `json:"session_id" db:"session_id"`
	PNs         string         `json:"pns" db:"pns"`
	PartDesc    string         `json:"part_desc" db:"part_desc"`
	Commodity   string         `json:"commodity" db:"commodity"`
	Supplier    string         `json:"supplier" db:"supplier"`
	Currency    string         `json:"currency" db:"currency"`
	Quantity    float64        `json:"quantity" db:"quantity"`
	Price       float64        `json:"price" db:"price"`
	APV         float64        `json:"apv" db:"apv"`
	CoveredAPV  float64        `json:"covered_apv" db:"covered_apv"`
	TargetCost  float64        `json:"target_cost" db:"target_cost"`
	TargetSpend float64        `json:"target_spend" db:"target_spend"`
	GapToTarget float64        `json:"gap_to_target" db:"gap_to_target"`
	Opportunity float64        `json:"opportunity" db:"opportunity"`
	GapPercent  float64        `json:"gap_percent" db:"gap_percent"`
}

// Session is the metadata for one uploaded spend batch.
type Session struct {
	ID           core.SessionID `json:"session_id" db:"id"`
	FileHash     string         `json:"file_hash" db:"file_hash"`
	FileName     string         `json:"file_name" db:"file_name"`
	Period       string         `json:"period" db:"period"`
	TotalRows    int            `json:"total_rows" db:"total_rows"`
	InsertedRows int            `json:"inserted_rows" db:"inserted_rows"`
	RejectedRows int            `json:"rejected_rows" db:"rejected_rows"`
	Status       string         `json:"status" db:"status"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Session status values
const (
	SessionPending   = "pending"
	SessionCompleted = "completed"
	SessionFailed    = "failed"
)

// KPISummary is the six-figure headline block on the dashboard.
type KPISummary struct {
	TotalSpending    float64 `json:"total_spending"`
	SpendingCovered  float64 `json:"spending_covered"`
	PNsCovered       int     `json:"pns_covered"`
	SuppliersCovered int     `json:"suppliers_covered"`
	TotalOpportunity float64 `json:"total_opportunity"`
	GapPercent       float64 `json:"gap_percent"`
}

// CommodityData is one per-commodity rollup row, served ordered by total APV
// descending.
type CommodityData struct {
	Commodity        string  `json:"commodity"`
	TotalAPV         float64 `json:"total_apv"`
	CoveredAPV       float64 `json:"covered_apv"`
	TotalOpportunity float64 `json:"total_opportunity"`
	CoveredPNs       int     `json:"covered_pns"`
	SupplierCount    int     `json:"supplier_count"`
	GapPercent       float64 `json:"gap_percent"`
}

// SupplierRank is one supplier rollup row, ranked by total opportunity.
type SupplierRank struct {
	Supplier         string  `json:"supplier"`
	TotalAPV         float64 `json:"total_apv"`
	TotalOpportunity float64 `json:"total_opportunity"`
	GapPercent       float64 `json:"gap_percent"`
	MainCommodity    string  `json:"main_commodity"`
}

// ProjectRank is one part-number entry ranked by opportunity. One record is
// one project entry; rows sharing a PN are not merged here.
type ProjectRank struct {
	PNs         string  `json:"pns"`
	PartDesc    string  `json:"part_desc"`
	Supplier    string  `json:"supplier"`
	APV         float64 `json:"apv"`
	Opportunity float64 `json:"opportunity"`
	GapPercent  float64 `json:"gap_percent"`
}

// MatrixPoint is one scatter point on the opportunity matrix. Quadrant
// classification against thresholds is a presentation concern.
type MatrixPoint struct {
	PNs         string  `json:"pns"`
	PartDesc    string  `json:"part_desc"`
	Supplier    string  `json:"supplier"`
	Commodity   string  `json:"commodity"`
	APV         float64 `json:"apv"`
	GapPercent  float64 `json:"gap_percent"`
	Opportunity float64 `json:"opportunity"`
}

// MatrixStats summarizes the opportunity matrix for narrative generation:
// quadrant counts at the median thresholds plus the APV/gap correlation.
type MatrixStats struct {
	MedianAPV         float64 `json:"median_apv"`
	MedianGapPercent  float64 `json:"median_gap_percent"`
	HighSpendHighGap  int     `json:"high_spend_high_gap"`
	HighSpendLowGap   int     `json:"high_spend_low_gap"`
	LowSpendHighGap   int     `json:"low_spend_high_gap"`
	LowSpendLowGap    int     `json:"low_spend_low_gap"`
	APVGapCorrelation float64 `json:"apv_gap_correlation"`
}

// SupplierShare is one row of the concentration ranking.
type SupplierShare struct {
	Supplier string  `json:"supplier"`
	APV      float64 `json:"apv"`
	Share    float64 `json:"share"`
}

// ConcentrationSummary reports how much spend sits with the largest
// suppliers. CR3 <= CR5 always; with fewer than 3 (or 5) suppliers the ratio
// covers whatever exists.
type ConcentrationSummary struct {
	CR3            float64         `json:"cr3"`
	CR5            float64         `json:"cr5"`
	TotalSuppliers int             `json:"total_suppliers"`
	TotalAPV       float64         `json:"total_apv"`
	TopSuppliers   []SupplierShare `json:"top_suppliers"`
}
