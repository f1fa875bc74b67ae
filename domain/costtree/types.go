// Package costtree builds hierarchical target-vs-actual cost rollups from a
// flat cost-breakdown sheet.
package costtree

import (
	"time"

	"spendscope/domain/core"
)

// View selects how leaf items are grouped into the middle tier.
type View string

const (
	ViewByProcess View = "by_process"
	ViewByType    View = "by_type"
)

// ParseView validates a view string.
func ParseView(s string) (View, bool) {
	switch View(s) {
	case ViewByProcess, ViewByType:
		return View(s), true
	default:
		return "", false
	}
}

// LineItem is one leaf cost row: what it is, which process stage produced
// it, which cost type it belongs to, and its target/actual cost.
type LineItem struct {
	ItemName   string  `json:"item_name" db:"item_name"`
	Process    string  `json:"process" db:"process"`
	Type       string  `json:"type" db:"cost_type"`
	TargetCost float64 `json:"target_cost" db:"target_cost"`
	ActualCost float64 `json:"actual_cost" db:"actual_cost"`
	SortOrder  int     `json:"sort_order" db:"sort_order"`
}

// Node is one cost tree node. For every non-leaf node the totals are the
// exact sums of its children; the waterfall chart depends on that
// additivity.
type Node struct {
	ItemID      string  `json:"item_id"`
	ItemName    string  `json:"item_name"`
	Level       int     `json:"level"`
	Category    string  `json:"category"`
	TargetCost  float64 `json:"target_cost"`
	ActualCost  float64 `json:"actual_cost"`
	Variance    float64 `json:"variance"`
	VariancePct float64 `json:"variance_pct"`
	SortOrder   int     `json:"sort_order"`
	Children    []*Node `json:"children"`
}

// Session is the metadata for one uploaded cost-breakdown document. Cost
// sessions and spend sessions are disjoint kinds sharing only the id and
// timestamp concept.
type Session struct {
	ID            core.CostSessionID `json:"session_id" db:"id"`
	FileName      string             `json:"file_name" db:"file_name"`
	PartNumber    string             `json:"part_number" db:"part_number"`
	Supplier      string             `json:"supplier" db:"supplier"`
	TargetPrice   float64            `json:"target_price" db:"target_price"`
	SupplierPrice float64            `json:"supplier_price" db:"supplier_price"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
}
