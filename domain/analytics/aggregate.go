// Package analytics derives dashboard aggregates from a session's spend
// records. Every function here is a stateless, pure computation over the
// record slice it is handed: no aggregate references rank or totals outside
// its input, so filtering before or after aggregation yields identical
// results. Concurrent queries over the same slice need no coordination.
package analytics

import (
	"sort"

	"spendscope/domain/spend"
)

// Predicate selects records for scoped aggregation.
type Predicate func(spend.Record) bool

// Filter returns the records matching pred. A nil predicate selects
// everything.
func Filter(records []spend.Record, pred Predicate) []spend.Record {
	if pred == nil {
		return records
	}
	out := make([]spend.Record, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// CommodityIs scopes aggregation to one commodity.
func CommodityIs(commodity string) Predicate {
	return func(r spend.Record) bool { return r.Commodity == commodity }
}

// SupplierIs scopes aggregation to one supplier.
func SupplierIs(supplier string) Predicate {
	return func(r spend.Record) bool { return r.Supplier == supplier }
}

// Summary computes the headline KPI block. Zero records degrade to a
// zero-valued summary, never an error.
func Summary(records []spend.Record) spend.KPISummary {
	var s spend.KPISummary
	coveredPNs := make(map[string]struct{})
	coveredSuppliers := make(map[string]struct{})

	for _, r := range records {
		s.TotalSpending += r.APV
		s.SpendingCovered += r.CoveredAPV
		s.TotalOpportunity += r.Opportunity
		if r.CoveredAPV > 0 {
			coveredPNs[r.PNs] = struct{}{}
			coveredSuppliers[r.Supplier] = struct{}{}
		}
	}
	s.PNsCovered = len(coveredPNs)
	s.SuppliersCovered = len(coveredSuppliers)
	if s.TotalSpending > 0 {
		s.GapPercent = s.TotalOpportunity / s.TotalSpending * 100
	}
	return s
}

// ByCommodity rolls records up per commodity, ordered by total APV
// descending so the chart reads highest-spend first. Ties break by
// commodity name for reproducible exports.
func ByCommodity(records []spend.Record) []spend.CommodityData {
	type acc struct {
		data      spend.CommodityData
		pns       map[string]struct{}
		suppliers map[string]struct{}
	}
	groups := make(map[string]*acc)
	for _, r := range records {
		g, ok := groups[r.Commodity]
		if !ok {
			g = &acc{
				data:      spend.CommodityData{Commodity: r.Commodity},
				pns:       make(map[string]struct{}),
				suppliers: make(map[string]struct{}),
			}
			groups[r.Commodity] = g
		}
		g.data.TotalAPV += r.APV
		g.data.CoveredAPV += r.CoveredAPV
		g.data.TotalOpportunity += r.Opportunity
		g.pns[r.PNs] = struct{}{}
		g.suppliers[r.Supplier] = struct{}{}
	}

	out := make([]spend.CommodityData, 0, len(groups))
	for _, g := range groups {
		g.data.CoveredPNs = len(g.pns)
		g.data.SupplierCount = len(g.suppliers)
		if g.data.TotalAPV > 0 {
			g.data.GapPercent = g.data.TotalOpportunity / g.data.TotalAPV * 100
		}
		out = append(out, g.data)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAPV != out[j].TotalAPV {
			return out[i].TotalAPV > out[j].TotalAPV
		}
		return out[i].Commodity < out[j].Commodity
	})
	return out
}

// TopSuppliers ranks suppliers by total opportunity descending, supplier
// name ascending on ties. MainCommodity is the commodity holding the largest
// APV share within that supplier's records. limit <= 0 returns the full
// ranking.
func TopSuppliers(records []spend.Record, limit int) []spend.SupplierRank {
	type acc struct {
		rank        spend.SupplierRank
		commodities map[string]float64
	}
	groups := make(map[string]*acc)
	for _, r := range records {
		g, ok := groups[r.Supplier]
		if !ok {
			g = &acc{
				rank:        spend.SupplierRank{Supplier: r.Supplier},
				commodities: make(map[string]float64),
			}
			groups[r.Supplier] = g
		}
		g.rank.TotalAPV += r.APV
		g.rank.TotalOpportunity += r.Opportunity
		g.commodities[r.Commodity] += r.APV
	}

	out := make([]spend.SupplierRank, 0, len(groups))
	for _, g := range groups {
		if g.rank.TotalAPV > 0 {
			g.rank.GapPercent = g.rank.TotalOpportunity / g.rank.TotalAPV * 100
		}
		g.rank.MainCommodity = argMaxCommodity(g.commodities)
		out = append(out, g.rank)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalOpportunity != out[j].TotalOpportunity {
			return out[i].TotalOpportunity > out[j].TotalOpportunity
		}
		return out[i].Supplier < out[j].Supplier
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// argMaxCommodity picks the commodity with the highest APV, name-ascending
// on ties so the result is stable across runs.
func argMaxCommodity(byCommodity map[string]float64) string {
	best := ""
	bestAPV := 0.0
	first := true
	for name, apv := range byCommodity {
		if first || apv > bestAPV || (apv == bestAPV && name < best) {
			best, bestAPV = name, apv
			first = false
		}
	}
	return best
}

// TopProjects ranks individual records (one row is one project entry, no
// merging) by opportunity descending. Ties break by part number, then
// supplier.
func TopProjects(records []spend.Record, limit int) []spend.ProjectRank {
	out := make([]spend.ProjectRank, 0, len(records))
	for _, r := range records {
		out = append(out, spend.ProjectRank{
			PNs:         r.PNs,
			PartDesc:    r.PartDesc,
			Supplier:    r.Supplier,
			APV:         r.APV,
			Opportunity: r.Opportunity,
			GapPercent:  r.GapPercent,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Opportunity != out[j].Opportunity {
			return out[i].Opportunity > out[j].Opportunity
		}
		if out[i].PNs != out[j].PNs {
			return out[i].PNs < out[j].PNs
		}
		return out[i].Supplier < out[j].Supplier
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
