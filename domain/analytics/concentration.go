package analytics

import (
	"sort"

	"spendscope/domain/spend"
)

// Concentration sums APV per supplier and reports CR3/CR5 plus per-supplier
// shares, ordered by APV descending (name ascending on ties). With fewer
// than 3 or 5 suppliers the ratios cover whatever exists; zero total APV
// degrades every percentage to 0.
func Concentration(records []spend.Record) spend.ConcentrationSummary {
	bySupplier := make(map[string]float64)
	var totalAPV float64
	for _, r := range records {
		bySupplier[r.Supplier] += r.APV
		totalAPV += r.APV
	}

	shares := make([]spend.SupplierShare, 0, len(bySupplier))
	for supplier, apv := range bySupplier {
		shares = append(shares, spend.SupplierShare{Supplier: supplier, APV: apv})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].APV != shares[j].APV {
			return shares[i].APV > shares[j].APV
		}
		return shares[i].Supplier < shares[j].Supplier
	})

	summary := spend.ConcentrationSummary{
		TotalSuppliers: len(shares),
		TotalAPV:       totalAPV,
		TopSuppliers:   shares,
	}
	if totalAPV <= 0 {
		return summary
	}

	for i := range shares {
		shares[i].Share = shares[i].APV / totalAPV * 100
	}
	summary.CR3 = topShareSum(shares, 3) / totalAPV * 100
	summary.CR5 = topShareSum(shares, 5) / totalAPV * 100
	return summary
}

func topShareSum(shares []spend.SupplierShare, n int) float64 {
	if n > len(shares) {
		n = len(shares)
	}
	var sum float64
	for _, s := range shares[:n] {
		sum += s.APV
	}
	return sum
}
