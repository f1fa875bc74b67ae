package analytics

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"spendscope/domain/spend"
)

// OpportunityMatrix exposes one scatter point per record. No aggregation
// happens here; quadrant classification against thresholds belongs to the
// presentation layer, which defaults to the medians below.
func OpportunityMatrix(records []spend.Record) []spend.MatrixPoint {
	points := make([]spend.MatrixPoint, 0, len(records))
	for _, r := range records {
		points = append(points, spend.MatrixPoint{
			PNs:         r.PNs,
			PartDesc:    r.PartDesc,
			Supplier:    r.Supplier,
			Commodity:   r.Commodity,
			APV:         r.APV,
			GapPercent:  r.GapPercent,
			Opportunity: r.Opportunity,
		})
	}
	return points
}

// Median is the threshold helper for quadrant classification. Empty input
// yields 0.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Median(values)
	if err != nil {
		return 0
	}
	return m
}

// MatrixStats summarizes the matrix for narrative generation: quadrant
// counts at the median thresholds plus the linear correlation between APV
// and gap%. Points sitting exactly on a threshold count as "high".
func MatrixStats(points []spend.MatrixPoint) spend.MatrixStats {
	var s spend.MatrixStats
	if len(points) == 0 {
		return s
	}

	apvs := make([]float64, len(points))
	gaps := make([]float64, len(points))
	for i, p := range points {
		apvs[i] = p.APV
		gaps[i] = p.GapPercent
	}

	s.MedianAPV = Median(apvs)
	s.MedianGapPercent = Median(gaps)

	for _, p := range points {
		highSpend := p.APV >= s.MedianAPV
		highGap := p.GapPercent >= s.MedianGapPercent
		switch {
		case highSpend && highGap:
			s.HighSpendHighGap++
		case highSpend:
			s.HighSpendLowGap++
		case highGap:
			s.LowSpendHighGap++
		default:
			s.LowSpendLowGap++
		}
	}

	if len(points) >= 2 {
		if corr := stat.Correlation(apvs, gaps, nil); !math.IsNaN(corr) {
			s.APVGapCorrelation = corr
		}
	}
	return s
}
