package analytics

import (
	"testing"

	"spendscope/domain/spend"
)

func TestOpportunityMatrixOnePointPerRecord(t *testing.T) {
	records := sampleRecords()
	points := OpportunityMatrix(records)
	if len(points) != len(records) {
		t.Fatalf("expected %d points, got %d", len(records), len(points))
	}
	if points[0].PNs != "P1" || points[0].APV != 100 || points[0].GapPercent != 20 {
		t.Errorf("point 0 wrong: %+v", points[0])
	}
}

func TestMedian(t *testing.T) {
	if m := Median([]float64{1, 2, 3}); m != 2 {
		t.Errorf("median = %v, want 2", m)
	}
	if m := Median([]float64{1, 2, 3, 4}); m != 2.5 {
		t.Errorf("median = %v, want 2.5", m)
	}
	if m := Median(nil); m != 0 {
		t.Errorf("empty median = %v, want 0", m)
	}
}

func TestMatrixStatsQuadrants(t *testing.T) {
	points := []spend.MatrixPoint{
		{APV: 100, GapPercent: 80},
		{APV: 90, GapPercent: 10},
		{APV: 10, GapPercent: 70},
		{APV: 5, GapPercent: 5},
	}

	s := MatrixStats(points)
	// Medians: APV 50, gap 40.
	if s.MedianAPV != 50 || s.MedianGapPercent != 40 {
		t.Fatalf("medians = %v/%v, want 50/40", s.MedianAPV, s.MedianGapPercent)
	}
	if s.HighSpendHighGap != 1 || s.HighSpendLowGap != 1 || s.LowSpendHighGap != 1 || s.LowSpendLowGap != 1 {
		t.Errorf("quadrant counts wrong: %+v", s)
	}
	total := s.HighSpendHighGap + s.HighSpendLowGap + s.LowSpendHighGap + s.LowSpendLowGap
	if total != len(points) {
		t.Errorf("quadrants cover %d points, want %d", total, len(points))
	}
}

func TestMatrixStatsEmpty(t *testing.T) {
	s := MatrixStats(nil)
	if s != (spend.MatrixStats{}) {
		t.Errorf("empty input must yield zero stats: %+v", s)
	}
}
