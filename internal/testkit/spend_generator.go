// Package testkit generates deterministic procurement sample data for tests
// and local seeding.
package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"
	"strconv"

	"spendscope/domain/spend"
)

// SpendGeneratorConfig configures the sample data generator.
type SpendGeneratorConfig struct {
	RecordCount  int     `json:"record_count"`
	CoverageRate float64 `json:"coverage_rate"`
	Seed         int64   `json:"seed"`
}

// DefaultSpendConfig returns defaults that produce a plausible mid-size
// spend file.
func DefaultSpendConfig() SpendGeneratorConfig {
	return SpendGeneratorConfig{
		RecordCount:  200,
		CoverageRate: 0.7,
		Seed:         42,
	}
}

// SpendDataGenerator generates procurement spend records.
type SpendDataGenerator struct {
	config SpendGeneratorConfig
	rng    *rand.Rand
}

// NewSpendDataGenerator creates a generator with a fixed seed, so the same
// config always yields the same records.
func NewSpendDataGenerator(config SpendGeneratorConfig) *SpendDataGenerator {
	return &SpendDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var commodities = []string{
	"Machined Parts", "Castings", "Electronics", "Fasteners",
	"Plastics", "Stampings", "Cables", "Packaging",
}

var suppliers = []string{
	"Acme Precision", "Borealis Metals", "Cobalt Industries", "Delta Components",
	"Everest Manufacturing", "Fuji Technics", "Granite Castings", "Helios Electronics",
	"Ironwood Plastics", "Jupiter Fastener Co",
}

// GenerateRecords produces the configured number of records. Coverage and
// target figures follow the configured coverage rate with per-record noise.
func (g *SpendDataGenerator) GenerateRecords() []spend.Record {
	records := make([]spend.Record, 0, g.config.RecordCount)
	for i := 0; i < g.config.RecordCount; i++ {
		qty := float64(100 + g.rng.Intn(9900))
		price := 0.5 + g.rng.Float64()*49.5
		apv := qty * price

		coverage := 0.0
		if g.rng.Float64() < g.config.CoverageRate {
			coverage = 0.3 + g.rng.Float64()*0.7
		}
		coveredAPV := apv * coverage

		targetCost := price * (0.85 + g.rng.Float64()*0.1)
		targetSpend := qty * targetCost

		record := spend.Record{
			PNs:         fmt.Sprintf("PN-%05d", i+1),
			PartDesc:    fmt.Sprintf("Component %05d", i+1),
			Commodity:   commodities[g.rng.Intn(len(commodities))],
			Supplier:    suppliers[g.rng.Intn(len(suppliers))],
			Currency:    "EUR",
			Quantity:    qty,
			Price:       price,
			APV:         apv,
			CoveredAPV:  coveredAPV,
			TargetCost:  targetCost,
			TargetSpend: targetSpend,
			GapToTarget: apv - targetSpend,
			Opportunity: apv - coveredAPV,
		}
		if record.APV != 0 {
			record.GapPercent = record.Opportunity / record.APV * 100
		}
		records = append(records, record)
	}
	return records
}

// GenerateCSV renders the records as an uploadable CSV file with the
// standard column labels.
func (g *SpendDataGenerator) GenerateCSV() ([]byte, error) {
	records := g.GenerateRecords()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"PNs", "Part Description", "Commodity", "Supplier", "Currency", "Qty", "Price", "APV", "Covered APV", "Target Cost"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.PNs,
			r.PartDesc,
			r.Commodity,
			r.Supplier,
			r.Currency,
			strconv.FormatFloat(r.Quantity, 'f', 0, 64),
			strconv.FormatFloat(r.Price, 'f', 2, 64),
			strconv.FormatFloat(r.APV, 'f', 2, 64),
			strconv.FormatFloat(r.CoveredAPV, 'f', 2, 64),
			strconv.FormatFloat(r.TargetCost, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
