package testkit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecordsDeterministic(t *testing.T) {
	config := DefaultSpendConfig()
	config.RecordCount = 50

	first := NewSpendDataGenerator(config).GenerateRecords()
	second := NewSpendDataGenerator(config).GenerateRecords()

	require.Len(t, first, 50)
	assert.Equal(t, first, second)
}

func TestGenerateRecordsInvariants(t *testing.T) {
	records := NewSpendDataGenerator(DefaultSpendConfig()).GenerateRecords()

	for _, r := range records {
		assert.NotEmpty(t, r.PNs)
		assert.NotEmpty(t, r.Supplier)
		assert.InDelta(t, r.Quantity*r.Price, r.APV, 1e-9)
		assert.InDelta(t, r.APV-r.CoveredAPV, r.Opportunity, 1e-9)
		assert.GreaterOrEqual(t, r.CoveredAPV, 0.0)
		assert.LessOrEqual(t, r.CoveredAPV, r.APV)
		if r.APV != 0 {
			assert.InDelta(t, r.Opportunity/r.APV*100, r.GapPercent, 1e-9)
		}
	}
}

func TestGenerateCSV(t *testing.T) {
	config := DefaultSpendConfig()
	config.RecordCount = 10

	content, err := NewSpendDataGenerator(config).GenerateCSV()
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(content), []byte("\n"))
	require.Len(t, lines, 11)
	assert.Contains(t, string(lines[0]), "Covered APV")
}
