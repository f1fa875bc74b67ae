package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendscope/domain/spend"
)

func TestBuildAnalyticsWorkbook(t *testing.T) {
	f, err := BuildAnalyticsWorkbook(ExportData{
		Summary: spend.KPISummary{
			TotalSpending:    150,
			SpendingCovered:  80,
			PNsCovered:       2,
			SuppliersCovered: 2,
			TotalOpportunity: 70,
			GapPercent:       46.67,
		},
		Commodities: []spend.CommodityData{
			{Commodity: "Castings", TotalAPV: 100, TotalOpportunity: 50},
			{Commodity: "Electronics", TotalAPV: 50, TotalOpportunity: 20},
		},
		TopSuppliers: []spend.SupplierRank{
			{Supplier: "Acme", TotalAPV: 100, TotalOpportunity: 50, MainCommodity: "Castings"},
		},
		Concentration: spend.ConcentrationSummary{
			CR3:            100,
			CR5:            100,
			TotalSuppliers: 2,
			TotalAPV:       150,
			TopSuppliers: []spend.SupplierShare{
				{Supplier: "Acme", APV: 100, Share: 66.67},
				{Supplier: "Borealis", APV: 50, Share: 33.33},
			},
		},
	})
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{"KPI Summary", "By Commodity", "Top Suppliers", "Concentration"}, sheets)

	value, err := f.GetCellValue("KPI Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "150", value)

	value, err = f.GetCellValue("By Commodity", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Castings", value)

	value, err = f.GetCellValue("Top Suppliers", "E2")
	require.NoError(t, err)
	assert.Equal(t, "Castings", value)

	value, err = f.GetCellValue("Concentration", "A7")
	require.NoError(t, err)
	assert.Equal(t, "Acme", value)
}
