package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"spendscope/internal/errors"
)

func buildCostWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseCostSheet(t *testing.T) {
	content := buildCostWorkbook(t, [][]interface{}{
		{"Part Number", "P-100"},
		{"Supplier", "Acme Precision"},
		{"Target Price", "100", "Supplier Price", "120"},
		{},
		{"Item", "Process", "Type", "Target Cost", "Actual Cost"},
		{"Raw material", "Casting", "Material", 40, 45},
		{"Machining", "CNC", "Labor", 35, 42},
		{"Surface finish", "Coating", "Labor", 25, 33},
	})

	sheet, err := ParseCostSheet(content, "breakdown.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "P-100", sheet.PartNumber)
	assert.Equal(t, "Acme Precision", sheet.Supplier)
	assert.Equal(t, 100.0, sheet.TargetPrice)
	assert.Equal(t, 120.0, sheet.SupplierPrice)
	require.Len(t, sheet.Items, 3)
	assert.Equal(t, "Machining", sheet.Items[1].ItemName)
	assert.Equal(t, "CNC", sheet.Items[1].Process)
	assert.Equal(t, 42.0, sheet.Items[1].ActualCost)
}

func TestParseCostSheetPriceFallback(t *testing.T) {
	content := buildCostWorkbook(t, [][]interface{}{
		{"Item", "Process", "Type", "Target Cost", "Actual Cost"},
		{"Raw material", "Casting", "Material", 40, 45},
		{"Machining", "CNC", "Labor", 60, 70},
	})

	sheet, err := ParseCostSheet(content, "breakdown.xlsx")
	require.NoError(t, err)

	// No explicit prices in the sheet, so the item sums take over.
	assert.Equal(t, 100.0, sheet.TargetPrice)
	assert.Equal(t, 115.0, sheet.SupplierPrice)
}

func TestParseCostSheetSkipsMalformedRows(t *testing.T) {
	content := buildCostWorkbook(t, [][]interface{}{
		{"Item", "Process", "Type", "Target Cost", "Actual Cost"},
		{"Raw material", "Casting", "Material", 40, 45},
		{"", "CNC", "Labor", 10, 10},
		{"Bad numbers", "CNC", "Labor", "n/a", 10},
		{"Machining", "CNC", "Labor", 60, 70},
	})

	sheet, err := ParseCostSheet(content, "breakdown.xlsx")
	require.NoError(t, err)
	require.Len(t, sheet.Items, 2)
	assert.Equal(t, "Raw material", sheet.Items[0].ItemName)
	assert.Equal(t, "Machining", sheet.Items[1].ItemName)
}

func TestParseCostSheetNoItemTable(t *testing.T) {
	content := buildCostWorkbook(t, [][]interface{}{
		{"Part Number", "P-100"},
		{"Some", "Other", "Data"},
	})

	_, err := ParseCostSheet(content, "breakdown.xlsx")
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnreadableFile, errors.GetCode(err))
}

func TestParseCostSheetNoParsableItems(t *testing.T) {
	content := buildCostWorkbook(t, [][]interface{}{
		{"Item", "Process", "Type", "Target Cost", "Actual Cost"},
		{"", "", "", "", ""},
	})

	_, err := ParseCostSheet(content, "breakdown.xlsx")
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnreadableFile, errors.GetCode(err))
}
