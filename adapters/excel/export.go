package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"spendscope/domain/spend"
)

// ExportData is everything the analytics export workbook renders.
type ExportData struct {
	Summary       spend.KPISummary
	Commodities   []spend.CommodityData
	TopSuppliers  []spend.SupplierRank
	Concentration spend.ConcentrationSummary
}

// BuildAnalyticsWorkbook renders one session's aggregates into an xlsx
// workbook with one sheet per view. The caller streams the file and owns
// closing it.
func BuildAnalyticsWorkbook(data ExportData) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeSummarySheet(f, data.Summary); err != nil {
		return nil, err
	}
	if err := writeCommoditySheet(f, data.Commodities); err != nil {
		return nil, err
	}
	if err := writeSupplierSheet(f, data.TopSuppliers); err != nil {
		return nil, err
	}
	if err := writeConcentrationSheet(f, data.Concentration); err != nil {
		return nil, err
	}

	// Drop the default sheet so the workbook opens on the KPI summary.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	return f, nil
}

func writeSummarySheet(f *excelize.File, s spend.KPISummary) error {
	const sheet = "KPI Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Spending", s.TotalSpending},
		{"Spending Covered", s.SpendingCovered},
		{"PNs Covered", s.PNsCovered},
		{"Suppliers Covered", s.SuppliersCovered},
		{"Total Opportunity", s.TotalOpportunity},
		{"Gap %", s.GapPercent},
	}
	return writeRows(f, sheet, rows)
}

func writeCommoditySheet(f *excelize.File, commodities []spend.CommodityData) error {
	const sheet = "By Commodity"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Commodity", "Total APV", "Covered APV", "Total Opportunity", "Covered PNs", "Suppliers", "Gap %"},
	}
	for _, c := range commodities {
		rows = append(rows, []interface{}{
			c.Commodity, c.TotalAPV, c.CoveredAPV, c.TotalOpportunity, c.CoveredPNs, c.SupplierCount, c.GapPercent,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeSupplierSheet(f *excelize.File, suppliers []spend.SupplierRank) error {
	const sheet = "Top Suppliers"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Supplier", "Total APV", "Total Opportunity", "Gap %", "Main Commodity"},
	}
	for _, s := range suppliers {
		rows = append(rows, []interface{}{
			s.Supplier, s.TotalAPV, s.TotalOpportunity, s.GapPercent, s.MainCommodity,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeConcentrationSheet(f *excelize.File, c spend.ConcentrationSummary) error {
	const sheet = "Concentration"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"CR3", c.CR3},
		{"CR5", c.CR5},
		{"Total Suppliers", c.TotalSuppliers},
		{"Total APV", c.TotalAPV},
		{},
		{"Supplier", "APV", "Share %"},
	}
	for _, s := range c.TopSuppliers {
		rows = append(rows, []interface{}{s.Supplier, s.APV, s.Share})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
