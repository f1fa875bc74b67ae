package excel

import (
	"fmt"
	"log"
	"strings"

	"spendscope/domain/costtree"
	"spendscope/domain/ingest"
	"spendscope/domain/mapping"
	"spendscope/internal/errors"
)

// CostSheet is the parsed content of one cost-breakdown upload: header
// metadata plus the flat leaf items the tree builder folds up.
type CostSheet struct {
	PartNumber    string
	Supplier      string
	TargetPrice   float64
	SupplierPrice float64
	Items         []costtree.LineItem
}

// metadata labels recognized above the line-item table, normalized form.
var costMetaLabels = map[string]string{
	"partnumber":    "part_number",
	"pn":            "part_number",
	"supplier":      "supplier",
	"vendor":        "supplier",
	"targetprice":   "target_price",
	"supplierprice": "supplier_price",
	"quotedprice":   "supplier_price",
}

// ParseCostSheet reads a cost-breakdown workbook. The sheet carries a few
// label/value metadata rows (part number, supplier, prices), then a header
// row for the item table, then one row per leaf cost item. A sheet without a
// recognizable item table is unreadable, not partially parsed.
func ParseCostSheet(content []byte, filename string) (*CostSheet, error) {
	rows, err := readXLSX(content)
	if err != nil {
		return nil, errors.UnreadableFile(err)
	}

	headerIdx := findCostHeaderRow(rows)
	if headerIdx < 0 {
		return nil, errors.UnreadableFile(fmt.Errorf("no item table header found (need item/process/target/actual columns)"))
	}

	sheet := &CostSheet{}
	parseCostMetadata(rows[:headerIdx], sheet)

	columns := costColumnIndex(rows[headerIdx])
	skipped := 0
	for _, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}
		item, ok := parseCostItem(row, columns)
		if !ok {
			skipped++
			continue
		}
		sheet.Items = append(sheet.Items, item)
	}
	if len(sheet.Items) == 0 {
		return nil, errors.UnreadableFile(fmt.Errorf("item table contains no parsable rows"))
	}
	if skipped > 0 {
		log.Printf("[excel] %s: skipped %d malformed cost rows", filename, skipped)
	}

	// Sheets without explicit prices fall back to the item totals so the
	// session header stays consistent with the tree root.
	if sheet.TargetPrice == 0 || sheet.SupplierPrice == 0 {
		var target, actual float64
		for _, item := range sheet.Items {
			target += item.TargetCost
			actual += item.ActualCost
		}
		if sheet.TargetPrice == 0 {
			sheet.TargetPrice = target
		}
		if sheet.SupplierPrice == 0 {
			sheet.SupplierPrice = actual
		}
	}
	return sheet, nil
}

// findCostHeaderRow locates the item table header: a row naming a process
// column and both cost columns.
func findCostHeaderRow(rows [][]string) int {
	for i, row := range rows {
		var hasProcess, hasTarget, hasActual bool
		for _, cell := range row {
			n := mapping.Normalize(cell)
			switch {
			case strings.Contains(n, "process") || strings.Contains(n, "operation"):
				hasProcess = true
			case strings.Contains(n, "target"):
				hasTarget = true
			case strings.Contains(n, "actual") || strings.Contains(n, "quoted"):
				hasActual = true
			}
		}
		if hasProcess && hasTarget && hasActual {
			return i
		}
	}
	return -1
}

func parseCostMetadata(rows [][]string, sheet *CostSheet) {
	for _, row := range rows {
		for j := 0; j+1 < len(row); j++ {
			key, ok := costMetaLabels[mapping.Normalize(row[j])]
			if !ok {
				continue
			}
			value := strings.TrimSpace(row[j+1])
			switch key {
			case "part_number":
				sheet.PartNumber = value
			case "supplier":
				sheet.Supplier = value
			case "target_price":
				if v, ok := ingest.ParseNumeric(value); ok {
					sheet.TargetPrice = v
				}
			case "supplier_price":
				if v, ok := ingest.ParseNumeric(value); ok {
					sheet.SupplierPrice = v
				}
			}
		}
	}
}

type costColumns struct {
	item    int
	process int
	typ     int
	target  int
	actual  int
}

func costColumnIndex(header []string) costColumns {
	cols := costColumns{item: -1, process: -1, typ: -1, target: -1, actual: -1}
	for j, cell := range header {
		n := mapping.Normalize(cell)
		switch {
		case cols.item < 0 && (strings.Contains(n, "item") || strings.Contains(n, "description")):
			cols.item = j
		case cols.process < 0 && (strings.Contains(n, "process") || strings.Contains(n, "operation")):
			cols.process = j
		case cols.typ < 0 && (strings.Contains(n, "type") || strings.Contains(n, "category")):
			cols.typ = j
		case cols.target < 0 && strings.Contains(n, "target"):
			cols.target = j
		case cols.actual < 0 && (strings.Contains(n, "actual") || strings.Contains(n, "quoted")):
			cols.actual = j
		}
	}
	return cols
}

func parseCostItem(row []string, cols costColumns) (costtree.LineItem, bool) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	item := costtree.LineItem{
		ItemName: cell(cols.item),
		Process:  cell(cols.process),
		Type:     cell(cols.typ),
	}
	if item.ItemName == "" {
		return costtree.LineItem{}, false
	}

	target, ok := ingest.ParseNumeric(cell(cols.target))
	if !ok {
		return costtree.LineItem{}, false
	}
	actual, ok := ingest.ParseNumeric(cell(cols.actual))
	if !ok {
		return costtree.LineItem{}, false
	}
	item.TargetCost = target
	item.ActualCost = actual
	return item, true
}
