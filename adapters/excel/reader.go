// Package excel reads uploaded spreadsheets (xlsx and csv) into the raw
// header/row shape the mapping and ingestion pipeline consumes, and writes
// analytics export workbooks.
package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"spendscope/domain/mapping"
	"spendscope/internal/errors"
)

// RawRowData is one row keyed by original header.
type RawRowData = map[string]string

// TabularData is the parsed content of one uploaded file.
type TabularData struct {
	Headers        []string
	Rows           []RawRowData
	HeaderRowIndex int
}

// keyHeaderTokens are normalized tokens whose presence marks a row as the
// real header row. Procurement exports often carry title/metadata rows above
// the table, so the header is detected, not assumed.
var keyHeaderTokens = map[string]bool{
	"pns":        true,
	"pn":         true,
	"partnumber": true,
	"partno":     true,
	"qty":        true,
	"quantity":   true,
	"supplier":   true,
	"vendor":     true,
	"commodity":  true,
	"apv":        true,
}

// headerScanLimit bounds how deep the header search goes.
const headerScanLimit = 10

// Parse reads uploaded file content into tabular form. A file that cannot be
// read as tabular data is fatal: no partial result is produced.
func Parse(content []byte, filename string) (*TabularData, error) {
	var rows [][]string
	var err error
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		rows, err = readCSV(content)
	} else {
		rows, err = readXLSX(content)
	}
	if err != nil {
		return nil, errors.UnreadableFile(err)
	}
	if len(rows) < 2 {
		return nil, errors.UnreadableFile(fmt.Errorf("file must have a header row and at least one data row"))
	}
	return processRows(rows, filename), nil
}

func readXLSX(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(content []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rows, nil
}

// processRows locates the header row and converts everything below it into
// header-keyed row maps.
func processRows(rows [][]string, filename string) *TabularData {
	headerIdx := detectHeaderRow(rows)

	headerRow := rows[headerIdx]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	var dataRows []RawRowData
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) && headers[j] != "" {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	log.Printf("[excel] %s parsed (%d columns, %d rows, header at row %d)",
		filename, len(headers), len(dataRows), headerIdx+1)

	return &TabularData{
		Headers:        headers,
		Rows:           dataRows,
		HeaderRowIndex: headerIdx,
	}
}

// detectHeaderRow finds the first row containing a known standard-field
// token. Falls back to row 0 when nothing matches.
func detectHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			if keyHeaderTokens[mapping.Normalize(cell)] {
				return i
			}
		}
	}
	return 0
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// PreviewRows returns up to n rows for the mapping confirmation dialog.
func (d *TabularData) PreviewRows(n int) []RawRowData {
	if n <= 0 || n > len(d.Rows) {
		n = len(d.Rows)
	}
	return d.Rows[:n]
}
