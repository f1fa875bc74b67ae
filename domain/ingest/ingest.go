// Package ingest turns raw spreadsheet rows into normalized spend records
// using a confirmed column mapping. Row problems are recovered locally: a
// bad row lands on the rejection list and the batch continues.
package ingest

import (
	"strings"

	"github.com/montanaflynn/stats"

	"spendscope/domain/mapping"
	"spendscope/domain/spend"
)

// RawRow is one spreadsheet row keyed by original header.
type RawRow map[string]string

// Rejection reasons
const (
	ReasonInvalidNumericField = "invalid_numeric_field"
	ReasonMissingKeyFields    = "missing_key_fields"
)

// Rejection records why one row was dropped.
type Rejection struct {
	RowIndex int    `json:"row_index"`
	Reason   string `json:"reason"`
}

// Result is the outcome of one ingestion batch.
type Result struct {
	Records  []spend.Record `json:"records"`
	Rejected []Rejection    `json:"rejected"`
}

// Ingest builds one spend.Record per raw row from the confirmed mapping.
// Ingestion is all-or-nothing per row and row-independent: a rejection never
// aborts the batch. A row must identify at least what was bought and from
// whom; rows with neither part number nor supplier are rejected. Numeric
// cells that fail coercion reject the row, and an empty APV cell counts as a
// failure since every downstream aggregate divides by it.
func Ingest(confirmed []mapping.ColumnMapping, rows []RawRow) Result {
	result := Result{}
	for i, row := range rows {
		record, reason := buildRecord(confirmed, row)
		if reason != "" {
			result.Rejected = append(result.Rejected, Rejection{RowIndex: i, Reason: reason})
			continue
		}
		result.Records = append(result.Records, record)
	}
	return result
}

func buildRecord(confirmed []mapping.ColumnMapping, row RawRow) (spend.Record, string) {
	var record spend.Record
	opportunityMapped := false
	gapPercentMapped := false

	for _, m := range confirmed {
		if !m.IsMapped || m.MappedField == nil {
			continue
		}
		raw := strings.TrimSpace(row[m.OriginalHeader])
		field := *m.MappedField

		if field.IsNumeric() {
			value, ok := ParseNumeric(raw)
			if !ok {
				return spend.Record{}, ReasonInvalidNumericField
			}
			if field == mapping.FieldAPV && raw == "" {
				return spend.Record{}, ReasonInvalidNumericField
			}
			assignNumeric(&record, field, value)
			if field == mapping.FieldOpportunity {
				opportunityMapped = true
			}
			if field == mapping.FieldGapPercent {
				gapPercentMapped = true
			}
			continue
		}
		assignText(&record, field, raw)
	}

	if record.PNs == "" && record.Supplier == "" {
		return spend.Record{}, ReasonMissingKeyFields
	}

	// Derived fields use the invariant formulas only when the source sheet
	// did not carry them directly. Opportunity is deliberately not clamped
	// at zero: over-coverage passes through as negative opportunity.
	if !opportunityMapped {
		record.Opportunity = record.APV - record.CoveredAPV
	}
	if !gapPercentMapped {
		if record.APV > 0 {
			record.GapPercent = record.Opportunity / record.APV * 100
		} else {
			record.GapPercent = 0
		}
	}
	return record, ""
}

func assignNumeric(r *spend.Record, field mapping.Field, value float64) {
	switch field {
	case mapping.FieldQuantity:
		r.Quantity = value
	case mapping.FieldPrice:
		r.Price = value
	case mapping.FieldAPV:
		r.APV = value
	case mapping.FieldCoveredAPV:
		r.CoveredAPV = value
	case mapping.FieldTargetCost:
		r.TargetCost = value
	case mapping.FieldTargetSpend:
		r.TargetSpend = value
	case mapping.FieldGapToTarget:
		r.GapToTarget = value
	case mapping.FieldOpportunity:
		r.Opportunity = value
	case mapping.FieldGapPercent:
		r.GapPercent = value
	}
}

func assignText(r *spend.Record, field mapping.Field, value string) {
	switch field {
	case mapping.FieldPNs:
		r.PNs = value
	case mapping.FieldPartDesc:
		r.PartDesc = value
	case mapping.FieldCommodity:
		r.Commodity = value
	case mapping.FieldSupplier:
		r.Supplier = value
	case mapping.FieldCurrency:
		r.Currency = value
	}
}

// AggregateBySupplierPart merges rows sharing a (PNs, Supplier) pair so the
// pair becomes unique while dual sourcing survives as separate rows per
// supplier. Additive fields sum; price and gap% are re-derived from the
// merged totals (weighted), falling back to plain means when the
// denominators are zero. Output keeps first-appearance order.
func AggregateBySupplierPart(records []spend.Record) []spend.Record {
	type key struct{ pns, supplier string }

	index := make(map[key]int)
	var groups [][]spend.Record
	var order []key

	for _, r := range records {
		k := key{r.PNs, r.Supplier}
		if pos, ok := index[k]; ok {
			groups[pos] = append(groups[pos], r)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, []spend.Record{r})
		order = append(order, k)
	}

	merged := make([]spend.Record, 0, len(order))
	for _, k := range order {
		group := groups[index[k]]
		out := group[0]
		if len(group) == 1 {
			merged = append(merged, out)
			continue
		}

		out.Quantity, out.APV, out.CoveredAPV = 0, 0, 0
		out.TargetCost, out.TargetSpend, out.GapToTarget, out.Opportunity = 0, 0, 0, 0
		prices := make([]float64, 0, len(group))
		gaps := make([]float64, 0, len(group))
		for _, r := range group {
			out.Quantity += r.Quantity
			out.APV += r.APV
			out.CoveredAPV += r.CoveredAPV
			out.TargetCost += r.TargetCost
			out.TargetSpend += r.TargetSpend
			out.GapToTarget += r.GapToTarget
			out.Opportunity += r.Opportunity
			prices = append(prices, r.Price)
			gaps = append(gaps, r.GapPercent)
		}

		if out.Quantity > 0 {
			out.Price = out.APV / out.Quantity
		} else {
			out.Price, _ = stats.Mean(prices)
		}
		if out.APV > 0 {
			out.GapPercent = out.Opportunity / out.APV * 100
		} else {
			out.GapPercent, _ = stats.Mean(gaps)
		}
		merged = append(merged, out)
	}
	return merged
}
