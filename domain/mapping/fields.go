// Package mapping infers how arbitrary spreadsheet headers line up with the
// standard procurement schema. Matching is data-driven: every standard field
// declares an ordered synonym list, and one scoring function evaluates all of
// them. Declaration order is the tie-breaker, so the tables below are
// ordered, not alphabetized.
package mapping

// Field is an enumerated target column identity in the standard schema.
type Field string

const (
	FieldPNs         Field = "PNs"
	FieldPartDesc    Field = "PartDescription"
	FieldCommodity   Field = "Commodity"
	FieldSupplier    Field = "Supplier"
	FieldCurrency    Field = "Currency"
	FieldQuantity    Field = "Quantity"
	FieldPrice       Field = "Price"
	FieldAPV         Field = "APV"
	FieldCoveredAPV  Field = "CoveredAPV"
	FieldTargetCost  Field = "TargetCost"
	FieldTargetSpend Field = "TargetSpend"
	FieldGapToTarget Field = "GapToTarget"
	FieldOpportunity Field = "Opportunity"
	FieldGapPercent  Field = "GapPercent"
)

type fieldDef struct {
	field   Field
	label   string
	numeric bool
	// synonyms are pre-normalized tokens (see Normalize); order matters for
	// tie-breaking within a field.
	synonyms []string
}

// fieldDefs is the process-wide, read-only standard field dictionary.
// First-declared field wins score ties across fields.
var fieldDefs = []fieldDef{
	{FieldPNs, "Part Number", false, []string{"pns", "pn", "partnumber", "partno", "part", "material", "materialnumber", "itemnumber"}},
	{FieldPartDesc, "Part Description", false, []string{"partdescription", "partdesc", "description", "desc", "itemdescription"}},
	{FieldCommodity, "Commodity", false, []string{"commodity", "category", "commoditygroup", "materialgroup"}},
	{FieldSupplier, "Supplier", false, []string{"supplier", "vendor", "supp", "mfr", "manufacturer", "suppliername"}},
	{FieldCurrency, "Currency", false, []string{"currency", "curr", "ccy"}},
	{FieldQuantity, "Quantity", true, []string{"quantity", "qty", "amount", "vol", "volume", "annualquantity"}},
	{FieldPrice, "Unit Price", true, []string{"price", "unitprice", "unitcost", "pieceprice"}},
	{FieldAPV, "Annual Purchase Value", true, []string{"apv", "annualpurchasevalue", "annualspend", "spend", "cost", "totalspend", "purchasevalue"}},
	{FieldCoveredAPV, "Covered APV", true, []string{"coveredapv", "covered", "coveredspend", "apvcovered"}},
	{FieldTargetCost, "Target Cost", true, []string{"targetcost", "target", "shouldcost"}},
	{FieldTargetSpend, "Target Spend", true, []string{"targetspend", "targetvalue"}},
	{FieldGapToTarget, "Gap to Target", true, []string{"gaptotarget", "gaptotgt", "targetgap"}},
	{FieldOpportunity, "Opportunity", true, []string{"opportunity", "opp", "diff", "gap", "saving", "savings", "potential"}},
	{FieldGapPercent, "Gap %", true, []string{"gappercent", "gappct", "gapratio", "opportunitypercent"}},
}

// Label returns the display label for a standard field.
func (f Field) Label() string {
	for _, def := range fieldDefs {
		if def.field == f {
			return def.label
		}
	}
	return string(f)
}

// IsNumeric reports whether the field carries a numeric value that ingestion
// must coerce.
func (f Field) IsNumeric() bool {
	for _, def := range fieldDefs {
		if def.field == f {
			return def.numeric
		}
	}
	return false
}

// IsValid reports whether f is a declared standard field.
func (f Field) IsValid() bool {
	for _, def := range fieldDefs {
		if def.field == f {
			return true
		}
	}
	return false
}

// StandardFields returns all standard fields in declaration order.
func StandardFields() []Field {
	out := make([]Field, len(fieldDefs))
	for i, def := range fieldDefs {
		out[i] = def.field
	}
	return out
}
