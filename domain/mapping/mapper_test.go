package mapping

import (
	"reflect"
	"testing"
)

func TestSuggestMappingsOnePerHeader(t *testing.T) {
	headers := []string{"Part No.", "Supplier", "xyz123", "", "Annual Spend", "Qty"}
	mappings := SuggestMappings(headers, nil)

	if len(mappings) != len(headers) {
		t.Fatalf("expected %d mappings, got %d", len(headers), len(mappings))
	}
	for i, m := range mappings {
		if m.OriginalHeader != headers[i] {
			t.Errorf("mapping %d: header %q, want %q", i, m.OriginalHeader, headers[i])
		}
		if m.Confidence < 0 || m.Confidence > 1 {
			t.Errorf("mapping %d: confidence %v out of [0,1]", i, m.Confidence)
		}
	}
}

func TestSuggestMappingsExamples(t *testing.T) {
	tests := []struct {
		header     string
		wantField  Field
		wantMapped bool
		wantConf   float64 // -1 means "any value >= MinConfidence"
	}{
		{"Part No.", FieldPNs, true, 1.0},
		{"PNs", FieldPNs, true, 1.0},
		{"Vendor", FieldSupplier, true, 1.0},
		{"Qty", FieldQuantity, true, 1.0},
		{"Annual Spend", FieldAPV, true, 1.0},
		{"Covered APV", FieldCoveredAPV, true, 1.0},
		{"Gap %", FieldOpportunity, true, 1.0}, // "gap" is an Opportunity synonym
		{"Supplier Name 2024", FieldSupplier, true, -1},
		{"xyz123", "", false, 0},
		{"", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			m := SuggestMappings([]string{tt.header}, nil)[0]
			if m.IsMapped != tt.wantMapped {
				t.Fatalf("IsMapped = %v, want %v (confidence %v)", m.IsMapped, tt.wantMapped, m.Confidence)
			}
			if !tt.wantMapped {
				if m.MappedField != nil {
					t.Errorf("expected nil field, got %v", *m.MappedField)
				}
				if m.Confidence != 0 {
					t.Errorf("expected confidence 0, got %v", m.Confidence)
				}
				return
			}
			if m.MappedField == nil || *m.MappedField != tt.wantField {
				t.Fatalf("field = %v, want %v", m.MappedField, tt.wantField)
			}
			if tt.wantConf >= 0 && m.Confidence != tt.wantConf {
				t.Errorf("confidence = %v, want %v", m.Confidence, tt.wantConf)
			}
			if tt.wantConf < 0 && m.Confidence < MinConfidence {
				t.Errorf("confidence = %v, want >= %v", m.Confidence, MinConfidence)
			}
		})
	}
}

func TestSuggestMappingsDeterministic(t *testing.T) {
	headers := []string{"Part No.", "Supplier", "Spend", "Gap", "Target", "Qty", "misc"}
	first := SuggestMappings(headers, nil)
	for i := 0; i < 10; i++ {
		again := SuggestMappings(headers, nil)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}

func TestDuplicateTargetsSurfaced(t *testing.T) {
	// Two headers that both resolve to Supplier must both stay proposed.
	mappings := SuggestMappings([]string{"Supplier", "Vendor"}, nil)
	for i, m := range mappings {
		if m.MappedField == nil || *m.MappedField != FieldSupplier {
			t.Fatalf("mapping %d: expected Supplier, got %v", i, m.MappedField)
		}
	}

	dupes := DuplicateTargets(mappings)
	headers, ok := dupes[FieldSupplier]
	if !ok {
		t.Fatal("expected Supplier flagged as duplicate target")
	}
	if len(headers) != 2 {
		t.Errorf("expected 2 contending headers, got %v", headers)
	}
}

func TestSetMapping(t *testing.T) {
	mappings := SuggestMappings([]string{"Part No.", "Vendor"}, nil)

	// Reassign "Vendor" to Commodity.
	commodity := FieldCommodity
	updated, err := SetMapping(mappings, "Vendor", &commodity)
	if err != nil {
		t.Fatal(err)
	}
	if *updated[1].MappedField != FieldCommodity || !updated[1].IsMapped {
		t.Errorf("override not applied: %+v", updated[1])
	}

	// Clearing keeps the suggested confidence as provenance.
	suggested := mappings[0].Confidence
	cleared, err := SetMapping(mappings, "Part No.", nil)
	if err != nil {
		t.Fatal(err)
	}
	if cleared[0].IsMapped || cleared[0].MappedField != nil {
		t.Errorf("expected unmapped column, got %+v", cleared[0])
	}
	if cleared[0].Confidence != suggested {
		t.Errorf("confidence changed on clear: %v != %v", cleared[0].Confidence, suggested)
	}

	// Originals stay untouched.
	if mappings[0].MappedField == nil {
		t.Error("SetMapping mutated its input")
	}

	if _, err := SetMapping(mappings, "nope", nil); err == nil {
		t.Error("expected error for unknown header")
	}
	bogus := Field("Bogus")
	if _, err := SetMapping(mappings, "Vendor", &bogus); err == nil {
		t.Error("expected error for unknown field")
	}
}
