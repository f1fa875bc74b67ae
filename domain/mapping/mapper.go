package mapping

import (
	"fmt"
	"strings"
)

// Confidence bands. An exact synonym match scores 1.0, partial matches land
// in [0.5, 0.8], and anything below MinConfidence ships unmapped.
const (
	exactConfidence   = 1.0
	substringBase     = 0.8
	overlapFloor      = 0.5
	overlapRange      = 0.3
	MinConfidence     = 0.5
	minSubstringChars = 3
)

// ColumnMapping pairs one source column with its best-matching standard
// field. Mutable only during user confirmation; ingestion treats the
// confirmed list as read-only.
type ColumnMapping struct {
	OriginalHeader string  `json:"original_header"`
	MappedField    *Field  `json:"mapped_field"`
	Confidence     float64 `json:"confidence"`
	IsMapped       bool    `json:"is_mapped"`
}

// SuggestMappings proposes a standard field for every header. The function
// is pure and total: exactly one ColumnMapping per input header, confidence
// in [0,1], never an error. Headers that match nothing come back with a nil
// field and confidence 0. Two headers may legitimately propose the same
// field; that ambiguity is surfaced (see DuplicateTargets), never silently
// resolved. Sample rows are accepted alongside headers but header text alone
// decides the proposal.
func SuggestMappings(headers []string, sampleRows []map[string]string) []ColumnMapping {
	mappings := make([]ColumnMapping, len(headers))
	for i, header := range headers {
		field, confidence := bestMatch(header)
		m := ColumnMapping{
			OriginalHeader: header,
			Confidence:     confidence,
		}
		if field != "" && confidence >= MinConfidence {
			f := field
			m.MappedField = &f
			m.IsMapped = true
		}
		mappings[i] = m
	}
	return mappings
}

// bestMatch scores a single header against the full dictionary. Ties are
// broken by declaration order: the first field (and within it the first
// synonym) to reach the top score wins.
func bestMatch(header string) (Field, float64) {
	normalized := Normalize(header)
	if normalized == "" {
		return "", 0
	}
	tokens := Tokens(header)

	var bestField Field
	var bestScore float64
	for _, def := range fieldDefs {
		for _, syn := range def.synonyms {
			score := matchScore(normalized, tokens, syn)
			if score > bestScore {
				bestScore = score
				bestField = def.field
			}
			if bestScore == exactConfidence {
				return bestField, bestScore
			}
		}
	}
	return bestField, bestScore
}

func matchScore(normalized string, tokens []string, synonym string) float64 {
	if normalized == synonym {
		return exactConfidence
	}
	if len(normalized) >= minSubstringChars && len(synonym) >= minSubstringChars {
		if strings.Contains(normalized, synonym) || strings.Contains(synonym, normalized) {
			return substringBase
		}
	}
	// Token overlap: fraction of header tokens found inside the synonym.
	// Lands in (0.5, 0.8] so partial matches always rank below substring
	// hits of the same field order.
	if len(tokens) == 0 {
		return 0
	}
	matched := 0
	for _, tok := range tokens {
		if len(tok) >= 2 && strings.Contains(synonym, tok) {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	return overlapFloor + overlapRange*float64(matched)/float64(len(tokens))
}

// SetMapping applies a user override for one header and returns the updated
// list. A nil field marks the column unmapped. The suggested confidence is
// kept untouched as provenance; overrides do not rescore.
func SetMapping(mappings []ColumnMapping, header string, field *Field) ([]ColumnMapping, error) {
	if field != nil && !field.IsValid() {
		return nil, fmt.Errorf("unknown standard field %q", *field)
	}
	updated := make([]ColumnMapping, len(mappings))
	copy(updated, mappings)
	for i := range updated {
		if updated[i].OriginalHeader != header {
			continue
		}
		if field == nil {
			updated[i].MappedField = nil
			updated[i].IsMapped = false
		} else {
			f := *field
			updated[i].MappedField = &f
			updated[i].IsMapped = true
		}
		return updated, nil
	}
	return nil, fmt.Errorf("no column named %q in mapping", header)
}

// DuplicateTargets reports standard fields claimed by more than one mapped
// header, in the order the headers appear. These are flagged ambiguities for
// the confirmation step, not errors.
func DuplicateTargets(mappings []ColumnMapping) map[Field][]string {
	byField := make(map[Field][]string)
	for _, m := range mappings {
		if m.IsMapped && m.MappedField != nil {
			byField[*m.MappedField] = append(byField[*m.MappedField], m.OriginalHeader)
		}
	}
	dupes := make(map[Field][]string)
	for field, headers := range byField {
		if len(headers) > 1 {
			dupes[field] = headers
		}
	}
	return dupes
}
