package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	currencyRunes = "$€£¥₽"

	dotThousands   = regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})+$`)
	commaThousands = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+$`)
)

// ParseNumeric coerces a raw spreadsheet cell into a float64. It tolerates
// currency symbols, percent signs, grouping separators (both "1,234.5" and
// "1.234,5" conventions) and surrounding whitespace. An empty cell parses as
// 0: spreadsheets routinely leave optional numeric columns blank, and only
// the ingestor knows which fields tolerate that.
func ParseNumeric(raw string) (float64, bool) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return 0, true
	}

	token = strings.ReplaceAll(token, " ", "")
	token = strings.ReplaceAll(token, "\u00a0", "")
	token = strings.TrimSuffix(token, "%")
	for _, r := range currencyRunes {
		token = strings.ReplaceAll(token, string(r), "")
	}

	// Accounting-style negatives: (1,234.50)
	if strings.HasPrefix(token, "(") && strings.HasSuffix(token, ")") {
		token = "-" + token[1:len(token)-1]
	}

	token = normalizeSeparators(token)
	if token == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// normalizeSeparators resolves comma/dot ambiguity: "1.234.567" and
// "1,234,567" are grouping, "1,5" with no dot is a decimal comma, and
// "1.234,56" is European convention.
func normalizeSeparators(token string) string {
	switch {
	case dotThousands.MatchString(token):
		return strings.ReplaceAll(token, ".", "")
	case commaThousands.MatchString(token):
		return strings.ReplaceAll(token, ",", "")
	case strings.Contains(token, ",") && strings.Contains(token, "."):
		if strings.LastIndex(token, ",") > strings.LastIndex(token, ".") {
			// European: dot groups, comma decimal
			token = strings.ReplaceAll(token, ".", "")
			return strings.ReplaceAll(token, ",", ".")
		}
		return strings.ReplaceAll(token, ",", "")
	case strings.Contains(token, ","):
		return strings.ReplaceAll(token, ",", ".")
	default:
		return token
	}
}
