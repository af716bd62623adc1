package core

// convert.go turns raw table cells into typed record fields.
//
// Spreadsheet exports are messy:
//   - Quantities with thousands separators or currency symbols ("1,200", "$40")
//   - Accounting negatives in parentheses ("(3)")
//   - Excel formula wrappers (="SKU-001")
//   - Integral values written as decimals ("12.0")
//
// Quantities are parsed through pgtype.Numeric so that decimal handling
// matches exactly what the value would be if stored as NUMERIC.

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseQuantity converts a cell to an integer quantity.
// Empty cells are zero. Non-integral values are an error.
func ParseQuantity(s string) (int, error) {
	n := toNumeric(s)
	if n == nil {
		return 0, nil
	}
	if !n.Valid {
		return 0, fmt.Errorf("invalid number %q", s)
	}

	v, err := n.Int64Value()
	if err != nil || !v.Valid {
		return 0, fmt.Errorf("invalid quantity %q: must be a whole number", s)
	}
	return int(v.Int64), nil
}

// toNumeric returns nil for an empty cell, an invalid Numeric for garbage.
func toNumeric(s string) *pgtype.Numeric {
	s = CleanCell(s)
	if s == "" {
		return nil
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	var n pgtype.Numeric
	if !numericRegex.MatchString(s) {
		return &n
	}
	if err := n.Scan(s); err != nil {
		return &pgtype.Numeric{}
	}
	return &n
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if inner, ok := unwrapFormula(s); ok {
		s = inner
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// CleanSKU normalizes an identifier cell. Only surrounding whitespace and a
// complete ="..." wrapper are removed; quotes and '=' inside a SKU are kept.
func CleanSKU(s string) string {
	s = strings.TrimSpace(s)
	if inner, ok := unwrapFormula(s); ok {
		return inner
	}
	return s
}

// unwrapFormula strips the ="..." wrapper Excel uses to keep leading zeros.
func unwrapFormula(s string) (string, bool) {
	if len(s) < 3 || !strings.HasPrefix(s, "=\"") || !strings.HasSuffix(s, "\"") {
		return "", false
	}
	return s[2 : len(s)-1], true
}
