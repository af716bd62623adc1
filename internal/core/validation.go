package core

// validation.go maps raw rows onto ProductRecord.
//
// Validation happens at two levels:
//  1. Header validation: required columns must be present (case-insensitive)
//  2. Row validation: quantity cells must parse as whole numbers
//
// Errors name the column and the 1-based data line so an operator can find
// the offending cell in a spreadsheet.

import (
	"fmt"
	"strings"
)

// FieldType represents the expected data type for a column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldQuantity
)

// FieldSpec defines validation rules for a single column.
type FieldSpec struct {
	Name     string    // Column header name
	Type     FieldType // Expected data type
	Required bool      // Column must exist in the header
}

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// ProductFieldSpecs describes the product table columns.
var ProductFieldSpecs = []FieldSpec{
	{Name: ColProductName, Type: FieldText, Required: true},
	{Name: ColProductClassification, Type: FieldText},
	{Name: ColInStock, Type: FieldQuantity, Required: true},
	{Name: ColCounted, Type: FieldQuantity},
	{Name: ColVariance, Type: FieldQuantity},
	{Name: ColNotes, Type: FieldText},
	{Name: ColSKU, Type: FieldText, Required: true},
}

// ValidationError represents a single invalid cell.
type ValidationError struct {
	Line    int    // 1-based data line, 0 for header errors
	Field   string // Column name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	switch {
	case e.Line > 0 && e.Field != "":
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	default:
		return e.Message
	}
}

// ValidateHeaders checks that all required columns exist and returns the
// header index.
func ValidateHeaders(headers []string) (HeaderIndex, error) {
	idx := MakeHeaderIndex(headers)
	var missing []string

	for _, spec := range ProductFieldSpecs {
		if !spec.Required {
			continue
		}
		if _, ok := idx[strings.ToLower(spec.Name)]; !ok {
			missing = append(missing, spec.Name)
		}
	}

	if len(missing) > 0 {
		return nil, ValidationError{
			Message: "missing required columns: " + strings.Join(missing, ", "),
		}
	}
	return idx, nil
}

// RecordFromRow builds a ProductRecord from a row using the header index.
// line is the 1-based data line used in error messages.
func RecordFromRow(row []string, idx HeaderIndex, line int) (ProductRecord, error) {
	var rec ProductRecord
	quantities := map[string]*int{
		ColInStock:  &rec.InStock,
		ColCounted:  &rec.Counted,
		ColVariance: &rec.Variance,
	}

	for _, spec := range ProductFieldSpecs {
		raw := getCell(row, idx, spec.Name)

		if spec.Type == FieldQuantity {
			n, err := ParseQuantity(raw)
			if err != nil {
				return ProductRecord{}, ValidationError{
					Line:    line,
					Field:   spec.Name,
					Value:   raw,
					Message: err.Error(),
				}
			}
			*quantities[spec.Name] = n
			continue
		}

		switch spec.Name {
		case ColProductName:
			rec.ProductName = strings.TrimSpace(raw)
		case ColProductClassification:
			rec.ProductClassification = strings.TrimSpace(raw)
		case ColNotes:
			rec.Notes = strings.TrimSpace(raw)
		case ColSKU:
			rec.SKU = CleanSKU(raw)
		}
	}

	return rec, nil
}

// getCell returns the cell for column name, or "" when the column is absent
// or the row is short.
func getCell(row []string, idx HeaderIndex, name string) string {
	pos, ok := idx[strings.ToLower(name)]
	if !ok || pos >= len(row) {
		return ""
	}
	return row[pos]
}

// IsEmptyRow reports whether every cell is blank.
func IsEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
