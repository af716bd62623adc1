package core

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Column header names, in export order.
const (
	ColProductName           = "Product Name"
	ColProductClassification = "Product Classification"
	ColInStock               = "In Stock"
	ColCounted               = "Counted"
	ColVariance              = "Variance"
	ColNotes                 = "Notes"
	ColSKU                   = "SKU"
)

// AuditNote is appended to every row's Notes during reconciliation.
const AuditNote = "Variance caught by A.T."

// Columns returns the product table schema in export order.
func Columns() []string {
	return []string{
		ColProductName,
		ColProductClassification,
		ColInStock,
		ColCounted,
		ColVariance,
		ColNotes,
		ColSKU,
	}
}

// ProductRecord is one row of the product table.
type ProductRecord struct {
	ProductName           string `json:"Product Name"`
	ProductClassification string `json:"Product Classification"`
	InStock               int    `json:"In Stock"`
	Counted               int    `json:"Counted"`
	Variance              int    `json:"Variance"`
	Notes                 string `json:"Notes"`
	SKU                   string `json:"SKU"`
}

// Cells returns the record as strings in Columns order.
func (r ProductRecord) Cells() []string {
	return []string{
		r.ProductName,
		r.ProductClassification,
		strconv.Itoa(r.InStock),
		strconv.Itoa(r.Counted),
		strconv.Itoa(r.Variance),
		r.Notes,
		r.SKU,
	}
}

// Format identifies a supported table file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ParseFormat converts a format name or extension ("csv", ".XLSX") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath derives the format from a file path's extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, filepath.Base(path))
	}
	return ParseFormat(ext)
}

// TableStore loads and saves product tables.
// Implementations infer the format of a loaded file from its extension.
type TableStore interface {
	// Load reads all rows from path and reports the detected format.
	Load(path string) ([]ProductRecord, Format, error)

	// Save writes rows in the given format into dir (current directory when
	// empty) and returns the path written.
	Save(format Format, dir string, rows []ProductRecord) (string, error)
}

// Counters holds the reconciliation tallies for a session.
type Counters struct {
	Variance int `json:"variance"`
	Missed   int `json:"missed"`
}

// Outcome is the terminal signal returned by Session.Shutdown.
// The caller decides whether to exit the process; core never does.
type Outcome struct {
	Terminate     bool   `json:"terminate"`
	ExitCode      int    `json:"exitCode"`
	ExportPath    string `json:"exportPath,omitempty"`
	VarianceCount int    `json:"varianceCount"`
	MissedCount   int    `json:"missedCount"`
}
