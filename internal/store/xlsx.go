package store

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/stockaudit/internal/core"
)

// xlsxSheet is the sheet name used for exports.
const xlsxSheet = "Sheet1"

// decodeXLSX reads the first worksheet of a workbook.
func decodeXLSX(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("parse xlsx: workbook has no sheets")
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("parse xlsx sheet %q: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("parse xlsx: sheet %q has no header row", sheets[0])
	}
	return all[0], all[1:], nil
}

// encodeXLSX writes rows to a single sheet. Quantity columns are stored as
// numbers so they stay summable in a spreadsheet.
func encodeXLSX(w io.Writer, rows []core.ProductRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, 0, len(core.Columns()))
	for _, c := range core.Columns() {
		header = append(header, c)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			r.ProductName,
			r.ProductClassification,
			r.InStock,
			r.Counted,
			r.Variance,
			r.Notes,
			r.SKU,
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return fmt.Errorf("write xlsx row %s: %w", r.SKU, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
