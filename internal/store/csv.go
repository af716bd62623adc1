package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/stockaudit/internal/core"
)

func decodeCSV(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("parse csv: file has no header row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv header: %w", err)
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func encodeCSV(w io.Writer, rows []core.ProductRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(core.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Cells()); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.SKU, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
