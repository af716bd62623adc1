package store

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/JonMunkholm/stockaudit/internal/core"
)

// decodeJSON reads an array of objects keyed by column name. The header is
// the union of keys across all records, in order of first appearance with
// each record's keys sorted.
func decodeJSON(r io.Reader) ([]string, [][]string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, nil, fmt.Errorf("parse json: %w", err)
	}

	var header []string
	pos := make(map[string]int)
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := pos[k]; !ok {
				pos[k] = len(header)
				header = append(header, k)
			}
		}
	}

	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		row := make([]string, len(header))
		for k, v := range rec {
			cell, err := jsonCell(v)
			if err != nil {
				return nil, nil, fmt.Errorf("parse json record %d field %q: %w", i+1, k, err)
			}
			row[pos[k]] = cell
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func jsonCell(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}

func encodeJSON(w io.Writer, rows []core.ProductRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
