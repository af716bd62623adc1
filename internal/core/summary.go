package core

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// WriteSummary prints the variance count followed by a table of the items.
func WriteSummary(w io.Writer, count int, items []ProductRecord) error {
	if _, err := fmt.Fprintf(w, "%d products have a variance!\n", count); err != nil {
		return err
	}

	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = item.Cells()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Columns()...).
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
