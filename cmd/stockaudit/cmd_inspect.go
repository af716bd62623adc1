package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/stockaudit/internal/core"
)

// inspectReport is the JSON form of inspect output.
type inspectReport struct {
	Source        string               `json:"source"`
	Format        core.Format          `json:"format"`
	Rows          int                  `json:"rows"`
	DuplicateSKUs []string             `json:"duplicateSkus"`
	Products      []core.ProductRecord `json:"products,omitempty"`
}

func newInspectCmd(a *app) *cobra.Command {
	var asJSON, showRows bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Validate a product table without starting an audit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(args[0], core.SessionOptions{})
			if err != nil {
				return err
			}

			rep := inspectReport{
				Source:        sess.Source(),
				Format:        sess.Format(),
				Rows:          len(sess.Products()),
				DuplicateSKUs: sess.DuplicateSKUs(),
			}
			if showRows {
				rep.Products = sess.Products()
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}

			fmt.Fprintf(out, "%s: %d rows (%s)\n", rep.Source, rep.Rows, rep.Format)
			if len(rep.DuplicateSKUs) > 0 {
				fmt.Fprintf(out, "duplicate SKUs: %v\n", rep.DuplicateSKUs)
			}
			if showRows {
				fmt.Fprintln(out, renderProducts(rep.Products))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&showRows, "rows", false, "include every product row")
	return cmd
}

// renderProducts draws rows as a bordered table with a trailing row count.
func renderProducts(rows []core.ProductRecord) string {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, r.Cells())
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(core.Columns()...).
		Rows(data...).
		Render() + "\n" + strconv.Itoa(len(rows)) + " rows"
}
