package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/stockaudit/internal/core"
)

// batchOps are the scripted operations, applied in field order.
type batchOps struct {
	set     []string
	add     []string
	receipt []string
	remove  []string
}

func newBatchCmd(a *app) *cobra.Command {
	var ops batchOps

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Apply counts from flags, reconcile and export",
		Long: "Apply counts non-interactively, then finish the audit.\n\n" +
			"Operations run in this order: --set, --add, --receipt, --remove.\n" +
			"Each count flag takes SKU=QTY and may be repeated.",
		Example: "  stockaudit batch stock.csv --set W-1=12 --add G-2=3 -o exports",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd, args[0], ops)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&ops.set, "set", nil, "set the counted quantity (SKU=QTY)")
	f.StringArrayVar(&ops.add, "add", nil, "add to the counted quantity (SKU=QTY)")
	f.StringArrayVar(&ops.receipt, "receipt", nil, "record a receipt (SKU=QTY)")
	f.StringArrayVar(&ops.remove, "remove", nil, "remove every row with this SKU")
	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, path string, ops batchOps) error {
	out := cmd.OutOrStdout()

	sess, err := a.openSession(path, core.SessionOptions{Out: out})
	if err != nil {
		return err
	}

	steps := []struct {
		flag  string
		specs []string
		apply func(sku string, n int) error
	}{
		{"set", ops.set, sess.SetCount},
		{"add", ops.add, sess.IncreaseCount},
		{"receipt", ops.receipt, sess.DecreaseCount},
	}
	for _, step := range steps {
		for _, spec := range step.specs {
			sku, n, err := parseCountSpec(spec)
			if err != nil {
				return fmt.Errorf("--%s %q: %w", step.flag, spec, err)
			}
			if err := step.apply(sku, n); err != nil {
				return err
			}
		}
	}
	for _, sku := range ops.remove {
		if _, err := sess.RemoveProduct(strings.TrimSpace(sku)); err != nil {
			return err
		}
	}

	outcome, err := sess.Shutdown(a.cfg.Audit.ExportDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d variance, %d missed\n", outcome.VarianceCount, outcome.MissedCount)
	return outcomeError(outcome)
}

// parseCountSpec splits SKU=QTY. The last '=' separates the quantity so SKUs
// may contain '='.
func parseCountSpec(spec string) (string, int, error) {
	i := strings.LastIndex(spec, "=")
	if i <= 0 {
		return "", 0, fmt.Errorf("want SKU=QTY")
	}
	sku := strings.TrimSpace(spec[:i])
	if sku == "" {
		return "", 0, fmt.Errorf("empty SKU")
	}
	n, err := core.ParseQuantity(spec[i+1:])
	if err != nil {
		return "", 0, err
	}
	return sku, n, nil
}
