package application

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/stockaudit/internal/core"
)

// prompt is a multi-step input form. run receives one value per label.
type prompt struct {
	title  string
	labels []string
	values []string
	// initial prefills the input for the matching step.
	initial map[int]string
	run     func(m *Model, values []string) (string, tea.Cmd, error)
}

func promptSetCount(m *Model) tea.Cmd {
	return m.startPrompt(countPrompt("Set count", "New count", func(s *core.Session, sku string, n int) error {
		return s.SetCount(sku, n)
	}))
}

func promptAddToCount(m *Model) tea.Cmd {
	return m.startPrompt(countPrompt("Add to count", "Quantity to add", func(s *core.Session, sku string, n int) error {
		return s.IncreaseCount(sku, n)
	}))
}

func promptReceipt(m *Model) tea.Cmd {
	return m.startPrompt(countPrompt("Receipt", "Receipt quantity", func(s *core.Session, sku string, n int) error {
		return s.DecreaseCount(sku, n)
	}))
}

func countPrompt(title, qtyLabel string, apply func(*core.Session, string, int) error) *prompt {
	return &prompt{
		title:  title,
		labels: []string{"SKU", qtyLabel},
		run: func(m *Model, v []string) (string, tea.Cmd, error) {
			sku := strings.TrimSpace(v[0])
			n, err := core.ParseQuantity(v[1])
			if err != nil {
				return "", nil, err
			}
			if err := apply(m.session, sku, n); err != nil {
				return "", nil, err
			}
			rec, err := m.session.FindBySKU(sku)
			if err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("%s: counted is now %d", describe(rec), rec.Counted), nil, nil
		},
	}
}

func promptFind(m *Model) tea.Cmd {
	return m.startPrompt(&prompt{
		title:  "Find product",
		labels: []string{"SKU"},
		run: func(m *Model, v []string) (string, tea.Cmd, error) {
			rec, err := m.session.FindBySKU(strings.TrimSpace(v[0]))
			if err != nil {
				return "", nil, err
			}
			m.selectSKU(rec.SKU)
			return fmt.Sprintf("%s: in stock %d, counted %d", describe(rec), rec.InStock, rec.Counted), nil, nil
		},
	})
}

func promptRemove(m *Model) tea.Cmd {
	return m.startPrompt(&prompt{
		title:  "Remove product",
		labels: []string{"SKU"},
		run: func(m *Model, v []string) (string, tea.Cmd, error) {
			sku := strings.TrimSpace(v[0])
			n, err := m.session.RemoveProduct(sku)
			if err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("Removed %d row(s) for %s", n, sku), nil, nil
		},
	})
}

func promptFinish(m *Model) tea.Cmd {
	return m.startPrompt(&prompt{
		title:   "Finish audit",
		labels:  []string{"Export directory (blank for current)"},
		initial: map[int]string{0: m.exportDir},
		run: func(m *Model, v []string) (string, tea.Cmd, error) {
			outcome, err := m.session.Shutdown(strings.TrimSpace(v[0]))
			if err != nil {
				return "", nil, err
			}
			m.outcome = outcome
			if outcome.Terminate {
				return "Exported to " + outcome.ExportPath, tea.Quit, nil
			}
			return "Audit finished", nil, nil
		},
	})
}

func describe(rec core.ProductRecord) string {
	if rec.ProductName == "" {
		return rec.SKU
	}
	return fmt.Sprintf("%s (%s)", rec.ProductName, rec.SKU)
}
