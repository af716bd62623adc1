// Package application is the terminal UI for running an audit session.
package application

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/stockaudit/internal/core"
)

// columnWidths follows core.Columns order.
var columnWidths = []int{24, 16, 9, 8, 9, 28, 14}

// Model is the bubbletea model for an audit session. Session calls happen
// inside Update only, never in commands, so the session is used from one
// goroutine.
type Model struct {
	session   *core.Session
	exportDir string

	menu   *Menu
	cursor int

	prompt *prompt
	step   int
	input  textinput.Model

	table table.Model

	status    string
	statusErr bool

	outcome core.Outcome
	aborted bool
}

// NewModel creates the UI for a loaded session. exportDir prefills the
// export prompt.
func NewModel(session *core.Session, exportDir string) Model {
	cols := make([]table.Column, 0, len(columnWidths))
	for i, title := range core.Columns() {
		cols = append(cols, table.Column{Title: title, Width: columnWidths[i]})
	}

	in := textinput.New()
	in.CharLimit = 256
	in.Width = 40

	m := Model{
		session:   session,
		exportDir: exportDir,
		menu:      buildMenuTree(),
		input:     in,
		table: table.New(
			table.WithColumns(cols),
			table.WithHeight(10),
		),
	}
	m.refreshTable()
	return m
}

// Outcome is the result of Finish audit. Terminate is false if the user quit
// without exporting.
func (m Model) Outcome() core.Outcome {
	return m.outcome
}

// Aborted reports whether the user left without finishing the audit.
func (m Model) Aborted() bool {
	return m.aborted
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width - 2)
		m.table.SetHeight(max(5, msg.Height-16))
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.aborted = true
			return m, tea.Quit
		}
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		return m.updateMenu(msg)
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu.Items)-1 {
			m.cursor++
		}
	case "esc", "backspace":
		if m.menu.Parent != nil {
			m.menu = m.menu.Parent
			m.cursor = 0
		}
	case "pgup", "pgdown":
		m.table, _ = m.table.Update(msg)
	case "enter":
		item := m.menu.Items[m.cursor]
		switch {
		case item.Submenu != nil:
			m.menu = item.Submenu
			m.cursor = 0
		case item.Action != nil:
			cmd := item.Action(&m)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompt = nil
		m.input.Blur()
		m.setStatus("Cancelled", nil)
		return m, nil

	case tea.KeyEnter:
		p := m.prompt
		p.values = append(p.values, m.input.Value())
		m.step++
		if m.step < len(p.labels) {
			m.resetInput()
			return m, nil
		}

		m.prompt = nil
		m.input.Blur()
		text, cmd, err := p.run(&m, p.values)
		m.setStatus(text, err)
		m.refreshTable()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startPrompt switches the UI into input mode for p.
func (m *Model) startPrompt(p *prompt) tea.Cmd {
	m.prompt = p
	m.step = 0
	m.resetInput()
	return m.input.Focus()
}

func (m *Model) resetInput() {
	m.input.Reset()
	m.input.Placeholder = m.prompt.labels[m.step]
	if v, ok := m.prompt.initial[m.step]; ok {
		m.input.SetValue(v)
	}
	m.input.Focus()
}

func (m *Model) setStatus(text string, err error) {
	if err != nil {
		m.status = core.FormatUserError(err)
		m.statusErr = true
		return
	}
	m.status = text
	m.statusErr = false
}

// refreshTable reloads rows from the session.
func (m *Model) refreshTable() {
	products := m.session.Products()
	rows := make([]table.Row, 0, len(products))
	for _, rec := range products {
		rows = append(rows, table.Row(rec.Cells()))
	}
	m.table.SetRows(rows)
}

// selectSKU moves the table cursor to the first row with sku.
func (m *Model) selectSKU(sku string) {
	for i, row := range m.table.Rows() {
		if row[len(row)-1] == sku {
			m.table.SetCursor(i)
			return
		}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.menu.Title))
	b.WriteString("\n")

	if m.prompt != nil {
		b.WriteString(promptStyle.Render(m.prompt.title + " - " + m.prompt.labels[m.step]))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter: confirm  esc: cancel"))
	} else {
		for i, item := range m.menu.Items {
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + item.Label))
			} else {
				b.WriteString(itemStyle.Render(item.Label))
			}
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("up/down: move  enter: select  esc: back  pgup/pgdown: scroll  ctrl+c: quit"))
	}
	b.WriteString("\n\n")

	if m.status != "" {
		style := statusOK
		if m.statusErr {
			style = statusErr
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, b.String(), tableBox.Render(m.table.View()))
}
