package application

import (
	tea "github.com/charmbracelet/bubbletea"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

// MenuItem is one selectable line. Items with a Submenu navigate, items
// with an Action run it against the model.
type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func(m *Model) tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

// linkParents sets Parent pointers and points every "Back" item at the
// enclosing menu.
func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

func buildMenuTree() *Menu {

	/* Submenus */
	counting := &Menu{
		Title: "Count",
		Items: []MenuItem{
			{Label: "Set count", Action: promptSetCount},
			{Label: "Add to count", Action: promptAddToCount},
			{Label: "Receipt", Action: promptReceipt},
			{Label: "Back"},
		},
	}

	/* Root Menu */
	root := &Menu{
		Title: "Stock Audit",
		Items: []MenuItem{
			{Label: "Count ->", Submenu: counting},
			{Label: "Find product", Action: promptFind},
			{Label: "Remove product", Action: promptRemove},
			{Label: "Finish audit", Action: promptFinish},
			{Label: "Quit without saving", Action: func(m *Model) tea.Cmd {
				m.aborted = true
				return tea.Quit
			}},
		},
	}

	linkParents(root, nil)

	return root
}
