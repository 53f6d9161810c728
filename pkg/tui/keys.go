package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the dataset browser.
type KeyMap struct {
	// Filter.
	Search      key.Binding // Start editing the filter term.
	CycleField  key.Binding // Filter on the next column.
	ClearSearch key.Binding // Leave the term editor and drop the term.
	Accept      key.Binding // Leave the term editor and keep the term.

	// Sorting: the digit selects the column in display order.
	Sort key.Binding

	// Paging.
	NextPage     key.Binding
	PreviousPage key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	CycleField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "search column"),
	),
	ClearSearch: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
	Accept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "done"),
	),
	Sort: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7"),
		key.WithHelp("1-7", "sort"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("n", "right", "pgdown"),
		key.WithHelp("n/→", "next page"),
	),
	PreviousPage: key.NewBinding(
		key.WithKeys("p", "left", "pgup"),
		key.WithHelp("p/←", "previous page"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.CycleField, k.Sort, k.NextPage, k.PreviousPage, k.Quit}
}
