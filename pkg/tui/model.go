// Package tui is a terminal browser over a view controller. It turns key
// presses into filter, sort and paging intents and renders the current page
// as a table.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ssargent/assetview/pkg/query"
	"github.com/ssargent/assetview/pkg/record"
	"github.com/ssargent/assetview/pkg/view"
)

// columnWidths are the minimum display widths, indexed by field
var columnWidths = map[record.Field]int{
	record.Ticker: 8,
	record.Date:   12,
	record.Open:   10,
	record.High:   10,
	record.Low:    10,
	record.Close:  10,
	record.Volume: 12,
}

// Model is the bubbletea model of the browser
type Model struct {
	controller *view.Controller
	keys       KeyMap
	theme      Theme
	input      textinput.Model
	editing    bool
	title      string
	width      int
	height     int
	err        error
}

// NewModel creates a browser driving controller. title is shown in the
// header, typically the dataset source.
func NewModel(controller *view.Controller, title string) Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "type to filter"
	input.CharLimit = 64
	input.SetValue(controller.Params().FilterTerm)

	return Model{
		controller: controller,
		keys:       DefaultKeyMap,
		theme:      DefaultTheme,
		input:      input,
		title:      title,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Accept):
		m.editing = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.ClearSearch):
		m.editing = false
		m.input.Blur()
		m.input.SetValue("")
		m.err = m.controller.SetFilterTerm("")
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.err = m.controller.SetFilterTerm(m.input.Value())
	}
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.editing = true
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.ClearSearch):
		m.input.SetValue("")
		m.err = m.controller.SetFilterTerm("")
	case key.Matches(msg, m.keys.CycleField):
		fields := record.Fields()
		next := fields[(int(m.controller.Params().FilterField)+1)%len(fields)]
		m.err = m.controller.SetFilterField(next)
	case key.Matches(msg, m.keys.Sort):
		fields := record.Fields()
		index := int(msg.String()[0] - '1')
		if index >= 0 && index < len(fields) {
			m.err = m.controller.ToggleSort(fields[index])
		}
	case key.Matches(msg, m.keys.NextPage):
		_, m.err = m.controller.NextPage()
	case key.Matches(msg, m.keys.PreviousPage):
		_, m.err = m.controller.PreviousPage()
	}
	return m, nil
}

// Editing reports whether the filter term editor has focus
func (m Model) Editing() bool {
	return m.editing
}

// View implements tea.Model
func (m Model) View() string {
	params := m.controller.Params()
	result := m.controller.Result()
	t := m.theme

	var b strings.Builder
	b.WriteString(t.Title.Render("AssetView " + m.title))
	b.WriteString("\n\n")

	// Filter line
	term := params.FilterTerm
	if m.editing {
		term = m.input.View()
	} else if term == "" {
		term = t.Empty.Render("none")
	}
	fmt.Fprintf(&b, "Search %s: %s\n\n", t.Header.Render(params.FilterField.Label()), term)

	// Table
	b.WriteString(m.renderHeader(params))
	b.WriteString("\n")
	if len(result.Rows) == 0 {
		b.WriteString(t.Empty.Render("No matching records"))
		b.WriteString("\n")
	}
	for _, row := range result.Rows {
		b.WriteString(m.renderRow(row))
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(t.Status.Render(pageStatus(result)))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(t.Error.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(t.Help.Render(m.helpLine()))
	return b.String()
}

func (m Model) renderHeader(params query.Params) string {
	cells := make([]string, 0, len(columnWidths))
	for i, f := range record.Fields() {
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		style := m.theme.Header
		if f == params.SortField {
			label += " " + sortArrow(params.SortDirection)
			style = m.theme.SortedCol
		}
		cells = append(cells, style.Width(columnWidths[f]+2).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m Model) renderRow(r record.Record) string {
	cells := make([]string, 0, len(columnWidths))
	for _, f := range record.Fields() {
		cells = append(cells, m.theme.Cell.Width(columnWidths[f]+2).Render(r.Get(f)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m Model) helpLine() string {
	bindings := m.keys.ShortHelp()
	if m.editing {
		bindings = []key.Binding{m.keys.Accept, m.keys.ClearSearch}
	}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, " • ")
}

func sortArrow(d query.Direction) string {
	if d == query.Descending {
		return "▼"
	}
	return "▲"
}

func pageStatus(result query.Result) string {
	if result.TotalFiltered == 0 {
		return "0 matches"
	}
	return fmt.Sprintf("Page %d of %d (%d matches)", result.Params.PageNumber, result.TotalPages, result.TotalFiltered)
}
