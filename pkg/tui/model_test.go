package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ssargent/assetview/pkg/query"
	"github.com/ssargent/assetview/pkg/record"
	"github.com/ssargent/assetview/pkg/view"
)

type staticSource []record.Record

func (s staticSource) Records() []record.Record { return s }

// testModel builds a browser over 12 records split into pages of 5.
// Tickers run T00..T11 and volumes count down, so sorting on volume
// reverses the ticker order.
func testModel(t *testing.T) Model {
	t.Helper()

	records := make(staticSource, 0, 12)
	for i := 0; i < 12; i++ {
		records = append(records, record.New(map[record.Field]string{
			record.Ticker: fmt.Sprintf("T%02d", i),
			record.Date:   fmt.Sprintf("2020-01-%02d", i+1),
			record.Close:  fmt.Sprintf("%d.00", 100+i),
			record.Volume: fmt.Sprintf("%d", 9000-i),
		}))
	}

	controller, err := view.NewController(records, query.NewEngine(query.Options{}), view.WithPageSize(5))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	model := NewModel(controller, "test.csv")
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return updated.(Model)
}

func press(t *testing.T, model Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range keys {
		updated, _ := model.Update(msg)
		model = updated.(Model)
	}
	return model
}

func runes(s string) []tea.KeyMsg {
	msgs := make([]tea.KeyMsg, 0, len(s))
	for _, char := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{char}})
	}
	return msgs
}

func firstTicker(model Model) string {
	rows := model.controller.Result().Rows
	if len(rows) == 0 {
		return ""
	}
	return rows[0].Get(record.Ticker)
}

func TestNewModel(t *testing.T) {
	model := testModel(t)

	if model.Editing() {
		t.Error("new model should not be editing")
	}
	if got := len(model.controller.Result().Rows); got != 5 {
		t.Errorf("first page should have 5 rows, got %d", got)
	}
	if model.Init() != nil {
		t.Error("Init should not return a command")
	}
}

func TestModelPaging(t *testing.T) {
	model := testModel(t)

	model = press(t, model, runes("n")...)
	if page := model.controller.Params().PageNumber; page != 2 {
		t.Errorf("after n, page should be 2, got %d", page)
	}
	if got := firstTicker(model); got != "T05" {
		t.Errorf("page 2 should start at T05, got %s", got)
	}

	// Past the last page nothing moves.
	model = press(t, model, runes("nnn")...)
	if page := model.controller.Params().PageNumber; page != 3 {
		t.Errorf("paging should stop at 3, got %d", page)
	}

	model = press(t, model, tea.KeyMsg{Type: tea.KeyLeft})
	if page := model.controller.Params().PageNumber; page != 2 {
		t.Errorf("after left, page should be 2, got %d", page)
	}
	model = press(t, model, runes("ppp")...)
	if page := model.controller.Params().PageNumber; page != 1 {
		t.Errorf("paging back should stop at 1, got %d", page)
	}
}

func TestModelSort(t *testing.T) {
	model := testModel(t)

	// 7 selects volume, ascending volume is descending ticker.
	model = press(t, model, runes("7")...)
	params := model.controller.Params()
	if params.SortField != record.Volume || params.SortDirection != query.Ascending {
		t.Fatalf("after 7, expected volume ascending, got %+v", params)
	}
	if got := firstTicker(model); got != "T11" {
		t.Errorf("lowest volume is T11, got %s", got)
	}

	// Again flips the direction.
	model = press(t, model, runes("7")...)
	if dir := model.controller.Params().SortDirection; dir != query.Descending {
		t.Errorf("second 7 should sort descending, got %s", dir)
	}
	if got := firstTicker(model); got != "T00" {
		t.Errorf("highest volume is T00, got %s", got)
	}

	// 1 returns to ticker ascending.
	model = press(t, model, runes("1")...)
	params = model.controller.Params()
	if params.SortField != record.Ticker || params.SortDirection != query.Ascending {
		t.Errorf("after 1, expected ticker ascending, got %+v", params)
	}
}

func TestModelFilter(t *testing.T) {
	model := testModel(t)
	model = press(t, model, runes("n")...)

	// Activate filter (/).
	model = press(t, model, runes("/")...)
	if !model.Editing() {
		t.Fatal("after pressing /, the term editor should have focus")
	}

	// Typing filters as you go.
	model = press(t, model, runes("t1")...)
	params := model.controller.Params()
	if params.FilterTerm != "t1" || params.PageNumber != 1 {
		t.Errorf("expected term t1 on page 1, got %+v", params)
	}
	if got := model.controller.Result().TotalFiltered; got != 2 {
		t.Errorf("filter 't1' should match T10 and T11, got %d", got)
	}

	// Enter keeps the term.
	model = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.Editing() {
		t.Error("enter should leave the editor")
	}
	if got := model.controller.Params().FilterTerm; got != "t1" {
		t.Errorf("enter should keep the term, got %q", got)
	}

	// Backspace through the editor widens the match again.
	model = press(t, model, runes("/")...)
	model = press(t, model, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := model.controller.Result().TotalFiltered; got != 12 {
		t.Errorf("term 't' should match all 12, got %d", got)
	}

	// Esc drops the term.
	model = press(t, model, tea.KeyMsg{Type: tea.KeyEscape})
	if model.Editing() {
		t.Error("esc should leave the editor")
	}
	if got := model.controller.Params().FilterTerm; got != "" {
		t.Errorf("esc should clear the term, got %q", got)
	}
}

func TestModelCycleField(t *testing.T) {
	model := testModel(t)

	model = press(t, model, tea.KeyMsg{Type: tea.KeyTab})
	if field := model.controller.Params().FilterField; field != record.Date {
		t.Errorf("tab should move the filter to Date, got %s", field)
	}

	// Wraps around after the last column.
	for i := 0; i < 6; i++ {
		model = press(t, model, tea.KeyMsg{Type: tea.KeyTab})
	}
	if field := model.controller.Params().FilterField; field != record.Ticker {
		t.Errorf("tab should wrap to Ticker, got %s", field)
	}
}

func TestModelView(t *testing.T) {
	model := testModel(t)
	output := model.View()

	for _, want := range []string{"AssetView test.csv", "Ticker", "Volume", "T00", "T04", "Page 1 of 3 (12 matches)", "▲"} {
		if !strings.Contains(output, want) {
			t.Errorf("view should contain %q", want)
		}
	}
	if strings.Contains(output, "T05") {
		t.Error("view should only show the first page")
	}

	model = press(t, model, runes("/")...)
	model = press(t, model, runes("zzz")...)
	output = model.View()
	if !strings.Contains(output, "No matching records") || !strings.Contains(output, "0 matches") {
		t.Errorf("empty result should be reported, got:\n%s", output)
	}
}

func TestModelQuit(t *testing.T) {
	model := testModel(t)

	_, command := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if command == nil {
		t.Fatal("q key should return a command")
	}

	// Execute the command and check it produces a QuitMsg.
	message := command()
	if _, isQuit := message.(tea.QuitMsg); !isQuit {
		t.Errorf("expected QuitMsg, got %T", message)
	}
}
