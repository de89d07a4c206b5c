package tui

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testItems() []Item {
	return []Item{
		{Label: "lint", Tag: "claude", Detail: "Runs the linters"},
		{Label: "review", Tag: "/tools"},
		{Label: "deploy"},
	}
}

func press(m PickerModel, msgs ...tea.Msg) (PickerModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(PickerModel)
	}
	return m, cmd
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keyAll   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
	keyHelp  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")}
)

func TestPickerModel_Init(t *testing.T) {
	m := NewPickerModel("Select a source", testItems())
	if cmd := m.Init(); cmd != nil {
		t.Error("expected Init to return nil")
	}
}

func TestPickerModel_Navigation(t *testing.T) {
	m := NewPickerModel("Select a source", testItems())

	m, _ = press(m, keyDown)
	if m.cursor != 1 {
		t.Errorf("expected cursor to be 1 after down, got %d", m.cursor)
	}

	m, _ = press(m, keyDown, keyDown, keyDown)
	if m.cursor != 2 {
		t.Errorf("expected cursor to stop at 2, got %d", m.cursor)
	}

	m, _ = press(m, keyUp, keyUp, keyUp)
	if m.cursor != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", m.cursor)
	}
}

func TestPickerModel_SingleSelect(t *testing.T) {
	m := NewPickerModel("Select a source", testItems())

	m, cmd := press(m, keyDown, keyEnter)
	if cmd == nil {
		t.Error("expected quit command after selection")
	}
	if m.Result().Action != PickerActionSelect {
		t.Errorf("expected PickerActionSelect, got %d", m.Result().Action)
	}
	if !reflect.DeepEqual(m.Result().Indices, []int{1}) {
		t.Errorf("expected [1], got %v", m.Result().Indices)
	}
}

func TestPickerModel_SpaceSelectsInSingleMode(t *testing.T) {
	m := NewPickerModel("Select a source", testItems())

	m, _ = press(m, keySpace)
	if !reflect.DeepEqual(m.Result().Indices, []int{0}) {
		t.Errorf("expected [0], got %v", m.Result().Indices)
	}
}

func TestPickerModel_MultiSelect(t *testing.T) {
	m := NewMultiPickerModel("Select skills", testItems())

	m, cmd := press(m, keySpace, keyDown, keyDown, keySpace)
	if cmd != nil {
		t.Error("toggling must not quit")
	}
	if !strings.Contains(m.View(), "2 of 3 selected") {
		t.Errorf("expected selection count in view, got:\n%s", m.View())
	}

	m, _ = press(m, keyEnter)
	if !reflect.DeepEqual(m.Result().Indices, []int{0, 2}) {
		t.Errorf("expected [0 2], got %v", m.Result().Indices)
	}
}

func TestPickerModel_MultiSelectDefaultsToCursor(t *testing.T) {
	m := NewMultiPickerModel("Select skills", testItems())

	m, _ = press(m, keyDown, keyEnter)
	if !reflect.DeepEqual(m.Result().Indices, []int{1}) {
		t.Errorf("expected [1], got %v", m.Result().Indices)
	}
}

func TestPickerModel_ToggleAll(t *testing.T) {
	m := NewMultiPickerModel("Select agents", testItems(), 0)

	m, _ = press(m, keyAll)
	if m.selectedCount() != 3 {
		t.Errorf("expected all selected, got %d", m.selectedCount())
	}
	m, _ = press(m, keyAll)
	if m.selectedCount() != 0 {
		t.Errorf("expected none selected, got %d", m.selectedCount())
	}
}

func TestPickerModel_Preselected(t *testing.T) {
	m := NewMultiPickerModel("Select agents", testItems(), 1, 2, 7)

	m, _ = press(m, keyEnter)
	if !reflect.DeepEqual(m.Result().Indices, []int{1, 2}) {
		t.Errorf("expected [1 2], got %v", m.Result().Indices)
	}
}

func TestPickerModel_Quit(t *testing.T) {
	m := NewMultiPickerModel("Select skills", testItems())

	m, cmd := press(m, keySpace, keyQuit)
	if cmd == nil {
		t.Error("expected quit command")
	}
	if m.Result().Action != PickerActionNone {
		t.Errorf("expected PickerActionNone, got %d", m.Result().Action)
	}
	if m.View() != "" {
		t.Error("expected empty view after quitting")
	}
}

func TestPickerModel_EmptyList(t *testing.T) {
	m := NewPickerModel("Select a source", nil)

	m, cmd := press(m, keyEnter)
	if cmd != nil {
		t.Error("expected no command for empty list")
	}
	if m.Result().Action != PickerActionNone {
		t.Error("expected no selection for empty list")
	}
}

func TestPickerModel_View(t *testing.T) {
	m := NewMultiPickerModel("Select skills", testItems())
	m, _ = press(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()
	for _, want := range []string{"Select skills", "lint", "[claude]", "[/tools]", "Runs the linters", "[ ]", "space toggle"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q, got:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Toggle current item") {
		t.Error("full help should be hidden by default")
	}

	m, _ = press(m, keyHelp)
	if !strings.Contains(m.View(), "Toggle current item") {
		t.Error("expected full help after ?")
	}
}
