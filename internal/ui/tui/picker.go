package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Item is one choice in a picker.
type Item struct {
	// Label is the main text, e.g. a source or skill name.
	Label string
	// Tag is shown after the label in brackets, e.g. a location.
	Tag string
	// Detail is shown under the item under the cursor.
	Detail string
}

// PickerAction represents how the picker ended.
type PickerAction int

const (
	// PickerActionNone means the user quit.
	PickerActionNone PickerAction = iota
	// PickerActionSelect means the user confirmed a selection.
	PickerActionSelect
)

// PickerResult contains the result of a picker interaction.
type PickerResult struct {
	Action PickerAction
	// Indices are the chosen item positions in ascending order.
	Indices []int
}

// pickerKeyMap defines the key bindings for the picker.
type pickerKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Select    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "tab"),
			key.WithHelp("space", "toggle"),
		),
		ToggleAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle all"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// PickerModel is the BubbleTea model for choosing one or several items.
type PickerModel struct {
	title    string
	items    []Item
	multi    bool
	cursor   int
	selected map[int]bool
	keys     pickerKeyMap
	result   PickerResult
	showHelp bool
	width    int
	height   int
	quitting bool
}

// NewPickerModel creates a single-choice picker.
func NewPickerModel(title string, items []Item) PickerModel {
	return PickerModel{
		title:    title,
		items:    items,
		selected: make(map[int]bool),
		keys:     defaultPickerKeyMap(),
	}
}

// NewMultiPickerModel creates a picker where several items can be toggled.
// Items at the preselected positions start out checked.
func NewMultiPickerModel(title string, items []Item, preselected ...int) PickerModel {
	m := NewPickerModel(title, items)
	m.multi = true
	for _, i := range preselected {
		if i >= 0 && i < len(items) {
			m.selected[i] = true
		}
	}
	return m
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}

		case m.multi && key.Matches(msg, m.keys.Toggle):
			if len(m.items) > 0 {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}

		case m.multi && key.Matches(msg, m.keys.ToggleAll):
			all := m.selectedCount() == len(m.items)
			for i := range m.items {
				m.selected[i] = !all
			}

		case key.Matches(msg, m.keys.Select), !m.multi && key.Matches(msg, m.keys.Toggle):
			if len(m.items) == 0 {
				return m, nil
			}
			m.result = PickerResult{Action: PickerActionSelect, Indices: m.chosen()}
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// chosen returns the checked items, or the item under the cursor when
// nothing is checked.
func (m PickerModel) chosen() []int {
	if m.multi {
		var out []int
		for i := range m.items {
			if m.selected[i] {
				out = append(out, i)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []int{m.cursor}
}

func (m PickerModel) selectedCount() int {
	n := 0
	for i := range m.items {
		if m.selected[i] {
			n++
		}
	}
	return n
}

// View implements tea.Model.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render(m.title))
	b.WriteString("\n\n")

	labelWidth := 60
	if m.width > 12 {
		labelWidth = m.width - 12
	}

	for i, item := range m.items {
		text := truncateText(item.Label, labelWidth)
		if item.Tag != "" {
			text += " " + Styles.Tag.Render("["+item.Tag+"]")
		}
		if m.multi {
			box := "[ ]"
			if m.selected[i] {
				box = "[x]"
			}
			text = box + " " + text
		}

		if i == m.cursor {
			b.WriteString(Styles.Selected.Render("> " + text))
		} else {
			b.WriteString(Styles.Item.Render("  " + text))
		}
		b.WriteString("\n")

		if i == m.cursor && item.Detail != "" {
			b.WriteString(Styles.Detail.Render(formatDetail("", item.Detail, labelWidth)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.multi {
		b.WriteString(Styles.Status.Render(fmt.Sprintf("%d of %d selected", m.selectedCount(), len(m.items))))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderFullHelp())
	} else {
		b.WriteString(m.renderShortHelp())
	}
	return b.String()
}

func (m PickerModel) renderShortHelp() string {
	keys := []string{"↑/↓ navigate"}
	if m.multi {
		keys = append(keys, "space toggle", "a all", "enter confirm")
	} else {
		keys = append(keys, "enter select")
	}
	keys = append(keys, "? help", "q quit")
	return Styles.Help.Render(strings.Join(keys, " • "))
}

func (m PickerModel) renderFullHelp() string {
	help := `Navigation:
  ↑/k      Move up
  ↓/j      Move down

Actions:
  Enter    Confirm selection`
	if m.multi {
		help += `
  Space    Toggle current item
  a        Toggle all items`
	}
	help += `

General:
  ?        Toggle full help
  q/Esc    Quit`
	return Styles.Help.Render(help)
}

// Result returns the result of the user interaction.
func (m PickerModel) Result() PickerResult {
	return m.result
}

// Pick runs a single-choice picker and returns the chosen index.
func Pick(title string, items []Item) (int, error) {
	indices, err := runPicker(NewPickerModel(title, items))
	if err != nil {
		return -1, err
	}
	return indices[0], nil
}

// PickMany runs a multi-choice picker and returns the chosen indices.
func PickMany(title string, items []Item, preselected ...int) ([]int, error) {
	return runPicker(NewMultiPickerModel(title, items, preselected...))
}

func runPicker(model PickerModel) ([]int, error) {
	finalModel, err := Run(model)
	if err != nil {
		return nil, err
	}
	m, ok := finalModel.(PickerModel)
	if !ok || m.Result().Action != PickerActionSelect {
		return nil, ErrCanceled
	}
	return m.Result().Indices, nil
}
