package components

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/persona/internal/ui/theme"
)

// QuestionSubmittedMsg is emitted when the user confirms a selection.
type QuestionSubmittedMsg struct {
	OptionTexts []string
}

// QuestionBackMsg is emitted when the user asks for the previous question.
type QuestionBackMsg struct{}

// QuestionView is a single- or multi-select option picker.
type QuestionView struct {
	Text      string
	Options   []string
	MaxSelect int

	ShowBack bool
	IsFirst  bool
	IsLast   bool
	IsSaving bool

	cursor  int
	checked []bool
}

// NewQuestionView creates a picker for options with the options whose text
// appears in selected pre-checked. Each selected text claims at most one
// option, the first unclaimed one with that text. maxSelect below 1 means
// single choice.
func NewQuestionView(text string, options []string, maxSelect int, selected []string) QuestionView {
	if maxSelect < 1 {
		maxSelect = 1
	}
	v := QuestionView{
		Text:      text,
		Options:   options,
		MaxSelect: maxSelect,
		checked:   make([]bool, len(options)),
		cursor:    -1,
	}
	for _, want := range selected {
		if v.count() >= maxSelect {
			break
		}
		for i, opt := range options {
			if opt == want && !v.checked[i] {
				v.checked[i] = true
				if v.cursor < 0 || i < v.cursor {
					v.cursor = i
				}
				break
			}
		}
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	return v
}

// Cursor returns the highlighted option position.
func (v QuestionView) Cursor() int {
	return v.cursor
}

// Selected returns the checked option texts in display order.
func (v QuestionView) Selected() []string {
	out := []string{}
	for i, ok := range v.checked {
		if ok {
			out = append(out, v.Options[i])
		}
	}
	return out
}

func (v QuestionView) canGoBack() bool {
	return v.ShowBack && !v.IsFirst
}

func (v QuestionView) multi() bool {
	return v.MaxSelect > 1
}

func (v QuestionView) count() int {
	n := 0
	for _, ok := range v.checked {
		if ok {
			n++
		}
	}
	return n
}

// Update handles keyboard navigation, toggling and submission.
func (v QuestionView) Update(msg tea.Msg) (QuestionView, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(v.Options) == 0 {
		return v, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.Options)-1 {
			v.cursor++
		}
	case "space", " ", "x":
		v.toggle(v.cursor)
	case "left", "h", "backspace":
		if v.canGoBack() {
			return v, func() tea.Msg { return QuestionBackMsg{} }
		}
	case "enter":
		// Single choice: enter picks the highlighted option.
		if !v.multi() {
			v.checked = make([]bool, len(v.Options))
			v.checked[v.cursor] = true
		}
		sel := v.Selected()
		return v, func() tea.Msg { return QuestionSubmittedMsg{OptionTexts: sel} }
	default:
		if n := digit(kmsg.String()); n > 0 && n <= len(v.Options) {
			v.cursor = n - 1
			v.toggle(v.cursor)
		}
	}
	return v, nil
}

func (v *QuestionView) toggle(i int) {
	v.checked = slices.Clone(v.checked)
	if !v.multi() {
		was := v.checked[i]
		clear(v.checked)
		v.checked[i] = !was
		return
	}
	if !v.checked[i] && v.count() >= v.MaxSelect {
		return
	}
	v.checked[i] = !v.checked[i]
}

func digit(s string) int {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0
	}
	return int(s[0] - '0')
}

// View renders the question, its options and the navigation buttons.
func (v QuestionView) View(width int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(width).
		Render(v.Text))
	b.WriteString("\n")
	if v.multi() {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Pick up to %d", v.MaxSelect)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, opt := range v.Options {
		box := "( )"
		if v.multi() {
			box = "[ ]"
		}
		if v.checked[i] {
			box = "(•)"
			if v.multi() {
				box = "[x]"
			}
		}

		prefix := "  "
		style := theme.Unselected
		if v.checked[i] {
			style = theme.Checked
		}
		if i == v.cursor {
			prefix = "▸ "
			style = theme.Cursor
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s %d. %s", prefix, box, i+1, opt)))
		b.WriteString("\n")
	}

	next := Button{Label: "Next →", Focused: true}
	if v.IsLast {
		next.Label = "Finish"
	}
	if v.IsSaving {
		next.Label = "Saving… " + next.Label
	}
	back := Button{Label: "← Back", Disabled: !v.canGoBack()}

	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, back.View(), "  ", next.View()))
	return b.String()
}
