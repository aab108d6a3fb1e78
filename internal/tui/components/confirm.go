package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/fmured/internal/tui"
)

// Confirm is a typed-phrase confirmation prompt: the user must type an
// expected phrase exactly to approve a destructive operation. Escape or
// ctrl+c cancels.
type Confirm struct {
	title    string
	warning  string
	expected string
	field    TextField
	keys     tui.KeyMap

	done      bool
	confirmed bool
}

// NewConfirm creates a confirmation prompt that approves only when the
// user types expected verbatim.
func NewConfirm(title, warning, expected string) Confirm {
	field := NewTextField(fmt.Sprintf("Type %q to confirm", expected), expected).
		WithRequired(true)

	c := Confirm{
		title:    title,
		warning:  warning,
		expected: expected,
		field:    field,
		keys:     tui.DefaultKeyMap(),
	}
	c.field.Focus()
	return c
}

// Confirmed reports whether the user typed the expected phrase.
func (c Confirm) Confirmed() bool {
	return c.done && c.confirmed
}

// Init implements tea.Model.
func (c Confirm) Init() tea.Cmd {
	return c.field.Init()
}

// Update implements tea.Model.
func (c Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, c.keys.Quit), key.Matches(keyMsg, c.keys.Back):
			c.done = true
			c.confirmed = false
			return c, tea.Quit
		case key.Matches(keyMsg, c.keys.Select):
			c.done = true
			c.confirmed = c.field.Value() == c.expected
			return c, tea.Quit
		}
	}

	var cmd tea.Cmd
	c.field, cmd = c.field.Update(msg)
	return c, cmd
}

// View implements tea.Model.
func (c Confirm) View() string {
	if c.done {
		return ""
	}

	body := tui.TitleStyle.Render(c.title) + "\n" +
		tui.WarningStyle.Render(c.warning) + "\n\n" +
		c.field.View() + "\n" +
		tui.HelpStyle.Render(c.keys.HelpText())

	return tui.BoxStyle.Render(body) + "\n"
}
