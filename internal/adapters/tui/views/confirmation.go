package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ideagraph/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation prompts
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// Confirmation is an inline yes/no prompt guarding a destructive action.
// A view embeds it and routes key presses to HandleKeyMsg while Active.
type Confirmation struct {
	Action string // e.g. "Delete idea"
	Target string // What the action applies to
	Note   string // Optional muted line under the target
	Keys   ConfirmKeyMap

	onConfirm func() tea.Msg
}

// NewConfirmation creates an inactive confirmation with default keys
func NewConfirmation() Confirmation {
	return Confirmation{Keys: DefaultConfirmKeys}
}

// Ask activates the prompt. onConfirm runs as a command when the user
// accepts.
func (c *Confirmation) Ask(action, target, note string, onConfirm func() tea.Msg) {
	c.Action = action
	c.Target = target
	c.Note = note
	c.onConfirm = onConfirm
}

// Active reports whether the prompt is waiting for an answer
func (c *Confirmation) Active() bool {
	return c.onConfirm != nil
}

// Dismiss deactivates the prompt
func (c *Confirmation) Dismiss() {
	c.onConfirm = nil
}

// HandleKeyMsg answers the prompt. Returns (handled, cmd) where handled is
// true if the key was processed; any other key leaves the prompt open.
func (c *Confirmation) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, c.Keys.Cancel):
		c.Dismiss()
		return true, nil
	case key.Matches(msg, c.Keys.Confirm):
		fn := c.onConfirm
		c.Dismiss()
		if fn == nil {
			return true, nil
		}
		return true, fn
	}
	return false, nil
}

// View renders the prompt
func (c *Confirmation) View() string {
	var b strings.Builder

	b.WriteString(styles.InputLabel.Render(c.Action + ":"))
	b.WriteString("\n  ")
	b.WriteString(c.Target)
	b.WriteString("\n")
	if c.Note != "" {
		b.WriteString(styles.MutedText.Render("  " + c.Note))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderConfirmPrompt("Are you sure?"))
	return b.String()
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
