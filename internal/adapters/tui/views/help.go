package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ideagraph/internal/adapters/tui/styles"
	"ideagraph/internal/domain"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToCanvasMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Idea Graph Help"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Canvas"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move between ideas"))
	b.WriteString(helpLine("n", "New idea"))
	b.WriteString(helpLine("e / E", "Edit label inline / in $EDITOR"))
	b.WriteString(helpLine("m", "Move idea to a position"))
	b.WriteString(helpLine("d", "Delete idea and its connections"))
	b.WriteString(helpLine("c", "Connect to another idea (again to disconnect)"))
	b.WriteString(helpLine("y", "Copy label to the clipboard"))
	b.WriteString(helpLine("X", "Clear the canvas"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Assistant"))
	b.WriteString("\n")
	b.WriteString(helpLine("s", "Suggest a next idea"))
	b.WriteString(helpLine("A", "Analyze every idea"))
	b.WriteString(helpLine("C", "Complete the selected idea"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Idea sets"))
	b.WriteString("\n")
	b.WriteString(helpLine("w / Ctrl+S", "Save with a title"))
	b.WriteString(helpLine("o", "Browse saved idea sets"))
	b.WriteString(helpLine("enter / d / u", "Load / delete / undo delete"))
	b.WriteString(helpLine("/", "Search ideas across idea sets"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit (pending autosave is flushed)"))
	b.WriteString("\n")

	b.WriteString(styles.MutedText.Render("  Changes are autosaved after a short pause in editing."))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Storage is capped at " + domain.FormatMiB(domain.MaxStorageSize) +
		"; saves warn above " + domain.FormatMiB(domain.WarningThreshold) + "."))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}
