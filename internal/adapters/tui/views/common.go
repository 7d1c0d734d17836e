package views

import tea "github.com/charmbracelet/bubbletea"

// Level grades a notice shown to the user
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width        int
	Height       int
	Message      string
	MessageLevel Level
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, level Level) {
	s.Message = msg
	s.MessageLevel = level
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageLevel = LevelInfo
}

// NoticeMsg carries a notice for the status line
type NoticeMsg struct {
	Text  string
	Level Level
}

// Notify returns a command that posts a notice to the status line
func Notify(text string, level Level) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Text: text, Level: level}
	}
}

// SnapshotsChangedMsg is sent after a view saved, deleted or restored an idea
// set
type SnapshotsChangedMsg struct{}

// View switching messages
type SwitchToCanvasMsg struct {
	// FocusNodeID selects an idea after the switch, when set
	FocusNodeID string
}

type SwitchToSavedMsg struct{}

type SwitchToSearchMsg struct{}

type SwitchToHelpMsg struct{}

// OpenEditorMsg asks the app to edit an idea label in the external editor
type OpenEditorMsg struct {
	NodeID string
	Label  string
}
