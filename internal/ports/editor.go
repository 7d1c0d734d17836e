package ports

import "os/exec"

// EditorOpener defines the interface for editing text in an external editor
type EditorOpener interface {
	// EditCommand writes text to a scratch file and returns the command that
	// opens it, along with the scratch file path.
	// This is useful for integrating with bubbletea's ExecProcess
	EditCommand(text string) (*exec.Cmd, string, error)

	// ReadBack returns the edited text and removes the scratch file
	ReadBack(path string) (string, error)
}
