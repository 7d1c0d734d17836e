package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"ideagraph/internal/ports"
)

// Opener implements ports.EditorOpener
type Opener struct {
	tempDir string
}

// Ensure Opener implements EditorOpener
var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates a new editor opener. Scratch files go to the system temp
// directory.
func NewOpener() *Opener {
	return &Opener{}
}

// EditCommand writes text to a scratch file and returns an exec.Cmd that
// opens it in the editor
func (o *Opener) EditCommand(text string) (*exec.Cmd, string, error) {
	editor := o.findEditor()
	if editor == "" {
		return nil, "", fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	f, err := os.CreateTemp(o.tempDir, "ideagraph-*.txt")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create scratch file: %w", err)
	}
	path := f.Name()

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("failed to write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, "", fmt.Errorf("failed to write scratch file: %w", err)
	}

	// $EDITOR may carry flags, e.g. "code --wait"
	fields := strings.Fields(editor)
	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, path, nil
}

// ReadBack returns the edited text with trailing newlines removed and deletes
// the scratch file
func (o *Opener) ReadBack(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read scratch file: %w", err)
	}

	return strings.TrimRight(string(data), "\r\n"), nil
}

// findEditor returns the editor to use
func (o *Opener) findEditor() string {
	// Check $EDITOR first
	if editor := strings.TrimSpace(os.Getenv("EDITOR")); editor != "" {
		return editor
	}

	// Check $VISUAL
	if visual := strings.TrimSpace(os.Getenv("VISUAL")); visual != "" {
		return visual
	}

	// Try common editors
	editors := []string{"nvim", "vim", "vi", "nano"}
	for _, editor := range editors {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}

	return ""
}
