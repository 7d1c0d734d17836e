package views

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"ideagraph/internal/adapters/filesystem"
	"ideagraph/internal/domain"
)

func newTestStore(t *testing.T) *filesystem.Repository {
	t.Helper()
	return filesystem.NewRepository(t.TempDir(), filesystem.WithLogger(log.New(io.Discard)))
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

// press feeds keys to m and returns the last command
func press(m tea.Model, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

// run executes cmd and feeds its message back to m
func run(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := m.Update(cmd())
	return next
}

type fakeAssistant struct {
	reply string
	err   error
}

func (f *fakeAssistant) SuggestNextIdea(ctx context.Context, idea string) (string, error) {
	return f.reply, f.err
}

func (f *fakeAssistant) AnalyzeIdeas(ctx context.Context, ideas []string) (string, error) {
	return f.reply, f.err
}

func (f *fakeAssistant) SuggestCompletion(ctx context.Context, text string) (string, error) {
	return f.reply, f.err
}

func (f *fakeAssistant) IsAvailable() bool { return true }

type fakeSearcher struct {
	hits []domain.SearchHit
	err  error
}

func (f *fakeSearcher) Search(query string, limit int) ([]domain.SearchHit, error) {
	return f.hits, f.err
}
