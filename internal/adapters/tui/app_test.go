package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"ideagraph/internal/adapters/filesystem"
	"ideagraph/internal/adapters/tui/views"
	"ideagraph/internal/application"
	"ideagraph/internal/application/autosave"
	"ideagraph/internal/application/commands"
	"ideagraph/internal/application/session"
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

type stubSearcher struct{}

func (stubSearcher) Search(query string, limit int) ([]domain.SearchHit, error) {
	return nil, nil
}

func newTestApp(t *testing.T, opts ...Option) (*App, *filesystem.Repository, *session.Session) {
	t.Helper()
	logger := log.New(io.Discard)
	store := filesystem.NewRepository(t.TempDir(), filesystem.WithLogger(logger))
	sess := session.New()
	opts = append([]Option{WithLogger(logger)}, opts...)
	return NewApp(sess, store, opts...), store, sess
}

// feed runs cmd and hands its messages to a, unpacking batches
func feed(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			feed(a, c)
		}
		return
	}
	a.Update(msg)
}

func TestApp_AutosaveNotices(t *testing.T) {
	a, _, _ := newTestApp(t)

	saved := &ports.SaveOutcome{
		Snapshot: domain.Snapshot{Title: domain.DefaultTitle(0)},
		Storage:  domain.StorageInfo{CurrentSize: 1024, MaxSize: domain.MaxStorageSize},
	}
	if _, cmd := a.Update(AutosaveMsg{Outcome: autosave.Outcome{Saved: saved}}); cmd == nil {
		t.Error("expected the saved list to reload after an autosave")
	}
	if a.notice.Level != views.LevelInfo || !strings.Contains(a.notice.Text, "Autosaved") {
		t.Errorf("unexpected notice %+v", a.notice)
	}
	if a.usage == nil || a.usage.CurrentSize != 1024 {
		t.Error("expected usage to follow the autosave")
	}

	saved.Warning = "Storage is almost full"
	a.Update(AutosaveMsg{Outcome: autosave.Outcome{Saved: saved}})
	if a.notice.Level != views.LevelWarn || !strings.Contains(a.notice.Text, "almost full") {
		t.Errorf("expected quota warning, got %+v", a.notice)
	}

	a.Update(AutosaveMsg{Outcome: autosave.Outcome{Err: application.ErrQuotaExceeded}})
	if a.notice.Level != views.LevelError || !strings.HasPrefix(a.notice.Text, "Autosave failed") {
		t.Errorf("expected autosave error, got %+v", a.notice)
	}
}

func TestApp_SkippedAutosaveIsSilent(t *testing.T) {
	a, _, _ := newTestApp(t)

	_, cmd := a.Update(AutosaveMsg{Outcome: autosave.Outcome{Skipped: true}})

	if cmd != nil || a.notice.Text != "" {
		t.Error("expected no notice for a skipped autosave")
	}
}

func TestApp_ViewSwitching(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.Update(views.SwitchToSavedMsg{})
	if a.State() != ViewSaved {
		t.Errorf("state = %v, expected ViewSaved", a.State())
	}
	a.Update(views.SwitchToHelpMsg{})
	if a.State() != ViewHelp {
		t.Errorf("state = %v, expected ViewHelp", a.State())
	}
	a.Update(views.SwitchToCanvasMsg{})
	if a.State() != ViewCanvas {
		t.Errorf("state = %v, expected ViewCanvas", a.State())
	}
}

func TestApp_SearchNeedsIndex(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.Update(views.SwitchToSearchMsg{})
	if a.State() != ViewCanvas {
		t.Error("expected to stay on the canvas without an index")
	}
	if a.notice.Level != views.LevelError || !strings.Contains(a.notice.Text, "index") {
		t.Errorf("unexpected notice %+v", a.notice)
	}

	a, _, _ = newTestApp(t, WithSearcher(stubSearcher{}))
	a.Update(views.SwitchToSearchMsg{})
	if a.State() != ViewSearch {
		t.Errorf("state = %v, expected ViewSearch", a.State())
	}
}

func TestApp_SearchHitLoadsIdeaSet(t *testing.T) {
	a, store, sess := newTestApp(t, WithSearcher(stubSearcher{}))
	nodes := []domain.Node{
		{ID: "n1", Label: "raised beds"},
		{ID: "n2", Label: "compost"},
	}
	if _, err := store.Save(nodes, nil, "garden"); err != nil {
		t.Fatal(err)
	}

	hit := commands.SearchResult{SearchHit: domain.SearchHit{Title: "garden", NodeID: "n2", Label: "compost"}}
	_, cmd := a.Update(views.SearchSelectMsg{Result: hit})
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	_, next := a.Update(cmd())
	feed(a, next)

	if sess.Title() != "garden" || len(sess.Nodes()) != 2 {
		t.Errorf("expected garden loaded, got %q with %d ideas", sess.Title(), len(sess.Nodes()))
	}
	if a.State() != ViewCanvas {
		t.Errorf("state = %v, expected ViewCanvas", a.State())
	}
	if !strings.Contains(a.notice.Text, "Loaded") {
		t.Errorf("expected load notice, got %q", a.notice.Text)
	}
}

func TestApp_AfterWrite(t *testing.T) {
	calls := 0
	a, _, _ := newTestApp(t, WithAfterWrite(func() { calls++ }))

	_, cmd := a.Update(views.SnapshotsChangedMsg{})

	if calls != 1 {
		t.Errorf("afterWrite called %d times, expected 1", calls)
	}
	if cmd == nil {
		t.Error("expected usage and list refresh")
	}
}

func TestApp_StoreChangedOnDisk(t *testing.T) {
	a, store, _ := newTestApp(t)

	a.Update(StoreChangedMsg{Path: store.StorePath()})

	if a.notice.Level != views.LevelWarn || !strings.Contains(a.notice.Text, "changed on disk") {
		t.Errorf("unexpected notice %+v", a.notice)
	}
}

func TestApp_StatusLine(t *testing.T) {
	a, store, _ := newTestApp(t)
	if _, err := store.Save([]domain.Node{{ID: "n1", Label: "seeds"}}, nil, "garden"); err != nil {
		t.Fatal(err)
	}

	a.Update(a.refreshUsage())
	if a.usage == nil || a.usage.CurrentSize == 0 {
		t.Fatal("expected storage usage to be measured")
	}
	if !strings.Contains(a.View(), "storage") {
		t.Error("expected storage usage in the status line")
	}

	a.Update(views.NoticeMsg{Text: "hello", Level: views.LevelInfo})
	if !strings.Contains(a.View(), "hello") {
		t.Error("expected notice in the status line")
	}

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if a.notice.Text != "" {
		t.Error("expected a key press to clear the notice")
	}
}
