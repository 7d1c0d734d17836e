package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ideagraph/internal/adapters/tui/styles"
	"ideagraph/internal/application"
	"ideagraph/internal/application/commands"
	"ideagraph/internal/application/session"
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// SavedKeyMap defines key bindings for the saved idea sets view
type SavedKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Load     key.Binding
	Delete   key.Binding
	Undo     key.Binding
	Reload   key.Binding
	Search   key.Binding
	Back     key.Binding
	Quit     key.Binding
}

var SavedKeys = SavedKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+b"),
		key.WithHelp("pgup", "prev page"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+f"),
		key.WithHelp("pgdn", "next page"),
	),
	Load: key.NewBinding(
		key.WithKeys("enter", "l"),
		key.WithHelp("enter", "load"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo delete"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "o"),
		key.WithHelp("esc", "canvas"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// SavedModel lists saved idea sets, newest first
type SavedModel struct {
	ViewState
	store     ports.SnapshotStore
	session   *session.Session
	snapshots []domain.Snapshot
	paginator *Paginator
	confirm   Confirmation
	loaded    bool
}

// NewSavedModel creates a new saved idea sets view
func NewSavedModel(store ports.SnapshotStore, sess *session.Session) *SavedModel {
	return &SavedModel{
		store:     store,
		session:   sess,
		paginator: NewPaginator(10),
		confirm:   NewConfirmation(),
	}
}

// Init loads the list
func (m *SavedModel) Init() tea.Cmd {
	return m.loadSnapshots
}

// Reload re-reads the list from the store
func (m *SavedModel) Reload() tea.Cmd {
	return m.loadSnapshots
}

func (m *SavedModel) loadSnapshots() tea.Msg {
	snapshots, err := commands.NewListSnapshotsCommand(m.store).Execute(context.Background())
	return snapshotsLoadedMsg{snapshots: snapshots, err: err}
}

type snapshotsLoadedMsg struct {
	snapshots []domain.Snapshot
	err       error
}

type snapshotLoadedMsg struct {
	result *commands.LoadSnapshotResult
	err    error
}

type snapshotDeletedMsg struct {
	result *commands.DeleteSnapshotResult
	err    error
}

type snapshotRestoredMsg struct {
	result *commands.RestoreResult
	err    error
}

// SetSize updates the view dimensions and the rows per page
func (m *SavedModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.paginator.SetPageSize(height - 12)
}

// Update handles messages for the saved view
func (m *SavedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case snapshotsLoadedMsg:
		m.loaded = true
		m.snapshots = msg.snapshots
		m.paginator.SetTotal(len(m.snapshots))
		if msg.err != nil {
			m.SetMessage(application.UserMessage(msg.err), LevelError)
		}
		return m, nil

	case snapshotLoadedMsg:
		if msg.err != nil {
			m.SetMessage(application.UserMessage(msg.err), LevelError)
			return m, nil
		}
		level := LevelInfo
		if len(msg.result.Warnings) > 0 {
			level = LevelWarn
		}
		return m, tea.Batch(
			Notify(msg.result.Message, level),
			func() tea.Msg { return SwitchToCanvasMsg{} },
		)

	case snapshotDeletedMsg:
		if msg.err != nil {
			m.SetMessage(application.UserMessage(msg.err), LevelError)
			return m, nil
		}
		m.SetMessage(msg.result.Message, LevelInfo)
		return m, changed

	case snapshotRestoredMsg:
		if msg.err != nil {
			m.SetMessage(application.UserMessage(msg.err), LevelError)
			return m, nil
		}
		m.SetMessage(msg.result.Message, LevelInfo)
		return m, changed

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *SavedModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirm.Active() {
		_, cmd := m.confirm.HandleKeyMsg(msg)
		return cmd
	}

	m.ClearMessage()

	switch {
	case key.Matches(msg, SavedKeys.Quit):
		return tea.Quit

	case key.Matches(msg, SavedKeys.Up):
		m.paginator.CursorUp()

	case key.Matches(msg, SavedKeys.Down):
		m.paginator.CursorDown()

	case key.Matches(msg, SavedKeys.PageUp):
		m.paginator.PrevPage()

	case key.Matches(msg, SavedKeys.PageDown):
		m.paginator.NextPage()

	case key.Matches(msg, SavedKeys.Load):
		if snap, ok := m.selected(); ok {
			return m.Load(snap.Title)
		}

	case key.Matches(msg, SavedKeys.Delete):
		if snap, ok := m.selected(); ok {
			title := snap.Title
			m.confirm.Ask("Delete idea set", title,
				fmt.Sprintf("%d ideas. Press u afterwards to undo.", snap.IdeaCount),
				func() tea.Msg {
					res, err := commands.NewDeleteSnapshotCommand(m.store, title).Execute(context.Background())
					return snapshotDeletedMsg{result: res, err: err}
				})
		}

	case key.Matches(msg, SavedKeys.Undo):
		return func() tea.Msg {
			res, err := commands.NewRestoreCommand(m.store).Execute(context.Background())
			return snapshotRestoredMsg{result: res, err: err}
		}

	case key.Matches(msg, SavedKeys.Reload):
		return m.Reload()

	case key.Matches(msg, SavedKeys.Search):
		return func() tea.Msg { return SwitchToSearchMsg{} }

	case key.Matches(msg, SavedKeys.Back):
		return func() tea.Msg { return SwitchToCanvasMsg{} }
	}

	return nil
}

// Load replaces the live graph with the idea set stored under title
func (m *SavedModel) Load(title string) tea.Cmd {
	return func() tea.Msg {
		res, err := commands.NewLoadSnapshotCommand(m.store, m.session, title).Execute(context.Background())
		return snapshotLoadedMsg{result: res, err: err}
	}
}

// changed lets the app refresh usage and the list after a store write
func changed() tea.Msg {
	return SnapshotsChangedMsg{}
}

func (m *SavedModel) selected() (domain.Snapshot, bool) {
	i := m.paginator.Cursor()
	if i >= 0 && i < len(m.snapshots) {
		return m.snapshots[i], true
	}
	return domain.Snapshot{}, false
}

// View renders the saved idea sets
func (m *SavedModel) View() string {
	v := NewViewBuilder()
	v.Title("Idea Sets")
	v.Subtitle(fmt.Sprintf("%d saved, newest first", len(m.snapshots)))

	switch {
	case !m.loaded:
		v.Muted("Loading...")
	case len(m.snapshots) == 0:
		v.Muted("No saved idea sets yet. Press w on the canvas to save one.")
	}

	current := m.session.Title()
	start, end := m.paginator.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderSnapshot(m.snapshots[i], i == m.paginator.Cursor(), m.snapshots[i].Title == current))
	}
	if m.paginator.TotalPages() > 1 {
		v.Muted(fmt.Sprintf("page %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages()))
	}

	if m.confirm.Active() {
		v.BlankLine().Raw(m.confirm.View())
		return v.String()
	}

	v.Message(m.Message, m.MessageLevel)
	return v.Help(
		SavedKeys.Load,
		SavedKeys.Delete,
		SavedKeys.Undo,
		SavedKeys.Search,
		SavedKeys.Back,
		SavedKeys.Quit,
	).String()
}

func (m *SavedModel) renderSnapshot(snap domain.Snapshot, selected, current bool) string {
	width := m.Width - 40
	if width < 20 {
		width = 50
	}
	title := Truncate(snap.Title, width)

	prefix := styles.Gutter
	switch {
	case selected:
		prefix = styles.Cursor
		title = styles.IdeaSelected.Render(title)
	case current:
		title = styles.SnapshotTitle.Render(title)
	}

	detail := fmt.Sprintf("  %d ideas • %s", snap.IdeaCount, snap.LastModified.Local().Format("2006-01-02 15:04"))
	return prefix + title + styles.MutedText.Render(detail)
}
