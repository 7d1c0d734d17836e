package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"ideagraph/internal/adapters/tui/styles"
	"ideagraph/internal/adapters/tui/views"
	"ideagraph/internal/application"
	"ideagraph/internal/application/autosave"
	"ideagraph/internal/application/commands"
	"ideagraph/internal/application/session"
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewCanvas ViewState = iota
	ViewSaved
	ViewSearch
	ViewHelp
)

// AutosaveMsg reports a fired autosave. Deliver it with Program.Send from
// the scheduler's notify callback.
type AutosaveMsg struct {
	Outcome autosave.Outcome
}

// StoreChangedMsg reports that a store file changed on disk outside this
// process
type StoreChangedMsg struct {
	Path string
}

// App is the main TUI application model
type App struct {
	session    *session.Session
	store      ports.SnapshotStore
	assistant  ports.IdeaAssistant
	editor     ports.EditorOpener
	searcher   commands.Searcher
	logger     *log.Logger
	afterWrite func()

	state   ViewState
	canvas  *views.CanvasModel
	saved   *views.SavedModel
	search  *views.SearchModel
	help    *views.HelpModel
	focusID string // Idea to select once a search hit's idea set is loaded

	notice views.NoticeMsg
	usage  *domain.StorageInfo

	width  int
	height int
}

// Option configures an App
type Option func(*App)

// WithAssistant enables suggest, analyze and complete
func WithAssistant(a ports.IdeaAssistant) Option {
	return func(app *App) {
		app.assistant = a
	}
}

// WithEditor enables editing labels in an external editor
func WithEditor(e ports.EditorOpener) Option {
	return func(app *App) {
		app.editor = e
	}
}

// WithSearcher enables the search view
func WithSearcher(s commands.Searcher) Option {
	return func(app *App) {
		app.searcher = s
	}
}

// WithLogger sets the logger for user-visible notices
func WithLogger(l *log.Logger) Option {
	return func(app *App) {
		app.logger = l
	}
}

// WithAfterWrite registers fn to run after the app itself changed the store,
// so a file watcher can tell those writes from external ones
func WithAfterWrite(fn func()) Option {
	return func(app *App) {
		app.afterWrite = fn
	}
}

// NewApp creates a new TUI application over sess and store
func NewApp(sess *session.Session, store ports.SnapshotStore, opts ...Option) *App {
	a := &App{
		session: sess,
		store:   store,
		logger:  log.Default(),
		state:   ViewCanvas,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.canvas = views.NewCanvasModel(sess, store, a.assistant, a.editor != nil)
	a.saved = views.NewSavedModel(store, sess)
	a.search = views.NewSearchModel(a.searcher)
	a.help = views.NewHelpModel()
	return a
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.canvas.Init(), a.saved.Init(), a.refreshUsage)
}

type usageMsg struct {
	result *commands.UsageResult
	err    error
}

func (a *App) refreshUsage() tea.Msg {
	res, err := commands.NewUsageCommand(a.store).Execute(context.Background())
	return usageMsg{result: res, err: err}
}

type editorFinishedMsg struct {
	nodeID string
	path   string
	err    error
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// One row is reserved for the status line
		a.canvas.SetSize(msg.Width, msg.Height-1)
		a.saved.SetSize(msg.Width, msg.Height-1)
		a.search.SetSize(msg.Width, msg.Height-1)
		a.help.SetSize(msg.Width, msg.Height-1)
		return a, nil

	// View switching messages
	case views.SwitchToCanvasMsg:
		a.state = ViewCanvas
		focus := msg.FocusNodeID
		if focus == "" {
			focus, a.focusID = a.focusID, ""
		}
		if focus != "" {
			a.canvas.Focus(focus)
		} else {
			a.canvas.Refresh()
		}
		return a, nil

	case views.SwitchToSavedMsg:
		a.state = ViewSaved
		return a, a.saved.Reload()

	case views.SwitchToSearchMsg:
		if a.searcher == nil {
			a.setNotice(application.UserMessage(application.ErrNoIndex), views.LevelError)
			return a, nil
		}
		a.state = ViewSearch
		a.search.Reset()
		return a, a.search.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SearchSelectMsg:
		a.state = ViewSaved
		a.focusID = msg.Result.NodeID
		return a, a.saved.Load(msg.Result.Title)

	// Status line messages
	case views.NoticeMsg:
		a.setNotice(msg.Text, msg.Level)
		return a, nil

	case views.SnapshotsChangedMsg:
		a.wrote()
		return a, tea.Batch(a.refreshUsage, a.saved.Reload())

	case AutosaveMsg:
		return a, a.handleAutosave(msg.Outcome)

	case StoreChangedMsg:
		a.logger.Info("store changed on disk", "path", msg.Path)
		a.setNotice(fmt.Sprintf("%s changed on disk; idea sets reloaded", filepath.Base(msg.Path)), views.LevelWarn)
		return a, tea.Batch(a.refreshUsage, a.saved.Reload())

	case usageMsg:
		if msg.err != nil {
			a.logger.Warn("failed to measure storage", "err", msg.err)
			return a, nil
		}
		a.usage = &msg.result.Storage
		return a, nil

	// External editor
	case views.OpenEditorMsg:
		return a, a.openEditor(msg)

	case editorFinishedMsg:
		a.finishEditing(msg)
		return a, nil

	case tea.KeyMsg:
		if msg.String() != "ctrl+c" {
			a.notice = views.NoticeMsg{}
		}
		return a, a.updateCurrent(msg)
	}

	// Background results go to every view; each ignores what it does not own
	var cmds []tea.Cmd
	for _, m := range []tea.Model{a.canvas, a.saved, a.search, a.help} {
		_, cmd := m.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.state {
	case ViewCanvas:
		_, cmd = a.canvas.Update(msg)
	case ViewSaved:
		_, cmd = a.saved.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}
	return cmd
}

func (a *App) setNotice(text string, level views.Level) {
	a.notice = views.NoticeMsg{Text: text, Level: level}
	switch level {
	case views.LevelError:
		a.logger.Error(text)
	case views.LevelWarn:
		a.logger.Warn(text)
	}
}

func (a *App) wrote() {
	if a.afterWrite != nil {
		a.afterWrite()
	}
}

func (a *App) handleAutosave(o autosave.Outcome) tea.Cmd {
	if o.Skipped {
		return nil
	}

	var warning string
	var storage *domain.StorageInfo
	if o.Saved != nil {
		warning = o.Saved.Warning
		storage = &o.Saved.Storage
	}
	res := application.NewResult(warning, storage, o.Err)
	if res.Storage != nil {
		a.usage = res.Storage
	}

	text, isErr := res.Notice()
	switch {
	case isErr:
		a.notice = views.NoticeMsg{Text: "Autosave failed: " + text, Level: views.LevelError}
		return nil
	case text != "":
		a.notice = views.NoticeMsg{Text: fmt.Sprintf("Autosaved %q. %s", o.Saved.Snapshot.Title, text), Level: views.LevelWarn}
	default:
		a.notice = views.NoticeMsg{Text: fmt.Sprintf("Autosaved %q", o.Saved.Snapshot.Title), Level: views.LevelInfo}
	}
	return a.saved.Reload()
}

func (a *App) openEditor(msg views.OpenEditorMsg) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, path, err := a.editor.EditCommand(msg.Label)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{nodeID: msg.NodeID, err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{nodeID: msg.NodeID, path: path, err: err}
	})
}

func (a *App) finishEditing(msg editorFinishedMsg) {
	text := ""
	err := msg.err
	if msg.path != "" {
		var readErr error
		text, readErr = a.editor.ReadBack(msg.path)
		if err == nil {
			err = readErr
		}
	}

	switch {
	case err != nil:
		a.setNotice("Editor failed: "+err.Error(), views.LevelError)
	case strings.TrimSpace(text) == "":
		a.setNotice("Empty idea discarded; label unchanged", views.LevelWarn)
	default:
		if err := a.session.EditNode(msg.nodeID, text); err != nil {
			a.setNotice(application.UserMessage(err), views.LevelError)
		}
	}
	a.canvas.Focus(msg.nodeID)
}

// View renders the current view above the status line
func (a *App) View() string {
	var body string
	switch a.state {
	case ViewSaved:
		body = a.saved.View()
	case ViewSearch:
		body = a.search.View()
	case ViewHelp:
		body = a.help.View()
	default:
		body = a.canvas.View()
	}
	return body + "\n" + a.statusLine()
}

func (a *App) statusLine() string {
	var parts []string
	if a.usage != nil {
		parts = append(parts, styles.StatusKey.Render("storage")+views.RenderUsage(*a.usage))
	}
	if a.notice.Text != "" {
		parts = append(parts, views.RenderMessage(a.notice.Text, a.notice.Level))
	} else if a.canvas.Busy() {
		parts = append(parts, styles.StatusText.Render("waiting on the assistant..."))
	}
	return styles.StatusBar.Render(strings.Join(parts, "  "))
}
