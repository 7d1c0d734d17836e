package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ideagraph/internal/adapters/tui/styles"
	"ideagraph/internal/application"
	"ideagraph/internal/application/commands"
	"ideagraph/internal/application/session"
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

const (
	// AssistTimeout bounds a single assistant request
	AssistTimeout = 90 * time.Second

	// NewIdeaSpacing is the vertical gap between ideas added from the keyboard
	NewIdeaSpacing = 100
)

// CanvasKeyMap defines key bindings for the canvas view
type CanvasKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	New      key.Binding
	Edit     key.Binding
	External key.Binding
	Move     key.Binding
	Delete   key.Binding
	Connect  key.Binding
	Suggest  key.Binding
	Analyze  key.Binding
	Complete key.Binding
	Save     key.Binding
	Yank     key.Binding
	Clear    key.Binding
	Saved    key.Binding
	Search   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Cancel   key.Binding
	Select   key.Binding
}

var CanvasKeys = CanvasKeyMap{
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
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	External: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "edit in $EDITOR"),
	),
	Move: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Connect: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "connect"),
	),
	Suggest: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "suggest"),
	),
	Analyze: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "analyze"),
	),
	Complete: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "complete"),
	),
	Save: key.NewBinding(
		key.WithKeys("w", "ctrl+s"),
		key.WithHelp("w", "save"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "yank"),
	),
	Clear: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "clear canvas"),
	),
	Saved: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "idea sets"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", "c"),
		key.WithHelp("enter", "connect here"),
	),
}

type canvasMode int

const (
	canvasBrowse canvasMode = iota
	canvasForm
	canvasConnect
)

type formPurpose int

const (
	formAdd formPurpose = iota
	formEdit
	formMove
	formSave
)

// CanvasModel is the model for the live idea graph
type CanvasModel struct {
	ViewState
	session   *session.Session
	store     ports.SnapshotStore
	assistant ports.IdeaAssistant
	hasEditor bool
	clipboard func(string) error

	nodes     []domain.Node
	edges     []domain.Edge
	paginator *Paginator

	mode        canvasMode
	form        *InputForm
	purpose     formPurpose
	formNodeID  string
	connectFrom string
	confirm     Confirmation
	busy        string // Set while an assistant request is in flight
}

// NewCanvasModel creates a canvas over sess. assistant may be nil.
func NewCanvasModel(sess *session.Session, store ports.SnapshotStore, assistant ports.IdeaAssistant, hasEditor bool) *CanvasModel {
	m := &CanvasModel{
		session:   sess,
		store:     store,
		assistant: assistant,
		hasEditor: hasEditor,
		clipboard: clipboard.WriteAll,
		paginator: NewPaginator(10),
		confirm:   NewConfirmation(),
	}
	m.Refresh()
	return m
}

// Init initializes the canvas
func (m *CanvasModel) Init() tea.Cmd {
	return nil
}

// Refresh re-reads the graph from the session
func (m *CanvasModel) Refresh() {
	m.nodes, m.edges = m.session.Graph()
	m.paginator.SetTotal(len(m.nodes))
}

// Focus refreshes and moves the cursor onto the idea with id
func (m *CanvasModel) Focus(id string) {
	m.Refresh()
	for i, n := range m.nodes {
		if n.ID == id {
			m.paginator.SetCursor(i)
			return
		}
	}
}

// SetSize updates the view dimensions and the rows per page
func (m *CanvasModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.paginator.SetPageSize(height - 16)
}

// Busy reports whether an assistant request is in flight
func (m *CanvasModel) Busy() bool {
	return m.busy != ""
}

type nodeDeletedMsg struct {
	label string
	edges int
	err   error
}

type assistMsg struct {
	message string
	focus   string
	err     error
}

type snapshotSavedMsg struct {
	result *commands.SaveSnapshotResult
	err    error
}

// Update handles messages for the canvas
func (m *CanvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case assistMsg:
		m.busy = ""
		m.Refresh()
		if msg.err != nil {
			m.SetMessage(application.UserMessage(msg.err), LevelError)
			return m, nil
		}
		if msg.focus != "" {
			m.Focus(msg.focus)
		}
		m.SetMessage(msg.message, LevelInfo)
		return m, nil

	case nodeDeletedMsg:
		m.Refresh()
		if msg.err != nil {
			m.SetMessage(application.UserMessage(msg.err), LevelError)
			return m, nil
		}
		text := fmt.Sprintf("Deleted %q", Truncate(msg.label, 40))
		if msg.edges > 0 {
			text += fmt.Sprintf(" and %d connections", msg.edges)
		}
		m.SetMessage(text, LevelInfo)
		return m, nil

	case snapshotSavedMsg:
		return m, m.handleSaved(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	if m.mode == canvasForm {
		_, cmd := m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *CanvasModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirm.Active() {
		_, cmd := m.confirm.HandleKeyMsg(msg)
		return cmd
	}
	switch m.mode {
	case canvasForm:
		return m.handleFormKey(msg)
	case canvasConnect:
		return m.handleConnectKey(msg)
	}

	m.ClearMessage()

	switch {
	case key.Matches(msg, CanvasKeys.Quit):
		return tea.Quit

	case key.Matches(msg, CanvasKeys.Up):
		m.paginator.CursorUp()

	case key.Matches(msg, CanvasKeys.Down):
		m.paginator.CursorDown()

	case key.Matches(msg, CanvasKeys.PageUp):
		m.paginator.PrevPage()

	case key.Matches(msg, CanvasKeys.PageDown):
		m.paginator.NextPage()

	case key.Matches(msg, CanvasKeys.New):
		field := NewInputField("Idea", "What's the idea?", 0).WithValidator(requireText)
		return m.openForm(formAdd, "", NewInputForm("New idea", field))

	case key.Matches(msg, CanvasKeys.Edit):
		if node, ok := m.selected(); ok {
			field := NewInputField("Idea", "", 0).WithValue(node.Label).WithValidator(requireText)
			return m.openForm(formEdit, node.ID, NewInputForm("Edit idea", field))
		}

	case key.Matches(msg, CanvasKeys.External):
		if node, ok := m.selected(); ok {
			if !m.hasEditor {
				m.SetMessage("No external editor available", LevelError)
				return nil
			}
			return func() tea.Msg {
				return OpenEditorMsg{NodeID: node.ID, Label: node.Label}
			}
		}

	case key.Matches(msg, CanvasKeys.Move):
		if node, ok := m.selected(); ok {
			x := NewInputField("X", "0", 12).WithValue(formatCoord(node.Position.X)).WithValidator(requireNumber)
			y := NewInputField("Y", "0", 12).WithValue(formatCoord(node.Position.Y)).WithValidator(requireNumber)
			return m.openForm(formMove, node.ID, NewInputForm("Move idea", x, y))
		}

	case key.Matches(msg, CanvasKeys.Delete):
		if node, ok := m.selected(); ok {
			m.askDelete(node)
		}

	case key.Matches(msg, CanvasKeys.Connect):
		if node, ok := m.selected(); ok {
			m.mode = canvasConnect
			m.connectFrom = node.ID
			m.SetMessage(fmt.Sprintf("Connect %q to...", Truncate(node.Label, 40)), LevelInfo)
		}

	case key.Matches(msg, CanvasKeys.Suggest):
		if node, ok := m.selected(); ok {
			return m.assist("Suggesting a next idea...", func(ctx context.Context) assistMsg {
				res, err := commands.NewSuggestNextCommand(m.assistant, m.session, node.ID).Execute(ctx)
				if err != nil {
					return assistMsg{err: err}
				}
				return assistMsg{message: res.Message, focus: res.Node.ID}
			})
		}

	case key.Matches(msg, CanvasKeys.Analyze):
		return m.assist("Analyzing ideas...", func(ctx context.Context) assistMsg {
			res, err := commands.NewAnalyzeCommand(m.assistant, m.session).Execute(ctx)
			if err != nil {
				return assistMsg{err: err}
			}
			return assistMsg{message: res.Message, focus: res.Node.ID}
		})

	case key.Matches(msg, CanvasKeys.Complete):
		if node, ok := m.selected(); ok {
			return m.assist("Completing idea...", func(ctx context.Context) assistMsg {
				res, err := commands.NewCompleteCommand(m.assistant, m.session, node.ID).Execute(ctx)
				if err != nil {
					return assistMsg{err: err}
				}
				return assistMsg{message: res.Message, focus: node.ID}
			})
		}

	case key.Matches(msg, CanvasKeys.Save):
		field := NewInputField("Title", "leave blank for a default title", application.MaxTitleLength).
			WithValue(m.session.Title()).
			WithValidator(application.ValidateTitle)
		return m.openForm(formSave, "", NewInputForm("Save idea set", field))

	case key.Matches(msg, CanvasKeys.Yank):
		if node, ok := m.selected(); ok {
			if err := m.clipboard(node.Label); err != nil {
				m.SetMessage("Clipboard unavailable: "+err.Error(), LevelError)
				return nil
			}
			m.SetMessage("Copied idea to clipboard", LevelInfo)
		}

	case key.Matches(msg, CanvasKeys.Clear):
		if len(m.nodes) > 0 {
			m.confirm.Ask("Clear canvas", fmt.Sprintf("%d ideas", len(m.nodes)),
				"Saved idea sets are not affected.",
				func() tea.Msg {
					m.session.Clear()
					return assistMsg{message: "Canvas cleared"}
				})
		}

	case key.Matches(msg, CanvasKeys.Saved):
		return func() tea.Msg { return SwitchToSavedMsg{} }

	case key.Matches(msg, CanvasKeys.Search):
		return func() tea.Msg { return SwitchToSearchMsg{} }

	case key.Matches(msg, CanvasKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	}

	return nil
}

func (m *CanvasModel) openForm(purpose formPurpose, nodeID string, form *InputForm) tea.Cmd {
	m.mode = canvasForm
	m.purpose = purpose
	m.formNodeID = nodeID
	m.form = form
	return form.Init()
}

func (m *CanvasModel) closeForm() {
	m.mode = canvasBrowse
	m.form = nil
	m.formNodeID = ""
}

func (m *CanvasModel) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.form.Keys.Cancel):
		m.closeForm()
		return nil
	case key.Matches(msg, m.form.Keys.Submit):
		if m.form.Check() != nil {
			return nil
		}
		return m.submitForm()
	}
	_, cmd := m.form.Update(msg)
	return cmd
}

func (m *CanvasModel) submitForm() tea.Cmd {
	form, purpose, id := m.form, m.purpose, m.formNodeID
	m.closeForm()

	var err error
	switch purpose {
	case formAdd:
		node := m.session.AddNode(m.newIdeaPosition(), form.Value(0))
		m.Focus(node.ID)
		return nil

	case formEdit:
		err = m.session.EditNode(id, form.Value(0))

	case formMove:
		x, _ := strconv.ParseFloat(form.Value(0), 64)
		y, _ := strconv.ParseFloat(form.Value(1), 64)
		err = m.session.MoveNode(id, domain.Position{X: x, Y: y})

	case formSave:
		return m.saveCmd(form.Value(0))
	}

	m.Refresh()
	if err != nil {
		m.SetMessage(application.UserMessage(err), LevelError)
	}
	return nil
}

func (m *CanvasModel) handleConnectKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, CanvasKeys.Cancel):
		m.mode = canvasBrowse
		m.connectFrom = ""
		m.ClearMessage()
	case key.Matches(msg, CanvasKeys.Up):
		m.paginator.CursorUp()
	case key.Matches(msg, CanvasKeys.Down):
		m.paginator.CursorDown()
	case key.Matches(msg, CanvasKeys.Select):
		target, ok := m.selected()
		if !ok {
			return nil
		}
		source := m.connectFrom
		m.mode = canvasBrowse
		m.connectFrom = ""
		m.toggleConnection(source, target.ID)
	}
	return nil
}

// toggleConnection connects source to target, or removes the connection when
// one already exists
func (m *CanvasModel) toggleConnection(source, target string) {
	defer m.Refresh()

	for _, e := range m.edges {
		if e.Source == source && e.Target == target {
			if err := m.session.Disconnect(e.ID); err != nil {
				m.SetMessage(application.UserMessage(err), LevelError)
				return
			}
			m.SetMessage("Connection removed", LevelInfo)
			return
		}
	}

	if _, err := m.session.Connect(source, target); err != nil {
		var ce *application.ConnectError
		if errors.As(err, &ce) {
			m.SetMessage("Cannot connect: "+ce.Reason, LevelError)
		} else {
			m.SetMessage(application.UserMessage(err), LevelError)
		}
		return
	}
	m.SetMessage("Connected", LevelInfo)
}

func (m *CanvasModel) askDelete(node domain.Node) {
	incident := 0
	for _, e := range m.edges {
		if e.Touches(node.ID) {
			incident++
		}
	}
	note := ""
	if incident > 0 {
		note = fmt.Sprintf("%d connections will be removed too.", incident)
	}

	m.confirm.Ask("Delete idea", Truncate(node.Label, 60), note, func() tea.Msg {
		removed, err := m.session.DeleteNode(node.ID)
		return nodeDeletedMsg{label: node.Label, edges: removed, err: err}
	})
}

// assist runs fn off the update loop with a bounded context
func (m *CanvasModel) assist(status string, fn func(ctx context.Context) assistMsg) tea.Cmd {
	if m.busy != "" {
		m.SetMessage("Still waiting on the assistant", LevelWarn)
		return nil
	}
	m.busy = status
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), AssistTimeout)
		defer cancel()
		return fn(ctx)
	}
}

func (m *CanvasModel) saveCmd(title string) tea.Cmd {
	nodes, edges := m.session.Graph()
	return func() tea.Msg {
		res, err := commands.NewSaveSnapshotCommand(m.store, nodes, edges, title).Execute(context.Background())
		return snapshotSavedMsg{result: res, err: err}
	}
}

func (m *CanvasModel) handleSaved(msg snapshotSavedMsg) tea.Cmd {
	if msg.err != nil {
		m.SetMessage(application.UserMessage(msg.err), LevelError)
		return nil
	}
	res := msg.result
	if res.Skipped {
		m.SetMessage(res.Message, LevelWarn)
		return nil
	}

	m.session.SetTitle(res.Snapshot.Title)
	if res.Warning != "" {
		m.SetMessage(res.Message+". "+res.Warning, LevelWarn)
	} else {
		m.SetMessage(res.Message, LevelInfo)
	}
	return changed
}

// newIdeaPosition stacks keyboard-added ideas in a column
func (m *CanvasModel) newIdeaPosition() domain.Position {
	return domain.Position{X: 100, Y: float64(100 + NewIdeaSpacing*len(m.nodes))}
}

func (m *CanvasModel) selected() (domain.Node, bool) {
	i := m.paginator.Cursor()
	if i >= 0 && i < len(m.nodes) {
		return m.nodes[i], true
	}
	return domain.Node{}, false
}

func (m *CanvasModel) labelOf(id string) (string, bool) {
	for _, n := range m.nodes {
		if n.ID == id {
			return n.Label, true
		}
	}
	return "", false
}

// View renders the canvas
func (m *CanvasModel) View() string {
	v := NewViewBuilder()

	v.Title("Idea Graph")
	title := m.session.Title()
	if title == "" {
		title = "unsaved canvas"
	}
	v.Raw(styles.SnapshotTitle.Render(title))
	v.Raw(styles.MutedText.Render(fmt.Sprintf("  %d ideas • %d connections", len(m.nodes), len(m.edges))))
	v.BlankLine().BlankLine()

	if len(m.nodes) == 0 {
		v.Muted("The canvas is empty. Press n to add an idea or o to open a saved idea set.")
	}

	start, end := m.paginator.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderIdea(m.nodes[i], i == m.paginator.Cursor()))
	}
	if m.paginator.TotalPages() > 1 {
		v.Muted(fmt.Sprintf("page %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages()))
	}

	if node, ok := m.selected(); ok && m.mode == canvasBrowse && !m.confirm.Active() {
		v.BlankLine()
		v.Raw(m.renderConnections(node))
	}

	switch {
	case m.confirm.Active():
		v.BlankLine().Raw(m.confirm.View())
		return v.String()
	case m.mode == canvasForm:
		v.BlankLine().Raw(m.form.View("submit"))
		return v.String()
	}

	if m.busy != "" {
		v.BlankLine().Raw(styles.WarningMsg.Render(m.busy)).BlankLine()
	}
	v.Message(m.Message, m.MessageLevel)

	if m.mode == canvasConnect {
		return v.Help(CanvasKeys.Up, CanvasKeys.Down, CanvasKeys.Select, CanvasKeys.Cancel).String()
	}
	return v.Help(
		CanvasKeys.New,
		CanvasKeys.Edit,
		CanvasKeys.Connect,
		CanvasKeys.Suggest,
		CanvasKeys.Save,
		CanvasKeys.Saved,
		CanvasKeys.Help,
		CanvasKeys.Quit,
	).String()
}

func (m *CanvasModel) renderIdea(node domain.Node, selected bool) string {
	width := m.Width - 24
	if width < 20 {
		width = 60
	}
	label := Truncate(node.Label, width)
	if label == "" {
		label = "(empty)"
	}

	prefix := styles.Gutter
	var text string
	switch {
	case selected:
		prefix = styles.Cursor
		text = styles.IdeaSelected.Render(label)
	case node.ID == m.connectFrom:
		text = styles.IdeaMarked.Render(label)
	default:
		text = styles.IdeaLabel.Render(label)
	}
	return prefix + text + " " + RenderPosition(node.Position)
}

func (m *CanvasModel) renderConnections(node domain.Node) string {
	var b strings.Builder
	for _, e := range m.edges {
		var other, dir string
		switch node.ID {
		case e.Source:
			other, dir = e.Target, "→ "
		case e.Target:
			other, dir = e.Source, "← "
		default:
			continue
		}
		b.WriteString("  ")
		if label, ok := m.labelOf(other); ok {
			b.WriteString(styles.Connection.Render(dir + Truncate(label, 60)))
		} else {
			b.WriteString(styles.Dangling.Render(dir + "missing idea " + other))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("an idea needs some text")
	}
	return nil
}

func requireNumber(s string) error {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
