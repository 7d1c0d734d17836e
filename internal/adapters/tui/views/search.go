package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ideagraph/internal/adapters/tui/styles"
	"ideagraph/internal/application"
	"ideagraph/internal/application/commands"
)

// maxShownResults caps the rendered result list
const maxShownResults = 10

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// SearchModel searches ideas across every saved idea set
type SearchModel struct {
	ViewState
	searcher commands.Searcher // nil when the index is unavailable
	input    textinput.Model
	results  []commands.SearchResult
	cursor   int
}

// NewSearchModel creates a new search view model
func NewSearchModel(searcher commands.Searcher) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Search ideas and titles..."
	input.Focus()

	return &SearchModel{
		searcher: searcher,
		input:    input,
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the query and results
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.results = nil
	m.cursor = 0
	m.ClearMessage()
	m.input.Focus()
}

type searchResultsMsg struct {
	query   string
	results []commands.SearchResult
	err     error
}

// SearchSelectMsg is sent when a search result is chosen
type SearchSelectMsg struct {
	Result commands.SearchResult
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case searchResultsMsg:
		// Results for a query the user has already typed past are stale
		if msg.query != m.input.Value() {
			return m, nil
		}
		m.results = msg.results
		m.cursor = 0
		m.ClearMessage()
		if msg.err != nil {
			m.SetMessage(application.UserMessage(msg.err), LevelError)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToCanvasMsg{}
			}

		case key.Matches(msg, SearchKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			if m.cursor < min(len(m.results), maxShownResults)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Select):
			if m.cursor >= 0 && m.cursor < len(m.results) {
				result := m.results[m.cursor]
				return m, func() tea.Msg {
					return SearchSelectMsg{Result: result}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); !ok {
		return m, cmd
	}

	query := m.input.Value()
	if len(strings.TrimSpace(query)) >= 2 {
		return m, tea.Batch(cmd, m.search(query))
	}
	m.results = nil
	m.cursor = 0
	return m, cmd
}

func (m *SearchModel) search(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := commands.NewSearchCommand(m.searcher, query, commands.DefaultSearchLimit).Execute(context.Background())
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

// View renders the search view
func (m *SearchModel) View() string {
	v := NewViewBuilder()
	v.Title("Search")
	v.Line(styles.InputFocused.Render(m.input.View())).BlankLine()

	switch {
	case m.Message != "":
		v.Line(RenderMessage(m.Message, m.MessageLevel))
	case len(m.results) == 0 && len(strings.TrimSpace(m.input.Value())) >= 2:
		v.Muted("No results found")
	case len(m.results) == 0:
		v.Muted("Type at least 2 characters to search")
	default:
		v.Subtitle(fmt.Sprintf("%d results", len(m.results)))
		shown := min(len(m.results), maxShownResults)
		for i := range shown {
			v.Line(m.renderResult(m.results[i], i == m.cursor))
		}
		if len(m.results) > shown {
			v.Muted(fmt.Sprintf("... and %d more", len(m.results)-shown))
		}
	}

	return v.Help(SearchKeys.Up, SearchKeys.Down, SearchKeys.Select, SearchKeys.Cancel).String()
}

func (m *SearchModel) renderResult(result commands.SearchResult, selected bool) string {
	var text string
	if result.NodeID == "" {
		text = "[SET]  " + Truncate(result.Title, 60)
	} else {
		text = "[IDEA] " + Truncate(result.Label, 50) + styles.Arrow + Truncate(result.Title, 30)
	}

	if selected {
		return styles.Cursor + styles.IdeaSelected.Render(text)
	}
	return styles.Gutter + text
}
