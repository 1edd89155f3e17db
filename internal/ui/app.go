package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shelfhq/shelf/internal/booktrack"
	"github.com/shelfhq/shelf/internal/library"
	"github.com/shelfhq/shelf/internal/session"
	"github.com/shelfhq/shelf/internal/settings"
	"github.com/shelfhq/shelf/internal/storage"
)

// screen identifies the active view.
type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenBooks
	screenForm
	screenProfile
)

// Options configure the UI.
type Options struct {
	Context  context.Context
	Client   *booktrack.Client
	Sessions *session.Store
	Library  *library.Library
	Store    storage.Store
	Theme    string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx      context.Context
	client   *booktrack.Client
	sessions *session.Store
	library  *library.Library
	store    storage.Store

	keys   keyMap
	theme  Theme
	styles Styles

	screen      screen
	width       int
	height      int
	busy        bool
	spin        spinner.Model
	status      string
	statusIsErr bool

	inputs   []textinput.Model
	focusIdx int

	books    []booktrack.Book
	selected int

	editingID string
	profile   booktrack.Profile
}

// New creates the root model. The starting screen depends on whether a
// session credential is already stored.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := GetTheme(opts.Theme)
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	m := Model{
		ctx:      ctx,
		client:   opts.Client,
		sessions: opts.Sessions,
		library:  opts.Library,
		store:    opts.Store,
		keys:     defaultKeyMap(),
		theme:    theme,
		styles:   theme.Styles(),
		spin:     spin,
		screen:   screenLogin,
	}

	if opts.Sessions != nil {
		if sess, err := opts.Sessions.Get(); err == nil && sess.Authenticated() {
			m.screen = screenBooks
		}
	}
	m.inputs = m.screenInputs()
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, m.spin.Tick, textinput.Blink}
	if m.screen == screenBooks {
		cmds = append(cmds, m.refreshCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case errMsg:
		m.busy = false
		m.setError(msg.err)
		return m, nil

	case loggedInMsg:
		m.busy = false
		m.switchTo(screenBooks)
		return m, m.refreshCmd()

	case registeredMsg:
		m.busy = false
		m.switchTo(screenLogin)
		m.setInfo(msg.message)
		return m, nil

	case booksRefreshedMsg:
		m.busy = false
		m.books = m.library.Books()
		m.clampSelection()
		return m, nil

	case bookSavedMsg:
		m.busy = false
		m.books = m.library.Books()
		m.clampSelection()
		m.switchTo(screenBooks)
		return m, nil

	case bookDeletedMsg:
		m.busy = false
		m.books = m.library.Books()
		m.clampSelection()
		return m, nil

	case bookFetchedMsg:
		m.busy = false
		m.editingID = msg.book.ID
		m.switchTo(screenForm)
		m.seedBookForm(msg.book)
		return m, nil

	case profileMsg:
		m.busy = false
		m.profile = msg.profile
		m.switchTo(screenProfile)
		m.seedProfileForm(msg.profile)
		return m, nil

	case profileSavedMsg:
		m.busy = false
		m.profile = msg.profile
		m.setInfo("profile saved")
		return m, nil

	case loggedOutMsg:
		m.busy = false
		m.books = nil
		m.profile = booktrack.Profile{}
		m.switchTo(screenLogin)
		m.setInfo("logged out")
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.styles = m.theme.Styles()
		if m.store != nil {
			_ = settings.Save(m.store, settings.Settings{Theme: m.theme.Name})
		}
		return m, nil
	}

	if m.busy {
		// One request at a time from the UI; the core layer itself
		// does not fence concurrent mutations.
		return m, nil
	}

	switch m.screen {
	case screenLogin:
		return m.handleLoginKey(msg)
	case screenRegister:
		return m.handleRegisterKey(msg)
	case screenBooks:
		return m.handleBooksKey(msg)
	case screenForm:
		return m.handleFormKey(msg)
	case screenProfile:
		return m.handleProfileKey(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch m.screen {
	case screenLogin:
		body = m.viewLogin()
	case screenRegister:
		body = m.viewRegister()
	case screenBooks:
		body = m.viewBooks()
	case screenForm:
		body = m.viewForm()
	case screenProfile:
		body = m.viewProfile()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewHeader(), body, m.viewStatus())
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("shelf")
	sub := m.styles.Muted.Render("  book tracking")
	if m.busy {
		sub += "  " + m.spin.View()
	}
	return title + sub
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusIsErr {
		return m.styles.Danger.Render(m.status)
	}
	return m.styles.Success.Render(m.status)
}

func (m *Model) switchTo(next screen) {
	m.screen = next
	m.status = ""
	m.statusIsErr = false
	m.inputs = m.screenInputs()
	m.focusIdx = 0
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

// setError renders a normalized failure, listing field messages when
// the kind carries them.
func (m *Model) setError(err error) {
	m.statusIsErr = true
	if normalized, ok := booktrack.AsError(err); ok {
		m.status = normalized.Message
		if normalized.Kind == booktrack.KindValidation && m.status == "" {
			m.status = "validation failed"
		}
		return
	}
	m.status = err.Error()
}

func (m *Model) setInfo(message string) {
	m.status = message
	m.statusIsErr = false
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.books) {
		m.selected = len(m.books) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// pageCountFromInput parses the form's page field. Blank parses as 0 to
// match record normalization; a non-numeric value parses as -1 so the
// library's pre-flight check rejects it before any round trip.
func pageCountFromInput(value string) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1
	}
	return parsed
}

func fieldValue(inputs []textinput.Model, idx int) string {
	if idx < 0 || idx >= len(inputs) {
		return ""
	}
	return strings.TrimSpace(inputs[idx].Value())
}

func (m Model) helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, fmt.Sprintf("%s %s", b.Help().Key, b.Help().Desc))
	}
	return m.styles.Help.Render(strings.Join(parts, " • "))
}
