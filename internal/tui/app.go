// internal/tui/app.go
//
// This is the main TUI for the veteran-aid client. It follows The Elm
// Architecture that bubbletea imposes:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// Every remote call runs inside a tea.Cmd and comes back as a typed message.

package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvanc-yurii/veteran-aid/internal/api"
	"github.com/xvanc-yurii/veteran-aid/internal/config"
	"github.com/xvanc-yurii/veteran-aid/internal/query"
	"github.com/xvanc-yurii/veteran-aid/internal/session"
)

// appState represents which "screen" we're on.
type appState int

const (
	stateLogin appState = iota
	stateRegister
	stateMenu
	stateBenefits
	stateCases
	stateCaseDetail
)

// Logbook is the slice of the logbook the TUI needs; *logbook.Logbook
// satisfies it and tests can supply a stub.
type Logbook interface {
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	Tail(maxLines int) []string
}

type nopLogbook struct{}

func (nopLogbook) Info(string, ...interface{})  {}
func (nopLogbook) Warn(string, ...interface{})  {}
func (nopLogbook) Error(string, ...interface{}) {}
func (nopLogbook) Tail(int) []string            { return nil }

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogbook attaches the activity log shown in the bottom panel.
func WithLogbook(lb Logbook) AppOption {
	return func(a *App) {
		if lb != nil {
			a.logbook = lb
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL the state.
type App struct {
	state   appState
	cfg     *config.Config
	client  *api.Client
	session *session.Store
	cache   *query.Cache
	logbook Logbook

	mainMenu  list.Model
	authView  *authView
	benefits  *benefitsView
	cases     *casesView
	caseView  *caseView
	statusMsg string

	width  int
	height int
}

// menuItem implements list.Item for the main menu.
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates the root model. The caller owns the config, session store,
// gateway client and cache; 401 teardown (session + cache clear) is wired on
// the client before it gets here.
func NewApp(cfg *config.Config, client *api.Client, store *session.Store, cache *query.Cache, opts ...AppOption) *App {
	mainMenu := list.New(buildMainMenu(), list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "VETERAN AID"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)

	app := &App{
		state:    stateLogin,
		cfg:      cfg,
		client:   client,
		session:  store,
		cache:    cache,
		logbook:  nopLogbook{},
		mainMenu: mainMenu,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.authView = newAuthView(app)
	app.benefits = newBenefitsView(app)
	app.cases = newCasesView(app)
	if store.Authenticated() {
		app.state = stateMenu
	}
	return app
}

func buildMainMenu() []list.Item {
	return []list.Item{
		menuItem{title: "Browse Benefits", desc: "All available benefits and guarantees"},
		menuItem{title: "Recommended for Me", desc: "Benefits matching your status"},
		menuItem{title: "My Cases", desc: "Open and track benefit applications"},
		menuItem{title: "Logout", desc: "Clear the saved session"},
		menuItem{title: "Exit", desc: "Quit the client"},
	}
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	if a.state == stateMenu {
		a.logbook.Info("session restored", "subject", a.sessionSubject())
	}
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		a.benefits.setSize(msg.Width, msg.Height)
		a.cases.setSize(msg.Width, msg.Height)
		if a.caseView != nil {
			a.caseView.setSize(msg.Width, msg.Height)
		}
		return a, nil

	case sessionExpiredMsg:
		return a.forceLogin("Session expired. Please sign in again.")

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			return a.handleEscape()
		}
	}

	return a.routeUpdate(msg)
}

// routeUpdate dispatches to the active screen.
func (a *App) routeUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.state {
	case stateLogin, stateRegister:
		return a, a.authView.Update(msg)
	case stateMenu:
		return a.updateMenu(msg)
	case stateBenefits:
		return a, a.benefits.Update(msg)
	case stateCases:
		return a, a.cases.Update(msg)
	case stateCaseDetail:
		if a.caseView != nil {
			return a, a.caseView.Update(msg)
		}
	}
	return a, nil
}

func (a *App) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q":
			return a, tea.Quit
		case "enter":
			return a.handleMenuSelection()
		}
	}
	var cmd tea.Cmd
	a.mainMenu, cmd = a.mainMenu.Update(msg)
	return a, cmd
}

func (a *App) handleMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	switch item.title {
	case "Browse Benefits":
		a.logbook.Info("menu", "selected", "benefits")
		a.state = stateBenefits
		return a, a.benefits.Open(false)
	case "Recommended for Me":
		a.logbook.Info("menu", "selected", "recommended")
		a.state = stateBenefits
		return a, a.benefits.Open(true)
	case "My Cases":
		a.logbook.Info("menu", "selected", "cases")
		a.state = stateCases
		return a, a.cases.Open()
	case "Logout":
		return a.logout()
	case "Exit":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleEscape() (tea.Model, tea.Cmd) {
	switch a.state {
	case stateRegister:
		a.state = stateLogin
		a.authView.reset()
		return a, nil
	case stateBenefits:
		if a.benefits.handleBack() {
			return a, nil
		}
		a.state = stateMenu
		return a, nil
	case stateCases:
		if a.cases.handleBack() {
			return a, nil
		}
		a.state = stateMenu
		return a, nil
	case stateCaseDetail:
		if a.caseView != nil && a.caseView.handleBack() {
			return a, nil
		}
		a.caseView = nil
		a.state = stateCases
		return a, a.cases.Open()
	}
	return a, nil
}

// openCase switches to the case detail screen and kicks off its loads.
func (a *App) openCase(c api.Case) tea.Cmd {
	a.caseView = newCaseView(a, c)
	a.caseView.setSize(a.width, a.height)
	a.state = stateCaseDetail
	return a.caseView.Init()
}

// completeLogin is called by the auth view once a token is stored.
func (a *App) completeLogin() tea.Cmd {
	a.state = stateMenu
	a.setStatus("Signed in")
	a.logbook.Info("signed in", "subject", a.sessionSubject())
	return nil
}

func (a *App) logout() (tea.Model, tea.Cmd) {
	// Clearing the session notifies its subscribers; the cache is wired
	// up as one at startup, so the cached resources go with it.
	a.session.Clear()
	a.logbook.Info("signed out")
	return a.forceLogin("Signed out.")
}

// forceLogin routes to the login view. The token and cache are already
// cleared through the session store's subscribers.
func (a *App) forceLogin(notice string) (tea.Model, tea.Cmd) {
	a.caseView = nil
	a.authView.reset()
	a.authView.notice = notice
	a.state = stateLogin
	return a, nil
}

// checkAuth converts a 401 into the login redirect. Views call it first on
// every result message error.
func (a *App) checkAuth(err error) tea.Cmd {
	if err == nil || !api.IsUnauthorized(err) {
		return nil
	}
	a.logbook.Warn("authorization failure, clearing session")
	return func() tea.Msg { return sessionExpiredMsg{} }
}

func (a *App) sessionSubject() string {
	claims, ok := a.session.Claims()
	if !ok {
		return ""
	}
	return claims.Subject
}

// ctx returns the context for one remote call. Requests are never cancelled
// mid-flight by navigation; superseded results are ignored on arrival.
func (a *App) ctx() context.Context {
	return context.Background()
}

// View renders the current state to a string.
func (a *App) View() string {
	var content string
	switch a.state {
	case stateLogin, stateRegister:
		content = a.authView.View()
	case stateMenu:
		content = a.mainMenu.View()
	case stateBenefits:
		content = a.benefits.View()
	case stateCases:
		content = a.cases.View()
	case stateCaseDetail:
		if a.caseView != nil {
			content = a.caseView.View()
		}
	}
	return a.renderFrame(content)
}

func (a *App) renderFrame(content string) string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	header := headerStyle.Render("VETERAN AID") + "  " + subtleStyle.Render(a.sessionLine())
	box := frameStyle.Width(max(40, width-2)).Render(content)
	sections := []string{header, box}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	if a.statusMsg != "" {
		sections = append(sections, footerStyle.Render(a.statusMsg))
	}
	return strings.Join(sections, "\n")
}

func (a *App) sessionLine() string {
	claims, ok := a.session.Claims()
	if !ok {
		return "not signed in"
	}
	line := "signed in"
	if claims.Subject != "" {
		line += " · user " + claims.Subject
	}
	if !claims.ExpiresAt.IsZero() {
		line += " · session until " + claims.ExpiresAt.Local().Format("15:04")
	}
	return line
}

func (a *App) renderLogPanel() string {
	lines := a.logbook.Tail(5)
	if len(lines) == 0 {
		return ""
	}
	head := logHeadStyle.Render("LOG")
	body := subtleStyle.Render(strings.Join(lines, "\n"))
	return logBoxStyle.Render(head + "\n" + body)
}

// setStatus updates the footer line.
func (a *App) setStatus(msg string) {
	a.statusMsg = strings.TrimSpace(msg)
}

func formatTimestamp(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "—"
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return raw
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
