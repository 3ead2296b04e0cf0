// ABOUTME: Root bubbletea model for the terminal catalog browser
// ABOUTME: Manages screen state and runs session operations as async commands

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/storeops/catalog-console/internal/tui/catalog"
	"github.com/storeops/catalog-console/internal/tui/login"
	"github.com/storeops/catalog-console/internal/tui/styles"
	"github.com/storeops/catalog-console/models"
	"github.com/storeops/catalog-console/services"
	"github.com/storeops/catalog-console/tokenstore"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenLogin
	ScreenCatalog
)

// Layout constants
const (
	minTerminalWidth = 80
	frameHeight      = 4 // header, footer, and the blank lines around content
)

// action names the session operation a viewLoadedMsg answers
type action string

const (
	actionResume  action = "resume"
	actionLogin   action = "login"
	actionRefresh action = "refresh"
	actionSelect  action = "select"
	actionLogout  action = "logout"
)

// viewLoadedMsg carries the view returned by a session operation
type viewLoadedMsg struct {
	action action
	view   *models.View
	err    error
}

// checkedMsg carries the result of a login check
type checkedMsg struct {
	resp *models.CheckResponse
	err  error
}

// App is the root model for the TUI
type App struct {
	ctx      context.Context
	sessions *services.SessionManager
	tokens   tokenstore.Store
	apiName  string

	screen     Screen
	width      int
	height     int
	view       *models.View
	status     string
	statusErr  bool
	busy       bool
	lastUpdate time.Time

	// Child models
	login   *login.Login
	catalog *catalog.Catalog
}

// New creates the TUI application. apiName is shown in the header.
func New(ctx context.Context, sessions *services.SessionManager, tokens tokenstore.Store, apiName string) *App {
	return &App{
		ctx:      ctx,
		sessions: sessions,
		tokens:   tokens,
		apiName:  apiName,
		screen:   ScreenLoading,
		view:     models.NewView(),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	a.busy = true
	return a.resume()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.catalog != nil {
			a.catalog.SetSize(a.width, a.contentHeight())
		}
		if a.login != nil {
			a.login.SetWidth(a.width)
			return a.updateLogin(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenCatalog:
			return a.updateCatalog(msg)
		case ScreenLoading:
			if msg.String() == "q" {
				return a, tea.Quit
			}
		}

	case login.SubmittedMsg:
		a.busy = true
		a.setStatus("Signing in...", false)
		return a, a.doLogin(msg.Credentials)

	case login.CancelledMsg:
		return a, tea.Quit

	case viewLoadedMsg:
		return a.handleViewLoaded(msg)

	case checkedMsg:
		a.busy = false
		if msg.err != nil {
			a.setStatus("Login check failed: "+errorText(msg.err), true)
			return a, nil
		}
		a.setStatus(fmt.Sprintf("Login check passed (uid %s)", msg.resp.UID), false)
		return a, nil

	default:
		// huh forms need their internal messages
		if a.screen == ScreenLogin && a.login != nil {
			return a.updateLogin(msg)
		}
	}

	return a, nil
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.login == nil || a.busy {
		return a, nil
	}
	model, cmd := a.login.Update(msg)
	a.login = model.(*login.Login)
	return a, cmd
}

func (a *App) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	}
	if a.busy {
		return a, nil
	}

	switch msg.String() {
	case "enter":
		if id, ok := a.catalog.Highlighted(); ok {
			a.busy = true
			return a, a.doSelect(id)
		}
		return a, nil
	case "r":
		a.busy = true
		a.setStatus("Refreshing...", false)
		return a, a.doRefresh()
	case "c":
		a.busy = true
		a.setStatus("Checking login...", false)
		return a, a.doCheck()
	case "x":
		a.busy = true
		return a, a.doLogout()
	}

	var cmd tea.Cmd
	a.catalog, cmd = a.catalog.Update(msg)
	return a, cmd
}

func (a *App) handleViewLoaded(msg viewLoadedMsg) (tea.Model, tea.Cmd) {
	a.busy = false
	if msg.view != nil {
		a.view = msg.view
	}

	if !a.view.Authenticated() {
		status := ""
		switch {
		case msg.action == actionLogin && msg.err != nil:
			status = "登入失敗: " + errorText(msg.err)
		case msg.action != actionLogout && msg.action != actionResume && errors.Is(msg.err, services.ErrNotAuthenticated):
			status = "Session expired, please sign in again"
		case msg.err != nil && !errors.Is(msg.err, services.ErrNotAuthenticated):
			status = errorText(msg.err)
		}
		return a, a.showLogin(status)
	}

	a.showCatalog()
	switch {
	case msg.err == nil && msg.action == actionRefresh:
		a.lastUpdate = time.Now()
		a.setStatus(fmt.Sprintf("Loaded %d products", len(a.view.Products)), false)
	case msg.err == nil && (msg.action == actionLogin || msg.action == actionResume):
		a.lastUpdate = time.Now()
		a.setStatus("Signed in", false)
	case msg.err == nil:
		a.setStatus("", false)
	case errors.Is(msg.err, services.ErrUnknownProduct):
		a.setStatus("Product is no longer listed", true)
	default:
		a.setStatus(string(msg.action)+" failed: "+errorText(msg.err), true)
	}
	return a, nil
}

// showLogin switches to a fresh sign-in form
func (a *App) showLogin(status string) tea.Cmd {
	username := ""
	if a.login != nil {
		username = a.login.Username()
	}
	a.screen = ScreenLogin
	a.catalog = nil
	a.status = ""
	a.login = login.New(username)
	a.login.SetWidth(a.width)
	if status != "" {
		a.login.SetError(status)
	}
	return a.login.Init()
}

func (a *App) showCatalog() {
	a.screen = ScreenCatalog
	a.login = nil
	if a.catalog == nil {
		a.catalog = catalog.New(a.view, a.width, a.contentHeight())
		return
	}
	a.catalog.SetView(a.view)
}

func (a *App) setStatus(status string, isErr bool) {
	a.status = status
	a.statusErr = isErr
}

// errorText prefers the API's message over the wrapped error chain
func errorText(err error) string {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func (a *App) resume() tea.Cmd {
	return func() tea.Msg {
		view, err := a.sessions.Resume(a.ctx, a.tokens)
		return viewLoadedMsg{action: actionResume, view: view, err: err}
	}
}

func (a *App) doLogin(creds models.Credentials) tea.Cmd {
	return func() tea.Msg {
		view, err := a.sessions.Login(a.ctx, a.tokens, creds)
		return viewLoadedMsg{action: actionLogin, view: view, err: err}
	}
}

func (a *App) doRefresh() tea.Cmd {
	return func() tea.Msg {
		view, err := a.sessions.GetProducts(a.ctx, a.tokens)
		return viewLoadedMsg{action: actionRefresh, view: view, err: err}
	}
}

func (a *App) doSelect(id models.ProductID) tea.Cmd {
	return func() tea.Msg {
		view, err := a.sessions.Select(a.ctx, a.tokens, id)
		return viewLoadedMsg{action: actionSelect, view: view, err: err}
	}
}

func (a *App) doCheck() tea.Cmd {
	return func() tea.Msg {
		resp, err := a.sessions.CheckLogin(a.ctx, a.tokens)
		return checkedMsg{resp: resp, err: err}
	}
}

func (a *App) doLogout() tea.Cmd {
	return func() tea.Msg {
		view, err := a.sessions.Logout(a.ctx, a.tokens)
		return viewLoadedMsg{action: actionLogout, view: view, err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string
	switch a.screen {
	case ScreenLogin:
		content = styles.Panel.Render(a.login.View())
	case ScreenCatalog:
		content = a.catalog.View()
	default:
		content = styles.Panel.Render("Loading...")
	}
	if a.status != "" && a.screen == ScreenCatalog {
		style := styles.StatusOK
		if a.statusErr {
			style = styles.StatusCritical
		}
		content += "\n" + style.Render(" "+a.status)
	}
	return a.wrapWithFrame(content)
}

// contentHeight calculates the height available between header and footer
func (a *App) contentHeight() int {
	return a.height - frameHeight
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := " " + titleStyle.Render("產品後台 Catalog Console") + " "

	rightText := ""
	if a.apiName != "" {
		state := "signed out"
		if a.view.Authenticated() {
			state = "signed in"
		}
		rightText = " " + contextStyle.Render(a.apiName+" · "+state) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}
	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Tab Next", "Enter Submit", "Esc Quit"}
	case ScreenCatalog:
		shortcuts = []string{"↑↓ Navigate", "Enter Select", "r Refresh", "c Check", "x Logout", "q Quit"}
	default:
		shortcuts = []string{"q Quit"}
	}

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
	}
	leftText := " " + strings.Join(styled, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.screen == ScreenCatalog {
		elapsed := formatTimeSince(a.lastUpdate, time.Now())
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftPlainText) - lipgloss.Width(rightPlainText) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}
	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// formatTimeSince formats the time elapsed since t in human-readable form
func formatTimeSince(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until the user quits
func Run(ctx context.Context, sessions *services.SessionManager, tokens tokenstore.Store, apiName string) error {
	app := New(ctx, sessions, tokens, apiName)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
