// ABOUTME: Sign-in screen as a bubbletea model
// ABOUTME: Collects the username (email) and password with a huh form

package login

import (
	"fmt"
	"net/mail"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/storeops/catalog-console/internal/tui/styles"
	"github.com/storeops/catalog-console/models"
)

// SubmittedMsg is sent when both fields pass validation
type SubmittedMsg struct {
	Credentials models.Credentials
}

// CancelledMsg is sent when the user leaves the form with esc
type CancelledMsg struct{}

// Login wraps the sign-in form
type Login struct {
	form     *huh.Form
	username string
	password string
	err      string
	width    int
}

// New creates the sign-in form. username pre-fills the email field.
func New(username string) *Login {
	l := &Login{username: username}
	l.form = l.createForm()
	return l
}

func (l *Login) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email address").
				Placeholder("name@example.com").
				Validate(validateEmail).
				Value(&l.username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(validateRequired).
				Value(&l.password),
		).Title("請先登入").
			Description("Sign in with your store manager account"),
	).WithTheme(createTheme()).
		WithShowHelp(false)
}

// createTheme returns a huh theme using the shared palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(styles.Text)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(styles.Muted)

	return t
}

// SetError shows msg above the form, e.g. after a rejected sign-in.
func (l *Login) SetError(msg string) {
	l.err = msg
}

// SetWidth sets the rendering width
func (l *Login) SetWidth(width int) {
	l.width = width
}

// Username returns the current email field value.
func (l *Login) Username() string {
	return l.username
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return l, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		creds := models.Credentials{
			Username: strings.TrimSpace(l.username),
			Password: l.password,
		}
		// The password is not kept once handed off
		l.password = ""
		return l, func() tea.Msg { return SubmittedMsg{Credentials: creds} }
	}

	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder
	if l.err != "" {
		sb.WriteString(styles.StatusCritical.Render(l.err))
		sb.WriteString("\n\n")
	}
	sb.WriteString(l.form.View())
	return sb.String()
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateEmail(s string) error {
	if err := validateRequired(s); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil || addr.Name != "" {
		return fmt.Errorf("must be an email address")
	}
	return nil
}
