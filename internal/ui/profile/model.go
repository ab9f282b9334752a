package profile

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hudo-ng/ShoppingList/internal/auth"
	"github.com/hudo-ng/ShoppingList/internal/keys"
	"github.com/hudo-ng/ShoppingList/internal/theme"
)

// SessionChangedMsg is sent when a signin, signup, or logout settles.
type SessionChangedMsg struct {
	Session *auth.Session
	Err     error
}

// mode tracks which part of the profile screen is active.
type mode int

const (
	modeMenu mode = iota
	modeSignin
	modeSignup
	modeBusy
)

// formBindings holds form field values on the heap so huh's Value()
// pointers stay valid across Bubble Tea model copies.
type formBindings struct {
	choice      string
	firstName   string
	lastName    string
	email       string
	phoneNumber string
	password    string
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{10,15}$`)
)

// Model is the profile / auth screen component.
type Model struct {
	authn   *auth.Authenticator
	keys    *keys.KeyMap
	session *auth.Session

	mode      mode
	form      *huh.Form
	fb        *formBindings
	statusMsg string
	width     int
	height    int
}

// New creates a new profile model. The session restored at startup may
// be nil (logged out).
func New(a *auth.Authenticator, session *auth.Session, k *keys.KeyMap, width, height int) Model {
	return Model{
		authn:   a,
		keys:    k,
		session: session,
		fb:      &formBindings{},
		width:   width,
		height:  height,
	}
}

// Session returns the current session, nil when logged out.
func (m Model) Session() *auth.Session {
	return m.session
}

// FormActive reports whether a signin or signup form currently owns key
// input. The account chooser is navigated with arrows, so tab remains
// free for screen switching there.
func (m Model) FormActive() bool {
	return m.mode == modeSignin || m.mode == modeSignup
}

// Init shows the menu when logged out.
func (m Model) Init() tea.Cmd {
	if m.session == nil {
		return m.startMenu()
	}
	return nil
}

// Update handles messages for the profile screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SessionChangedMsg:
		if msg.Err != nil {
			// Surface the server message inline and return to the form
			// menu with the entered values preserved.
			var apiErr *auth.APIError
			if errors.As(msg.Err, &apiErr) {
				m.statusMsg = apiErr.Msg
			} else {
				m.statusMsg = msg.Err.Error()
			}
			if m.session == nil {
				m.mode = modeMenu
				return m, m.startMenu()
			}
			return m, nil
		}

		m.session = msg.Session
		m.statusMsg = ""
		m.mode = modeMenu
		m.form = nil
		if m.session == nil {
			return m, m.startMenu()
		}
		return m, nil

	case tea.KeyMsg:
		if m.session != nil {
			return m.handleLoggedInKeys(msg)
		}
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

// handleLoggedInKeys processes key input while a session is active.
func (m Model) handleLoggedInKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "l" {
		return m, m.logout()
	}
	return m, nil
}

// updateForm routes messages into the active form.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		switch m.mode {
		case modeMenu:
			if m.fb.choice == "signup" {
				m.mode = modeSignup
				m.form = m.buildSignupForm()
			} else {
				m.mode = modeSignin
				m.form = m.buildSigninForm()
			}
			return m, m.form.Init()

		case modeSignin:
			m.mode = modeBusy
			m.form = nil
			return m, m.signin()

		case modeSignup:
			m.mode = modeBusy
			m.form = nil
			return m, m.signup()
		}
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeMenu
		return m, m.startMenu()
	}

	return m, cmd
}

// View renders the profile screen.
func (m Model) View() string {
	if m.session != nil {
		return m.renderLoggedIn()
	}

	var body string
	switch {
	case m.mode == modeBusy:
		body = theme.HelpStyle.Render("Contacting the server...")
	case m.form != nil:
		body = m.form.View()
	}

	if m.statusMsg != "" {
		body = lipgloss.JoinVertical(lipgloss.Left,
			theme.ErrorStyle.Render(m.statusMsg),
			"",
			body,
		)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

// renderLoggedIn shows the greeting and the logout hint.
func (m Model) renderLoggedIn() string {
	name := m.session.DisplayName
	if name == "" {
		name = "there"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		theme.SuccessStyle.Render(fmt.Sprintf("Hello, %s!", name)),
		"",
		theme.HelpStyle.Render("l log out"),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(theme.BorderStyle.Padding(1, 3).Render(content))
}

// startMenu builds the signin-or-signup chooser.
func (m *Model) startMenu() tea.Cmd {
	m.fb.choice = "signin"
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account").
				Options(
					huh.NewOption("Sign in", "signin"),
					huh.NewOption("Create an account", "signup"),
				).
				Value(&m.fb.choice),
		),
	).WithWidth(m.formWidth())
	return m.form.Init()
}

func (m *Model) buildSigninForm() *huh.Form {
	m.fb.password = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildSignupForm() *huh.Form {
	m.fb.password = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("First name").
				Value(&m.fb.firstName).
				Validate(validateMinLen("First name", 2)),
			huh.NewInput().
				Title("Last name").
				Value(&m.fb.lastName).
				Validate(validateMinLen("Last name", 2)),
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Phone number").
				Value(&m.fb.phoneNumber).
				Validate(func(s string) error {
					if !phonePattern.MatchString(strings.TrimSpace(s)) {
						return errors.New("phone number must be 10 to 15 digits")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(auth.ValidatePassword),
		),
	).WithWidth(m.formWidth())
}

func (m Model) signin() tea.Cmd {
	a := m.authn
	creds := auth.Credentials{
		Email:    strings.TrimSpace(m.fb.email),
		Password: m.fb.password,
	}
	return func() tea.Msg {
		sess, err := a.Login(context.Background(), creds)
		return SessionChangedMsg{Session: sess, Err: err}
	}
}

func (m Model) signup() tea.Cmd {
	a := m.authn
	req := auth.SignupRequest{
		FirstName:   strings.TrimSpace(m.fb.firstName),
		LastName:    strings.TrimSpace(m.fb.lastName),
		Email:       strings.TrimSpace(m.fb.email),
		PhoneNumber: strings.TrimSpace(m.fb.phoneNumber),
		Password:    m.fb.password,
	}
	return func() tea.Msg {
		if err := auth.ValidateSignup(req); err != nil {
			return SessionChangedMsg{Err: err}
		}
		sess, err := a.Signup(context.Background(), req)
		return SessionChangedMsg{Session: sess, Err: err}
	}
}

func (m Model) logout() tea.Cmd {
	a := m.authn
	return func() tea.Msg {
		return SessionChangedMsg{Err: a.Logout()}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateMinLen(fieldName string, min int) func(string) error {
	return func(s string) error {
		if len(strings.TrimSpace(s)) < min {
			return fmt.Errorf("%s must be at least %d characters", fieldName, min)
		}
		return nil
	}
}

func validateEmail(s string) error {
	if !emailPattern.MatchString(strings.TrimSpace(s)) {
		return errors.New("enter a valid email address")
	}
	return nil
}
