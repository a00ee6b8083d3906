package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvanc-yurii/veteran-aid/internal/api"
)

const (
	authFieldEmail = iota
	authFieldPassword
	authFieldFullName
	authFieldRegion
)

// authView renders the login and register forms. Which one is active follows
// the app state.
type authView struct {
	app *App

	inputs     []textinput.Model
	focus      int
	submitting bool
	spin       spinner.Model
	errMsg     string
	notice     string
}

func newAuthView(app *App) *authView {
	v := &authView{app: app}
	v.spin = spinner.New()
	v.spin.Spinner = spinner.Dot
	v.buildInputs()
	return v
}

func (v *authView) buildInputs() {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 64

	fullName := textinput.New()
	fullName.Placeholder = "full name (optional)"
	fullName.CharLimit = 120

	region := textinput.New()
	region.Placeholder = "region (optional)"
	region.CharLimit = 80

	v.inputs = []textinput.Model{email, password, fullName, region}
	v.focus = authFieldEmail
}

// reset returns the form to a fresh login state, keeping any typed email so
// a register → login handoff does not retype it.
func (v *authView) reset() {
	email := v.inputs[authFieldEmail].Value()
	v.buildInputs()
	v.inputs[authFieldEmail].SetValue(email)
	v.submitting = false
	v.errMsg = ""
	v.notice = ""
}

func (v *authView) registering() bool {
	return v.app.state == stateRegister
}

func (v *authView) fieldCount() int {
	if v.registering() {
		return 4
	}
	return 2
}

func (v *authView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.submitting {
			return nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return cmd

	case loginResultMsg:
		v.submitting = false
		if msg.err != nil {
			// A 401 here means bad credentials, not an expired session;
			// it stays inline instead of bouncing the view.
			if api.IsUnauthorized(msg.err) {
				v.errMsg = api.ExtractMessage(msg.err, "Invalid credentials")
				return nil
			}
			v.errMsg = api.ExtractMessage(msg.err, "Login failed. Check the connection and try again.")
			return nil
		}
		if err := v.app.session.Login(msg.token.AccessToken); err != nil {
			v.errMsg = "Could not persist the session: " + err.Error()
			return nil
		}
		return v.app.completeLogin()

	case registerResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.errMsg = api.ExtractMessage(msg.err, "Registration failed. Try again.")
			return nil
		}
		if msg.resp.AccessToken != "" {
			if err := v.app.session.Login(msg.resp.AccessToken); err != nil {
				v.errMsg = "Could not persist the session: " + err.Error()
				return nil
			}
			return v.app.completeLogin()
		}
		v.app.state = stateLogin
		v.reset()
		v.notice = "Account created. Sign in with your new credentials."
		if msg.resp.Message != "" {
			v.notice = msg.resp.Message
		}
		return nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v.updateFocused(msg)
}

func (v *authView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.submitting {
		return nil
	}
	switch msg.String() {
	case "tab", "down":
		v.setFocus((v.focus + 1) % v.fieldCount())
		return nil
	case "shift+tab", "up":
		v.setFocus((v.focus - 1 + v.fieldCount()) % v.fieldCount())
		return nil
	case "ctrl+r":
		if v.registering() {
			v.app.state = stateLogin
		} else {
			v.app.state = stateRegister
		}
		v.errMsg = ""
		v.notice = ""
		v.setFocus(authFieldEmail)
		return nil
	case "enter":
		return v.submit()
	}
	return v.updateFocused(msg)
}

func (v *authView) setFocus(idx int) {
	v.focus = idx
	for i := range v.inputs {
		if i == idx {
			v.inputs[i].Focus()
		} else {
			v.inputs[i].Blur()
		}
	}
}

func (v *authView) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd
}

func (v *authView) submit() tea.Cmd {
	email := strings.TrimSpace(v.inputs[authFieldEmail].Value())
	password := v.inputs[authFieldPassword].Value()

	if v.registering() {
		form := registerForm{
			Email:    email,
			Password: password,
			FullName: strings.TrimSpace(v.inputs[authFieldFullName].Value()),
			Region:   strings.TrimSpace(v.inputs[authFieldRegion].Value()),
		}
		if msg := validateForm(form); msg != "" {
			v.errMsg = msg
			return nil
		}
		v.submitting = true
		v.errMsg = ""
		app := v.app
		req := api.RegisterRequest{Email: form.Email, Password: form.Password, FullName: form.FullName, Region: form.Region}
		return tea.Batch(v.spin.Tick, func() tea.Msg {
			resp, err := app.client.Register(app.ctx(), req)
			return registerResultMsg{resp: resp, err: err}
		})
	}

	form := loginForm{Email: email, Password: password}
	if msg := validateForm(form); msg != "" {
		v.errMsg = msg
		return nil
	}
	v.submitting = true
	v.errMsg = ""
	app := v.app
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		token, err := app.client.Login(app.ctx(), form.Email, form.Password)
		return loginResultMsg{token: token, err: err}
	})
}

func (v *authView) View() string {
	title := "Sign in"
	hint := "Enter → sign in    Tab → next field    Ctrl+R → create account"
	if v.registering() {
		title = "Create account"
		hint = "Enter → register    Tab → next field    Ctrl+R / Esc → back to sign in"
	}

	var rows []string
	rows = append(rows, labelStyle.Render(title), "")
	for i := 0; i < v.fieldCount(); i++ {
		rows = append(rows, v.inputs[i].View())
	}
	if v.submitting {
		rows = append(rows, "", v.spin.View()+" contacting the service…")
	}
	if v.errMsg != "" {
		rows = append(rows, "", errorStyle.Render(v.errMsg))
	}
	if v.notice != "" {
		rows = append(rows, "", noticeStyle.Render(v.notice))
	}
	rows = append(rows, hintStyle.Render(hint))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
