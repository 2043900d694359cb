package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/and161185/grocerylist/internal/client/api"
	"github.com/and161185/grocerylist/internal/client/session"
)

type authView int

const (
	viewLogin authView = iota
	viewRegister
)

// authPage toggles between the sign-in and sign-up forms. Submissions run
// through the session; a successful login is reported to the app as
// loggedInMsg.
type authPage struct {
	ctx    context.Context
	sess   *session.Session
	styles styles

	view    authView
	inputs  []textinput.Model
	focused int
	busy    bool
	err     string
	notice  string
}

func newAuthPage(ctx context.Context, sess *session.Session, st styles) authPage {
	p := authPage{ctx: ctx, sess: sess, styles: st}
	p.setView(viewLogin)
	return p
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	ti.Width = 32
	ti.Cursor.SetMode(cursor.CursorStatic)
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func (p *authPage) setView(v authView) {
	p.view = v
	p.err = ""
	p.busy = false
	if v == viewLogin {
		p.inputs = []textinput.Model{
			newInput("email", false),
			newInput("password", true),
		}
	} else {
		p.inputs = []textinput.Model{
			newInput("username", false),
			newInput("email", false),
			newInput("password", true),
			newInput("confirm password", true),
		}
	}
	p.focus(0)
}

func (p *authPage) focus(i int) {
	n := len(p.inputs)
	p.focused = ((i % n) + n) % n
	for j := range p.inputs {
		if j == p.focused {
			p.inputs[j].Focus()
		} else {
			p.inputs[j].Blur()
		}
	}
}

func (p authPage) value(i int) string { return p.inputs[i].Value() }

func (p authPage) Init() tea.Cmd { return nil }

func (p authPage) Update(msg tea.Msg) (authPage, tea.Cmd) {
	switch msg := msg.(type) {
	case loginFailedMsg:
		p.busy = false
		p.err = session.LoginMessage(msg.err)
		return p, nil
	case registerFailedMsg:
		p.busy = false
		p.err = session.RegisterMessage(msg.err)
		return p, nil
	case registeredMsg:
		p.setView(viewLogin)
		p.inputs[0].SetValue(strings.TrimSpace(msg.email))
		p.focus(1)
		p.notice = session.MsgRegistered
		return p, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+r":
			p.setView(viewRegister)
			p.notice = ""
			return p, nil
		case "ctrl+l":
			p.setView(viewLogin)
			p.notice = ""
			return p, nil
		case "tab", "down":
			p.focus(p.focused + 1)
			return p, nil
		case "shift+tab", "up":
			p.focus(p.focused - 1)
			return p, nil
		case "enter":
			if p.focused < len(p.inputs)-1 {
				p.focus(p.focused + 1)
				return p, nil
			}
			return p.submit()
		}
	}
	var cmd tea.Cmd
	p.inputs[p.focused], cmd = p.inputs[p.focused].Update(msg)
	return p, cmd
}

func (p authPage) submit() (authPage, tea.Cmd) {
	if p.busy {
		return p, nil
	}
	p.notice = ""
	if p.view == viewLogin {
		f := session.LoginForm{Email: p.value(0), Password: p.value(1)}
		if err := f.Validate(); err != nil {
			p.err = api.Describe(err, session.MsgLoginFailed)
			return p, nil
		}
		p.busy, p.err = true, ""
		return p, loginCmd(p.ctx, p.sess, f)
	}
	f := session.RegisterForm{
		Username:        p.value(0),
		Email:           p.value(1),
		Password:        p.value(2),
		ConfirmPassword: p.value(3),
	}
	if err := f.Validate(); err != nil {
		p.err = api.Describe(err, session.MsgRegisterFailed)
		return p, nil
	}
	p.busy, p.err = true, ""
	return p, registerCmd(p.ctx, p.sess, f)
}

func (p authPage) View() string {
	var b strings.Builder
	title, hint := "Sign in", "ctrl+r: create an account"
	if p.view == viewRegister {
		title, hint = "Create account", "ctrl+l: back to sign in"
	}
	b.WriteString(p.styles.Title.Render("Grocery List · " + title))
	b.WriteString("\n\n")
	for _, in := range p.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	switch {
	case p.busy:
		b.WriteString(p.styles.Muted.Render("Please wait…"))
	case p.err != "":
		b.WriteString(p.styles.Error.Render(p.err))
	case p.notice != "":
		b.WriteString(p.styles.Notice.Render(p.notice))
	}
	b.WriteString("\n")
	b.WriteString(p.styles.Muted.Render("enter: submit · tab: next field · " + hint + " · ctrl+c: quit"))
	return b.String()
}
