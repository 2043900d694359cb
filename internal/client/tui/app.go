// Package tui is the interactive terminal client. App routes between the
// auth page and the home page; every network call runs as a tea.Cmd whose
// result comes back through Update.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/and161185/grocerylist/internal/client/session"
	"github.com/and161185/grocerylist/internal/errs"
)

type page int

const (
	pageAuth page = iota
	pageHome
)

// App is the root model.
type App struct {
	ctx    context.Context
	sess   *session.Session
	api    API
	log    *zap.Logger
	styles styles

	page page
	auth authPage
	home homePage

	width, height int
}

// New builds the root model. The home page is shown when a token is
// already stored.
func New(ctx context.Context, sess *session.Session, a API, log *zap.Logger) App {
	if log == nil {
		log = zap.NewNop()
	}
	st := defaultStyles()
	app := App{
		ctx:    ctx,
		sess:   sess,
		api:    a,
		log:    log,
		styles: st,
		auth:   newAuthPage(ctx, sess, st),
		home:   newHomePage(ctx, a, st),
	}
	if sess.Authenticated() {
		app.page = pageHome
	}
	return app
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, sess *session.Session, a API, log *zap.Logger) error {
	p := tea.NewProgram(New(ctx, sess, a, log), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (a App) Init() tea.Cmd {
	if a.page == pageHome {
		return a.home.Init()
	}
	return a.auth.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.page == pageHome && a.home.mode == modeBrowse {
				return a, tea.Quit
			}
		case "ctrl+o":
			if a.page == pageHome {
				return a.logout(), nil
			}
		}
	case loggedInMsg:
		a.log.Debug("logged in")
		a.page = pageHome
		a.home = newHomePage(a.ctx, a.api, a.styles)
		a.home.width, a.home.height = a.width, a.height
		return a, a.home.Init()
	case failed:
		if a.page == pageHome && errors.Is(msg.failure(), errs.ErrUnauthorized) {
			a.log.Info("session rejected by server", zap.Error(msg.failure()))
			return a.logout(), nil
		}
	}

	var cmd tea.Cmd
	switch a.page {
	case pageHome:
		a.home, cmd = a.home.Update(msg)
	default:
		a.auth, cmd = a.auth.Update(msg)
	}
	return a, cmd
}

// logout forgets the token and shows the sign-in form.
func (a App) logout() App {
	if err := a.sess.Logout(); err != nil {
		a.log.Warn("clear token", zap.Error(err))
	}
	a.page = pageAuth
	a.auth = newAuthPage(a.ctx, a.sess, a.styles)
	a.home = newHomePage(a.ctx, a.api, a.styles)
	return a
}

func (a App) View() string {
	if a.page == pageHome {
		return a.home.View()
	}
	return a.auth.View()
}
