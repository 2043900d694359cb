package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/grocerylist/internal/client/tokenstore"
	"github.com/and161185/grocerylist/internal/model"
)

// AuthAPI is the part of the REST client the auth flows use.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (model.Tokens, error)
	Register(ctx context.Context, username, email, password string) error
}

// Session runs the auth flows against the API and the token store.
type Session struct {
	api    AuthAPI
	tokens tokenstore.Store
	log    *zap.Logger
}

// New constructs a Session.
func New(a AuthAPI, tokens tokenstore.Store, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{api: a, tokens: tokens, log: log}
}

// Login validates the form, authenticates and persists the returned token.
// Nothing is persisted on failure.
func (s *Session) Login(ctx context.Context, f LoginForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	tok, err := s.api.Login(ctx, strings.TrimSpace(f.Email), f.Password)
	if err != nil {
		s.log.Info("login failed", zap.Error(err))
		return "", err
	}
	if tok.AccessToken == "" {
		return "", errors.New("login: server returned no token")
	}
	if err := s.tokens.Write(tok.AccessToken); err != nil {
		return "", fmt.Errorf("persist token: %w", err)
	}
	return tok.AccessToken, nil
}

// Register validates the form and creates the account. It never logs in.
func (s *Session) Register(ctx context.Context, f RegisterForm) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if err := s.api.Register(ctx, strings.TrimSpace(f.Username), strings.TrimSpace(f.Email), f.Password); err != nil {
		s.log.Info("register failed", zap.Error(err))
		return err
	}
	return nil
}

// Logout forgets the stored token.
func (s *Session) Logout() error { return s.tokens.Clear() }

// Authenticated reports whether a token is stored.
func (s *Session) Authenticated() bool {
	_, ok, err := s.tokens.Read()
	return err == nil && ok
}

// Token returns the stored token, if any.
func (s *Session) Token() (string, bool) {
	tok, ok, err := s.tokens.Read()
	if err != nil {
		return "", false
	}
	return tok, ok
}
