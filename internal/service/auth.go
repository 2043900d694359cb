// Package service contains application services for accounts, lists and items.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/and161185/grocerylist/internal/crypto"
	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/limiter"
	"github.com/and161185/grocerylist/internal/model"
	"github.com/and161185/grocerylist/internal/repository"
)

// User-facing auth messages.
const (
	MsgUsernameLength     = "Username must be between 3 and 20 characters."
	MsgEmailInvalid       = "Email should be valid."
	MsgPasswordShort      = "Password must be at least 6 characters."
	MsgInvalidCredentials = "Invalid email or password."
	MsgRegistered         = "User registered successfully"
)

// Registration input bounds.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 20
	MinPasswordLen = 6
)

// AccessClaims is the JWT payload: subject is the user id.
type AccessClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService defines account operations.
type AuthService interface {
	// Register validates input and creates an account.
	Register(ctx context.Context, username, email, password string) (model.User, error)
	// Login applies rate limiting by (email, ip) and issues an access token.
	Login(ctx context.Context, email, password, ip string) (model.Tokens, model.User, error)
	// Me returns the account behind a verified token.
	Me(ctx context.Context, userID int64) (model.User, error)
}

type AuthServiceImpl struct {
	users     repository.UserRepository
	hasher    *pkgcrypto.Hasher
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
	now       func() time.Time
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, hasher *pkgcrypto.Hasher, signKey []byte, accessTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	if lim == nil {
		lim = limiter.Nop{}
	}
	return &AuthServiceImpl{
		users:     users,
		hasher:    hasher,
		signKey:   signKey,
		accessTTL: accessTTL,
		lim:       lim,
		now:       time.Now,
	}
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(username, email, password string) error {
	if n := utf8.RuneCountInString(username); n < MinUsernameLen || n > MaxUsernameLen {
		return errs.Invalid(MsgUsernameLength)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return errs.Invalid(MsgEmailInvalid)
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return errs.Invalid(MsgPasswordShort)
	}
	return nil
}

// Register creates a new user with a salted Argon2id password hash.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)
	if err := validateRegistration(username, email, password); err != nil {
		return model.User{}, err
	}

	hash, salt, err := s.hasher.Hash(password)
	if err != nil {
		return model.User{}, err
	}
	u := &model.User{Username: username, Email: email, PwdHash: hash, SaltAuth: salt}
	if err := s.users.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return model.User{}, errs.With(errs.ErrAlreadyExists, fmt.Sprintf("Username %s already exists.", username))
		case errors.Is(err, repository.ErrEmailTaken):
			return model.User{}, errs.With(errs.ErrAlreadyExists, fmt.Sprintf("Email '%s' already exists.", email))
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return *u, nil
}

// Login authenticates with rate limiting by (email, ip).
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, ip string) (model.Tokens, model.User, error) {
	email = NormalizeEmail(email)
	ipHash := limiter.HashIP(ip)

	allowed, retry, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	if !allowed {
		return model.Tokens{}, model.User{}, rateLimited(retry)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return model.Tokens{}, model.User{}, fmt.Errorf("lookup user: %w", err)
	}
	ok := false
	if u != nil {
		ok = s.hasher.Verify(password, u.SaltAuth, u.PwdHash)
	} else {
		s.hasher.Burn(password)
	}
	if !ok {
		if blocked, d, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Tokens{}, model.User{}, rateLimited(d)
		}
		return model.Tokens{}, model.User{}, errs.With(errs.ErrUnauthorized, MsgInvalidCredentials)
	}

	// Best effort; a stale counter only delays the next lockout.
	_ = s.lim.Success(ctx, email, ipHash)

	tokens, err := s.issueAccessToken(u)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	return tokens, *u, nil
}

// Me loads the user by id.
func (s *AuthServiceImpl) Me(ctx context.Context, userID int64) (model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.User{}, errs.With(errs.ErrUnauthorized, "User no longer exists.")
		}
		return model.User{}, err
	}
	return *u, nil
}

// issueAccessToken creates a signed HS256 JWT for u.
func (s *AuthServiceImpl) issueAccessToken(u *model.User) (model.Tokens, error) {
	now := s.now()
	exp := now.Add(s.accessTTL)
	claims := AccessClaims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
	if err != nil {
		return model.Tokens{}, fmt.Errorf("sign token: %w", err)
	}
	return model.Tokens{AccessToken: signed, TokenType: "Bearer", ExpiresAt: exp}, nil
}

// ParseAccessToken verifies an HS256 token signed with key and returns the user id.
func ParseAccessToken(token string, key []byte) (int64, AccessClaims, error) {
	var c AccessClaims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, AccessClaims{}, errs.With(errs.ErrUnauthorized, "Invalid or expired token.")
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, AccessClaims{}, errs.With(errs.ErrUnauthorized, "Invalid or expired token.")
	}
	return id, c, nil
}

// RetryAfterError is a rate-limit rejection with the remaining block time.
type RetryAfterError struct{ After time.Duration }

func (e *RetryAfterError) Error() string {
	mins := int(math.Ceil(e.After.Minutes()))
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("Too many failed login attempts. Try again in %d min.", mins)
}

func (e *RetryAfterError) Unwrap() error { return errs.ErrRateLimited }

func rateLimited(d time.Duration) error { return &RetryAfterError{After: d} }
