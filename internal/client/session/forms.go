// Package session implements the login and registration flows and owns the
// bearer token lifecycle on the client.
package session

import (
	"errors"
	"strings"

	"github.com/and161185/grocerylist/internal/client/api"
	"github.com/and161185/grocerylist/internal/errs"
)

// Messages shown by the auth forms.
const (
	MsgInvalidCredentials = "Invalid email or password."
	MsgLoginFailed        = "Login failed."
	MsgRegisterFailed     = "Registration failed."
	MsgPasswordMismatch   = "Passwords do not match"
	MsgRegistered         = "Account created. Sign in to continue."
)

// ErrPasswordMismatch is returned before any network call when the two
// password fields differ.
var ErrPasswordMismatch = errs.Invalid(MsgPasswordMismatch)

// LoginForm holds the sign-in inputs.
type LoginForm struct {
	Email    string
	Password string
}

// Validate checks required fields.
func (f LoginForm) Validate() error {
	if strings.TrimSpace(f.Email) == "" || f.Password == "" {
		return errs.Invalid("Email and password are required.")
	}
	return nil
}

// RegisterForm holds the sign-up inputs.
type RegisterForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate checks required fields and that both passwords match.
func (f RegisterForm) Validate() error {
	if strings.TrimSpace(f.Username) == "" || strings.TrimSpace(f.Email) == "" || f.Password == "" {
		return errs.Invalid("Username, email and password are required.")
	}
	if f.Password != f.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// LoginMessage is the inline message for a failed login.
func LoginMessage(err error) string {
	if errors.Is(err, errs.ErrUnauthorized) {
		return MsgInvalidCredentials
	}
	return api.Describe(err, MsgLoginFailed)
}

// RegisterMessage is the inline message for a failed registration.
func RegisterMessage(err error) string {
	return api.Describe(err, MsgRegisterFailed)
}
