// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"
	"fmt"

	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
)

// Unique-constraint failures on user registration. Both match errs.ErrAlreadyExists.
var (
	ErrUsernameTaken = fmt.Errorf("username %w", errs.ErrAlreadyExists)
	ErrEmailTaken    = fmt.Errorf("email %w", errs.ErrAlreadyExists)
)

// UserRepository stores accounts.
type UserRepository interface {
	// Create inserts u and fills its ID and CreatedAt.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByEmail loads a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
