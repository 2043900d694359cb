package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
	"github.com/and161185/grocerylist/internal/repository"
)

// MsgEmptyListName rejects blank list names.
const MsgEmptyListName = "List name cannot be empty"

// ListService manages a user's grocery lists.
type ListService interface {
	Lists(ctx context.Context, userID int64) ([]model.GroceryList, error)
	Create(ctx context.Context, userID int64, name string) (model.GroceryList, error)
	Rename(ctx context.Context, userID, id int64, name string) (model.GroceryList, error)
	Delete(ctx context.Context, userID, id int64) error
}

type ListServiceImpl struct {
	lists repository.ListRepository
	users repository.UserRepository
}

// NewListService constructs ListService.
func NewListService(lists repository.ListRepository, users repository.UserRepository) *ListServiceImpl {
	return &ListServiceImpl{lists: lists, users: users}
}

// Lists returns the caller's lists oldest first.
func (s *ListServiceImpl) Lists(ctx context.Context, userID int64) ([]model.GroceryList, error) {
	return s.lists.ListByOwner(ctx, userID)
}

// Create validates the name and stores a new list owned by userID.
func (s *ListServiceImpl) Create(ctx context.Context, userID int64, name string) (model.GroceryList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.GroceryList{}, errs.Invalid(MsgEmptyListName)
	}
	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.GroceryList{}, fmt.Errorf("owner: %w", err)
	}
	l := &model.GroceryList{Name: name, Owner: *owner}
	if err := s.lists.Create(ctx, l); err != nil {
		return model.GroceryList{}, fmt.Errorf("create list: %w", err)
	}
	return *l, nil
}

// Rename changes the name of an owned list.
func (s *ListServiceImpl) Rename(ctx context.Context, userID, id int64, name string) (model.GroceryList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.GroceryList{}, errs.Invalid(MsgEmptyListName)
	}
	l, err := ownedList(ctx, s.lists, userID, id, "List not found", "update this list")
	if err != nil {
		return model.GroceryList{}, err
	}
	if err := s.lists.Rename(ctx, id, name); err != nil {
		return model.GroceryList{}, err
	}
	l.Name = name
	return *l, nil
}

// Delete removes an owned list and its items.
func (s *ListServiceImpl) Delete(ctx context.Context, userID, id int64) error {
	if _, err := ownedList(ctx, s.lists, userID, id, "List not found", "delete this list"); err != nil {
		return err
	}
	return s.lists.Delete(ctx, id)
}

// ownedList loads a list and checks it belongs to userID.
func ownedList(ctx context.Context, lists repository.ListRepository, userID, id int64, missing, action string) (*model.GroceryList, error) {
	l, err := lists.Get(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.With(errs.ErrNotFound, missing)
		}
		return nil, err
	}
	if l.Owner.ID != userID {
		return nil, errs.With(errs.ErrForbidden, "You do not have permission to "+action+".")
	}
	return l, nil
}
