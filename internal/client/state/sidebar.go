package state

import (
	"strings"

	"github.com/and161185/grocerylist/internal/client/api"
	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
)

// Sidebar messages.
const (
	MsgEmptyListName    = "List name cannot be empty."
	MsgListCreateFailed = "Failed to create list."
	MsgListDeleteFailed = "Failed to delete list."
	MsgListRenameFailed = "Failed to rename list."
)

// Sidebar is the list creation form plus the delete confirmation step.
type Sidebar struct {
	NewName  string
	Creating bool
	Err      string

	pending *model.GroceryList
}

// PrepareCreate validates a list name locally. On success the trimmed name
// is returned and the form is marked as submitting.
func (s *Sidebar) PrepareCreate(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		s.Err = MsgEmptyListName
		return "", errs.Invalid(MsgEmptyListName)
	}
	s.Creating = true
	s.Err = ""
	return n, nil
}

// CreateSucceeded clears the form.
func (s *Sidebar) CreateSucceeded() {
	s.Creating = false
	s.NewName = ""
	s.Err = ""
}

// CreateFailed keeps the input and shows an error.
func (s *Sidebar) CreateFailed(err error) {
	s.Creating = false
	s.Err = api.Describe(err, MsgListCreateFailed)
}

// RequestDelete asks for confirmation before l is deleted.
func (s *Sidebar) RequestDelete(l model.GroceryList) {
	cp := l
	s.pending = &cp
}

// PendingDelete returns the list awaiting confirmation.
func (s *Sidebar) PendingDelete() (model.GroceryList, bool) {
	if s.pending == nil {
		return model.GroceryList{}, false
	}
	return *s.pending, true
}

// ConfirmDelete releases the pending deletion for the network call.
func (s *Sidebar) ConfirmDelete() (int64, bool) {
	if s.pending == nil {
		return 0, false
	}
	id := s.pending.ID
	s.pending = nil
	s.Err = ""
	return id, true
}

// CancelDelete drops the pending deletion.
func (s *Sidebar) CancelDelete() { s.pending = nil }

// DeleteFailed shows an error; the collection is left untouched.
func (s *Sidebar) DeleteFailed(err error) {
	s.Err = api.Describe(err, MsgListDeleteFailed)
}
