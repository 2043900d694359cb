package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/and161185/grocerylist/internal/client/session"
	"github.com/and161185/grocerylist/internal/client/state"
	"github.com/and161185/grocerylist/internal/model"
)

// API is the part of the REST client the home page drives.
type API interface {
	Lists(ctx context.Context) ([]model.GroceryList, error)
	CreateList(ctx context.Context, name string) (model.GroceryList, error)
	DeleteList(ctx context.Context, id int64) error
	Items(ctx context.Context, listID int64) ([]model.Item, error)
	CreateItem(ctx context.Context, in model.NewItem) (model.Item, error)
	UpdateItem(ctx context.Context, id int64, upd model.ItemUpdate) (model.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	DeleteItems(ctx context.Context, ids []int64) error
}

// failed is implemented by every message that reports a failed call.
type failed interface{ failure() error }

type (
	loggedInMsg       struct{ token string }
	loginFailedMsg    struct{ err error }
	registeredMsg     struct{ email string }
	registerFailedMsg struct{ err error }

	listsLoadedMsg struct {
		seq   uint64
		lists []model.GroceryList
	}
	listsFailedMsg struct {
		seq uint64
		err error
	}
	listCreatedMsg      struct{ list model.GroceryList }
	listCreateFailedMsg struct{ err error }
	listDeletedMsg      struct{ id int64 }
	listDeleteFailedMsg struct{ err error }

	itemsLoadedMsg struct {
		ticket state.Ticket
		items  []model.Item
	}
	itemsFailedMsg struct {
		ticket state.Ticket
		err    error
	}
	itemAddedMsg struct {
		listID int64
		item   model.Item
	}
	itemUpdatedMsg struct {
		listID int64
		item   model.Item
	}
	itemDeletedMsg struct {
		listID int64
		id     int64
	}
	itemsDeletedMsg struct {
		listID int64
		ids    []int64
	}
	itemFailedMsg struct {
		listID   int64
		err      error
		fallback string
	}
)

func (m loginFailedMsg) failure() error      { return m.err }
func (m registerFailedMsg) failure() error   { return m.err }
func (m listsFailedMsg) failure() error      { return m.err }
func (m listCreateFailedMsg) failure() error { return m.err }
func (m listDeleteFailedMsg) failure() error { return m.err }
func (m itemsFailedMsg) failure() error      { return m.err }
func (m itemFailedMsg) failure() error       { return m.err }

func loginCmd(ctx context.Context, s *session.Session, f session.LoginForm) tea.Cmd {
	return func() tea.Msg {
		tok, err := s.Login(ctx, f)
		if err != nil {
			return loginFailedMsg{err: err}
		}
		return loggedInMsg{token: tok}
	}
}

func registerCmd(ctx context.Context, s *session.Session, f session.RegisterForm) tea.Cmd {
	return func() tea.Msg {
		if err := s.Register(ctx, f); err != nil {
			return registerFailedMsg{err: err}
		}
		return registeredMsg{email: f.Email}
	}
}

func fetchListsCmd(ctx context.Context, a API, seq uint64) tea.Cmd {
	return func() tea.Msg {
		lists, err := a.Lists(ctx)
		if err != nil {
			return listsFailedMsg{seq: seq, err: err}
		}
		return listsLoadedMsg{seq: seq, lists: lists}
	}
}

func createListCmd(ctx context.Context, a API, name string) tea.Cmd {
	return func() tea.Msg {
		l, err := a.CreateList(ctx, name)
		if err != nil {
			return listCreateFailedMsg{err: err}
		}
		return listCreatedMsg{list: l}
	}
}

func deleteListCmd(ctx context.Context, a API, id int64) tea.Cmd {
	return func() tea.Msg {
		if err := a.DeleteList(ctx, id); err != nil {
			return listDeleteFailedMsg{err: err}
		}
		return listDeletedMsg{id: id}
	}
}

func fetchItemsCmd(ctx context.Context, a API, t state.Ticket) tea.Cmd {
	return func() tea.Msg {
		items, err := a.Items(ctx, t.ListID)
		if err != nil {
			return itemsFailedMsg{ticket: t, err: err}
		}
		return itemsLoadedMsg{ticket: t, items: items}
	}
}

func createItemCmd(ctx context.Context, a API, in model.NewItem) tea.Cmd {
	return func() tea.Msg {
		it, err := a.CreateItem(ctx, in)
		if err != nil {
			return itemFailedMsg{listID: in.GroceryListID, err: err, fallback: state.MsgItemCreateFailed}
		}
		return itemAddedMsg{listID: in.GroceryListID, item: it}
	}
}

func updateItemCmd(ctx context.Context, a API, listID, id int64, upd model.ItemUpdate) tea.Cmd {
	return func() tea.Msg {
		it, err := a.UpdateItem(ctx, id, upd)
		if err != nil {
			return itemFailedMsg{listID: listID, err: err, fallback: state.MsgItemUpdateFailed}
		}
		return itemUpdatedMsg{listID: listID, item: it}
	}
}

func deleteItemCmd(ctx context.Context, a API, listID, id int64) tea.Cmd {
	return func() tea.Msg {
		if err := a.DeleteItem(ctx, id); err != nil {
			return itemFailedMsg{listID: listID, err: err, fallback: state.MsgItemDeleteFailed}
		}
		return itemDeletedMsg{listID: listID, id: id}
	}
}

func deleteItemsCmd(ctx context.Context, a API, listID int64, ids []int64) tea.Cmd {
	return func() tea.Msg {
		if err := a.DeleteItems(ctx, ids); err != nil {
			return itemFailedMsg{listID: listID, err: err, fallback: state.MsgItemDeleteFailed}
		}
		return itemsDeletedMsg{listID: listID, ids: ids}
	}
}
