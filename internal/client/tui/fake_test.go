package tui

import (
	"context"
	"slices"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/grocerylist/internal/client/session"
	"github.com/and161185/grocerylist/internal/client/tokenstore"
	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
)

// fakeAPI is an in-memory backend for one user.
type fakeAPI struct {
	mu     sync.Mutex
	lists  []model.GroceryList
	items  map[int64][]model.Item
	nextID int64
	errs   map[string]error
	calls  []string
}

func newFakeAPI(lists ...model.GroceryList) *fakeAPI {
	return &fakeAPI{lists: lists, items: map[int64][]model.Item{}, nextID: 100, errs: map[string]error{}}
}

func (f *fakeAPI) record(name string) error {
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Login(context.Context, string, string) (model.Tokens, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Login"); err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: "jwt", TokenType: "Bearer"}, nil
}

func (f *fakeAPI) Register(context.Context, string, string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("Register")
}

func (f *fakeAPI) Lists(context.Context) ([]model.GroceryList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Lists"); err != nil {
		return nil, err
	}
	return slices.Clone(f.lists), nil
}

func (f *fakeAPI) CreateList(_ context.Context, name string) (model.GroceryList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateList"); err != nil {
		return model.GroceryList{}, err
	}
	f.nextID++
	l := model.GroceryList{ID: f.nextID, Name: name}
	f.lists = append(f.lists, l)
	return l, nil
}

func (f *fakeAPI) DeleteList(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteList"); err != nil {
		return err
	}
	f.lists = slices.DeleteFunc(f.lists, func(l model.GroceryList) bool { return l.ID == id })
	delete(f.items, id)
	return nil
}

func (f *fakeAPI) Items(_ context.Context, listID int64) ([]model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Items"); err != nil {
		return nil, err
	}
	return slices.Clone(f.items[listID]), nil
}

func (f *fakeAPI) CreateItem(_ context.Context, in model.NewItem) (model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateItem"); err != nil {
		return model.Item{}, err
	}
	f.nextID++
	it := model.Item{
		ID: f.nextID, Name: in.Name, Quantity: in.Quantity, Completed: in.Completed,
		ParentList: model.GroceryList{ID: in.GroceryListID},
	}
	f.items[in.GroceryListID] = append(f.items[in.GroceryListID], it)
	return it, nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, id int64, upd model.ItemUpdate) (model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateItem"); err != nil {
		return model.Item{}, err
	}
	for lid, items := range f.items {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if upd.Name != nil {
				items[i].Name = *upd.Name
			}
			if upd.Quantity != nil {
				items[i].Quantity = *upd.Quantity
			}
			if upd.Completed != nil {
				items[i].Completed = *upd.Completed
			}
			f.items[lid] = items
			return items[i], nil
		}
	}
	return model.Item{}, errs.ErrNotFound
}

func (f *fakeAPI) DeleteItem(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteItem"); err != nil {
		return err
	}
	for lid, items := range f.items {
		f.items[lid] = slices.DeleteFunc(items, func(it model.Item) bool { return it.ID == id })
	}
	return nil
}

func (f *fakeAPI) DeleteItems(_ context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteItems"); err != nil {
		return err
	}
	for lid, items := range f.items {
		f.items[lid] = slices.DeleteFunc(items, func(it model.Item) bool { return slices.Contains(ids, it.ID) })
	}
	return nil
}

// exec runs cmd and flattens batches into the resulting messages.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil, tea.QuitMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, exec(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// drive feeds msg to m and keeps applying the messages its commands produce.
func drive(m tea.Model, msgs ...tea.Msg) tea.Model {
	queue := msgs
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		var cmd tea.Cmd
		m, cmd = m.Update(next)
		queue = append(queue, exec(cmd)...)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// start builds an App and applies everything its Init produces.
func start(t *testing.T, fa *fakeAPI, token string) (tea.Model, *tokenstore.MemoryStore) {
	t.Helper()
	store := tokenstore.NewMemoryStore(token)
	sess := session.New(fa, store, zaptest.NewLogger(t))
	app := New(context.Background(), sess, fa, zaptest.NewLogger(t))
	return drive(app, exec(app.Init())...), store
}

func app(m tea.Model) App { return m.(App) }
