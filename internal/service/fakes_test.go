package service

import (
	"context"
	"sort"
	"time"

	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
	"github.com/and161185/grocerylist/internal/repository"
)

// store is an in-memory backing for all three repositories.
type store struct {
	users  map[int64]*model.User
	lists  map[int64]*model.GroceryList
	items  map[int64]*model.Item
	nextID int64

	createErr error
}

var (
	_ repository.UserRepository = (*store)(nil)
	_ repository.ListRepository = (*listStore)(nil)
	_ repository.ItemRepository = (*itemStore)(nil)
)

func newStore() *store {
	return &store{
		users: map[int64]*model.User{},
		lists: map[int64]*model.GroceryList{},
		items: map[int64]*model.Item{},
	}
}

func (s *store) id() int64 { s.nextID++; return s.nextID }

func (s *store) Create(_ context.Context, u *model.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, e := range s.users {
		if e.Username == u.Username {
			return repository.ErrUsernameTaken
		}
		if e.Email == u.Email {
			return repository.ErrEmailTaken
		}
	}
	u.ID = s.id()
	u.CreatedAt = time.Now()
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *store) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *store) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (s *store) addUser(name string) model.User {
	u := &model.User{ID: s.id(), Username: name, Email: name + "@x.io"}
	s.users[u.ID] = u
	return *u
}

func (s *store) addList(owner model.User, name string) model.GroceryList {
	l := &model.GroceryList{ID: s.id(), Name: name, Owner: owner}
	s.lists[l.ID] = l
	return *l
}

func (s *store) addItem(l model.GroceryList, name string, q int) model.Item {
	it := &model.Item{ID: s.id(), Name: name, Quantity: q, ParentList: l}
	s.items[it.ID] = it
	return *it
}

type listStore struct{ *store }

func (s listStore) Create(_ context.Context, l *model.GroceryList) error {
	l.ID = s.id()
	c := *l
	s.lists[l.ID] = &c
	return nil
}

func (s listStore) Get(_ context.Context, id int64) (*model.GroceryList, error) {
	l, ok := s.lists[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *l
	return &c, nil
}

func (s listStore) ListByOwner(_ context.Context, ownerID int64) ([]model.GroceryList, error) {
	out := []model.GroceryList{}
	for _, l := range s.lists {
		if l.Owner.ID == ownerID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s listStore) Rename(_ context.Context, id int64, name string) error {
	l, ok := s.lists[id]
	if !ok {
		return errs.ErrNotFound
	}
	l.Name = name
	return nil
}

func (s listStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.lists[id]; !ok {
		return errs.ErrNotFound
	}
	delete(s.lists, id)
	for iid, it := range s.items {
		if it.ListID() == id {
			delete(s.items, iid)
		}
	}
	return nil
}

type itemStore struct {
	*store
	batchErr error
}

func (s itemStore) Create(_ context.Context, it *model.Item) error {
	it.ID = s.id()
	c := *it
	s.items[it.ID] = &c
	return nil
}

func (s itemStore) CreateBatch(ctx context.Context, items []*model.Item) error {
	if s.batchErr != nil {
		return s.batchErr
	}
	for _, it := range items {
		_ = s.Create(ctx, it)
	}
	return nil
}

func (s itemStore) Get(_ context.Context, id int64) (*model.Item, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *it
	return &c, nil
}

func (s itemStore) GetMany(_ context.Context, ids []int64) ([]model.Item, error) {
	out := []model.Item{}
	for _, id := range ids {
		if it, ok := s.items[id]; ok {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s itemStore) ListByList(_ context.Context, listID int64) ([]model.Item, error) {
	out := []model.Item{}
	for _, it := range s.items {
		if it.ListID() == listID {
			c := *it
			c.ParentList = model.GroceryList{ID: listID}
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s itemStore) Update(_ context.Context, it *model.Item) error {
	cur, ok := s.items[it.ID]
	if !ok {
		return errs.ErrNotFound
	}
	cur.Name, cur.Quantity, cur.Completed = it.Name, it.Quantity, it.Completed
	return nil
}

func (s itemStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.items[id]; !ok {
		return errs.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s itemStore) DeleteBatch(_ context.Context, ids []int64) error {
	for _, id := range ids {
		if _, ok := s.items[id]; !ok {
			return errs.ErrNotFound
		}
	}
	for _, id := range ids {
		delete(s.items, id)
	}
	return nil
}

type fakeLimiter struct {
	allowOK    bool
	allowAfter time.Duration
	allowErr   error

	failBlocked bool
	failAfter   time.Duration

	failures  int
	successes int
}

func (f *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	return f.allowOK, f.allowAfter, f.allowErr
}

func (f *fakeLimiter) Success(context.Context, string, []byte) error {
	f.successes++
	return nil
}

func (f *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	f.failures++
	return f.failBlocked, f.failAfter, nil
}
