package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
	"github.com/and161185/grocerylist/internal/service"
)

var testKey = []byte("test-key")

type fakeAuth struct {
	register func(username, email, password string) (model.User, error)
	login    func(email, password, ip string) (model.Tokens, model.User, error)
}

func (f *fakeAuth) Register(_ context.Context, username, email, password string) (model.User, error) {
	return f.register(username, email, password)
}

func (f *fakeAuth) Login(_ context.Context, email, password, ip string) (model.Tokens, model.User, error) {
	return f.login(email, password, ip)
}

func (f *fakeAuth) Me(_ context.Context, id int64) (model.User, error) {
	if id == 404 {
		return model.User{}, errs.With(errs.ErrUnauthorized, "User no longer exists.")
	}
	return model.User{ID: id, Username: "marcus", Email: "m@x.io"}, nil
}

// fakeLists records the caller and returns canned results.
type fakeLists struct {
	lastUser int64
	err      error
	lists    []model.GroceryList
}

func (f *fakeLists) Lists(_ context.Context, userID int64) ([]model.GroceryList, error) {
	f.lastUser = userID
	return f.lists, f.err
}

func (f *fakeLists) Create(_ context.Context, userID int64, name string) (model.GroceryList, error) {
	f.lastUser = userID
	if f.err != nil {
		return model.GroceryList{}, f.err
	}
	return model.GroceryList{ID: 1, Name: name, Owner: model.User{ID: userID}}, nil
}

func (f *fakeLists) Rename(_ context.Context, userID, id int64, name string) (model.GroceryList, error) {
	f.lastUser = userID
	if f.err != nil {
		return model.GroceryList{}, f.err
	}
	return model.GroceryList{ID: id, Name: name, Owner: model.User{ID: userID}}, nil
}

func (f *fakeLists) Delete(_ context.Context, userID, _ int64) error {
	f.lastUser = userID
	return f.err
}

type fakeItems struct {
	err        error
	lastUpdate model.ItemUpdate
	lastIDs    []int64
	lastNew    model.NewItem
	lastBatch  model.BatchNewItems
}

func (f *fakeItems) Items(_ context.Context, _, listID int64) ([]model.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []model.Item{{ID: 1, Name: "Milk", Quantity: 1, ParentList: model.GroceryList{ID: listID}}}, nil
}

func (f *fakeItems) Create(_ context.Context, _ int64, in model.NewItem) (model.Item, error) {
	f.lastNew = in
	if f.err != nil {
		return model.Item{}, f.err
	}
	return model.Item{ID: 9, Name: in.Name, Quantity: in.Quantity, ParentList: model.GroceryList{ID: in.GroceryListID}}, nil
}

func (f *fakeItems) Update(_ context.Context, _, id int64, upd model.ItemUpdate) (model.Item, error) {
	f.lastUpdate = upd
	if f.err != nil {
		return model.Item{}, f.err
	}
	it := model.Item{ID: id, Name: "Milk", Quantity: 1}
	if upd.Completed != nil {
		it.Completed = *upd.Completed
	}
	return it, nil
}

func (f *fakeItems) Delete(context.Context, int64, int64) error { return f.err }

func (f *fakeItems) CreateBatch(_ context.Context, _ int64, in model.BatchNewItems) ([]model.Item, error) {
	f.lastBatch = in
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Item, len(in.ItemNames))
	for i, n := range in.ItemNames {
		out[i] = model.Item{ID: int64(i + 1), Name: n, Quantity: in.Quantity}
	}
	return out, nil
}

func (f *fakeItems) DeleteBatch(_ context.Context, _ int64, ids []int64) error {
	f.lastIDs = ids
	return f.err
}

type fixture struct {
	srv   *httptest.Server
	auth  *fakeAuth
	lists *fakeLists
	items *fakeItems
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		auth:  &fakeAuth{},
		lists: &fakeLists{lists: []model.GroceryList{}},
		items: &fakeItems{},
	}
	s := New(f.auth, f.lists, f.items, testKey, zaptest.NewLogger(t), opts)
	f.srv = httptest.NewServer(s.Handler())
	t.Cleanup(f.srv.Close)
	return f
}

func token(t *testing.T, userID int64, key []byte, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := service.AccessClaims{
		Username: "marcus",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

// do sends a request and returns status and body; tok may be empty.
func (f *fixture) do(t *testing.T, method, path, tok, body string) (int, string, http.Header) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	require.NoError(t, err)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b), resp.Header
}
