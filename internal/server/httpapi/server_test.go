package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
	"github.com/and161185/grocerylist/internal/service"
)

func TestRegister(t *testing.T) {
	f := newFixture(t, Options{})
	f.auth.register = func(username, email, password string) (model.User, error) {
		if username == "taken" {
			return model.User{}, errs.With(errs.ErrAlreadyExists, "Username taken already exists.")
		}
		if len(password) < 6 {
			return model.User{}, errs.Invalid(service.MsgPasswordShort)
		}
		return model.User{ID: 1, Username: username, Email: email}, nil
	}

	code, body, _ := f.do(t, http.MethodPost, "/auth/register", "", `{"username":"marcus","email":"m@x.io","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, code)
	require.JSONEq(t, `{"message":"User registered successfully"}`, body)

	code, body, _ = f.do(t, http.MethodPost, "/auth/register", "", `{"username":"marcus","email":"m@x.io","password":"123"}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.JSONEq(t, `{"error":"Password must be at least 6 characters."}`, body)

	code, body, _ = f.do(t, http.MethodPost, "/auth/register", "", `{"username":"taken","email":"m@x.io","password":"secret1"}`)
	require.Equal(t, http.StatusConflict, code)
	require.JSONEq(t, `{"error":"Username taken already exists."}`, body)

	code, body, _ = f.do(t, http.MethodPost, "/auth/register", "", `{not json`)
	require.Equal(t, http.StatusBadRequest, code)
	require.JSONEq(t, `{"error":"Malformed JSON request."}`, body)
}

func TestLogin(t *testing.T) {
	f := newFixture(t, Options{})
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	var gotIP string
	f.auth.login = func(email, password, ip string) (model.Tokens, model.User, error) {
		gotIP = ip
		switch password {
		case "secret1":
			return model.Tokens{AccessToken: "tok", TokenType: "Bearer", ExpiresAt: exp}, model.User{ID: 1}, nil
		case "locked":
			return model.Tokens{}, model.User{}, &service.RetryAfterError{After: 90 * time.Second}
		}
		return model.Tokens{}, model.User{}, errs.With(errs.ErrUnauthorized, service.MsgInvalidCredentials)
	}

	code, body, _ := f.do(t, http.MethodPost, "/auth/login", "", `{"email":"m@x.io","password":"secret1"}`)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"token":"tok","tokenType":"Bearer","expiresAt":"2030-01-01T00:00:00Z"}`, body)
	require.Equal(t, "127.0.0.1", gotIP)

	code, body, _ = f.do(t, http.MethodPost, "/auth/login", "", `{"email":"m@x.io","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, code)
	require.JSONEq(t, `{"error":"Invalid email or password."}`, body)

	code, body, hdr := f.do(t, http.MethodPost, "/auth/login", "", `{"email":"m@x.io","password":"locked"}`)
	require.Equal(t, http.StatusTooManyRequests, code)
	require.Equal(t, "91", hdr.Get("Retry-After"))
	require.Contains(t, body, "Too many failed login attempts")
}

func TestAuthRoutes_AreThrottledPerIP(t *testing.T) {
	f := newFixture(t, Options{AuthRate: 0.001, AuthBurst: 2})
	f.auth.login = func(string, string, string) (model.Tokens, model.User, error) {
		return model.Tokens{AccessToken: "tok"}, model.User{ID: 1}, nil
	}

	for i := 0; i < 2; i++ {
		code, _, _ := f.do(t, http.MethodPost, "/auth/login", "", `{}`)
		require.Equal(t, http.StatusOK, code)
	}
	code, body, hdr := f.do(t, http.MethodPost, "/auth/login", "", `{}`)
	require.Equal(t, http.StatusTooManyRequests, code)
	require.Equal(t, "1", hdr.Get("Retry-After"))
	require.JSONEq(t, `{"error":"Too many requests. Slow down."}`, body)

	// Non-auth routes are not throttled.
	tok := token(t, 1, testKey, time.Hour)
	for i := 0; i < 5; i++ {
		code, _, _ := f.do(t, http.MethodGet, "/lists", tok, "")
		require.Equal(t, http.StatusOK, code)
	}
}

func TestProtectedRoutes_RequireValidBearer(t *testing.T) {
	f := newFixture(t, Options{})

	cases := []struct {
		name string
		tok  string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
		{"wrong key", token(t, 1, []byte("other"), time.Hour)},
		{"expired", token(t, 1, testKey, -time.Minute)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body, _ := f.do(t, http.MethodGet, "/lists", tc.tok, "")
			require.Equal(t, http.StatusUnauthorized, code)
			require.Contains(t, body, `"error"`)
		})
	}
}

func TestMe(t *testing.T) {
	f := newFixture(t, Options{})

	code, body, _ := f.do(t, http.MethodGet, "/auth/me", token(t, 7, testKey, time.Hour), "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"id":7,"username":"marcus","email":"m@x.io"}`, body)

	code, _, _ = f.do(t, http.MethodGet, "/auth/me", token(t, 404, testKey, time.Hour), "")
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestLists(t *testing.T) {
	f := newFixture(t, Options{})
	tok := token(t, 3, testKey, time.Hour)

	code, body, _ := f.do(t, http.MethodGet, "/lists", tok, "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `[]`, body)
	require.Equal(t, int64(3), f.lists.lastUser)

	code, body, _ = f.do(t, http.MethodPost, "/lists", tok, `{"name":"Weekly"}`)
	require.Equal(t, http.StatusCreated, code)
	var l model.GroceryList
	require.NoError(t, json.Unmarshal([]byte(body), &l))
	require.Equal(t, "Weekly", l.Name)
	require.Equal(t, int64(3), l.Owner.ID)

	code, body, _ = f.do(t, http.MethodPut, "/lists/5", tok, `{"name":"Party"}`)
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `"Party"`)

	code, body, _ = f.do(t, http.MethodDelete, "/lists/5", tok, "")
	require.Equal(t, http.StatusNoContent, code)
	require.Empty(t, body)

	code, body, _ = f.do(t, http.MethodDelete, "/lists/abc", tok, "")
	require.Equal(t, http.StatusBadRequest, code)
	require.JSONEq(t, `{"error":"Invalid id."}`, body)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		body string
	}{
		{errs.With(errs.ErrNotFound, "List not found"), http.StatusNotFound, `{"error":"List not found"}`},
		{errs.With(errs.ErrForbidden, "You do not have permission to delete this list."), http.StatusForbidden, `{"error":"You do not have permission to delete this list."}`},
		{errs.ErrNotFound, http.StatusNotFound, `{"error":"Not Found"}`},
		{errors.New("pg: connection reset"), http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.code), func(t *testing.T) {
			f := newFixture(t, Options{})
			f.lists.err = tc.err
			code, body, _ := f.do(t, http.MethodDelete, "/lists/1", token(t, 1, testKey, time.Hour), "")
			require.Equal(t, tc.code, code)
			require.JSONEq(t, tc.body, body)
		})
	}
}

func TestItems(t *testing.T) {
	f := newFixture(t, Options{})
	tok := token(t, 3, testKey, time.Hour)

	code, body, _ := f.do(t, http.MethodGet, "/items/list/5", tok, "")
	require.Equal(t, http.StatusOK, code)
	var items []model.Item
	require.NoError(t, json.Unmarshal([]byte(body), &items))
	require.Len(t, items, 1)
	require.Equal(t, int64(5), items[0].ListID())

	code, body, _ = f.do(t, http.MethodPost, "/items", tok, `{"name":"Eggs","quantity":12,"completed":false,"groceryListId":5}`)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, model.NewItem{Name: "Eggs", Quantity: 12, GroceryListID: 5}, f.items.lastNew)
	require.Contains(t, body, `"parentList":{"id":5`)

	code, body, _ = f.do(t, http.MethodPut, "/items/9", tok, `{"completed":true}`)
	require.Equal(t, http.StatusOK, code)
	require.Nil(t, f.items.lastUpdate.Name)
	require.Nil(t, f.items.lastUpdate.Quantity)
	require.NotNil(t, f.items.lastUpdate.Completed)
	assert.Contains(t, body, `"completed":true`)

	code, _, _ = f.do(t, http.MethodDelete, "/items/9", tok, "")
	require.Equal(t, http.StatusNoContent, code)
}

func TestItemBatches(t *testing.T) {
	f := newFixture(t, Options{})
	tok := token(t, 3, testKey, time.Hour)

	code, body, _ := f.do(t, http.MethodPost, "/items/batch-create", tok, `{"groceryListId":5,"itemNames":["Eggs","Bread"],"quantity":2}`)
	require.Equal(t, http.StatusCreated, code)
	var items []model.Item
	require.NoError(t, json.Unmarshal([]byte(body), &items))
	require.Len(t, items, 2)
	require.Equal(t, model.BatchNewItems{GroceryListID: 5, ItemNames: []string{"Eggs", "Bread"}, Quantity: 2}, f.items.lastBatch)

	code, body, _ = f.do(t, http.MethodDelete, "/items/batch-delete", tok, `[1,2,3]`)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"message":"Selected items deleted successfully."}`, body)
	require.Equal(t, []int64{1, 2, 3}, f.items.lastIDs)

	f.items.err = errs.With(errs.ErrNotFound, service.MsgSomeNotFound)
	code, body, _ = f.do(t, http.MethodDelete, "/items/batch-delete", tok, `[1,99]`)
	require.Equal(t, http.StatusNotFound, code)
	require.JSONEq(t, `{"error":"Some items not found"}`, body)
}

func TestUnknownRoute_JSON404(t *testing.T) {
	f := newFixture(t, Options{})
	code, body, _ := f.do(t, http.MethodGet, "/nope", "", "")
	require.Equal(t, http.StatusNotFound, code)
	require.JSONEq(t, `{"error":"Not found"}`, body)
}

func TestKnownPathWrongMethod_JSON405(t *testing.T) {
	f := newFixture(t, Options{})
	code, body, hdr := f.do(t, http.MethodPatch, "/lists", token(t, 1, testKey, time.Hour), "")
	require.Equal(t, http.StatusMethodNotAllowed, code)
	require.JSONEq(t, `{"error":"Method not allowed"}`, body)
	require.Contains(t, hdr.Get("Allow"), http.MethodGet)
	require.Contains(t, hdr.Get("Allow"), http.MethodPost)
	require.Equal(t, "application/json", hdr.Get("Content-Type"))
}

type pingFunc func(context.Context) error

func (p pingFunc) Ping(ctx context.Context) error { return p(ctx) }

func TestHealthz(t *testing.T) {
	f := newFixture(t, Options{})
	code, body, _ := f.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"status":"ok"}`, body)

	down := newFixture(t, Options{Health: pingFunc(func(context.Context) error { return errors.New("down") })})
	code, body, _ = down.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.JSONEq(t, `{"status":"unavailable"}`, body)
}
