package tui

import (
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/and161185/grocerylist/internal/client/api"
	"github.com/and161185/grocerylist/internal/client/session"
	"github.com/and161185/grocerylist/internal/model"
)


func TestApp_StartsOnAuthWithoutToken(t *testing.T) {
	fa := newFakeAPI()
	m, _ := start(t, fa, "")
	require.Equal(t, pageAuth, app(m).page)
	require.Contains(t, m.View(), "Sign in")
	require.Zero(t, fa.called("Lists"))
}

func TestApp_StartsOnHomeWithToken(t *testing.T) {
	fa := newFakeAPI(model.GroceryList{ID: 1, Name: "Weekly"})
	m, _ := start(t, fa, "jwt")
	require.Equal(t, pageHome, app(m).page)
	require.Equal(t, 1, fa.called("Lists"))
	require.Equal(t, 1, fa.called("Items"))
	require.Contains(t, m.View(), "Weekly")
}

func TestApp_LoginFlow(t *testing.T) {
	fa := newFakeAPI(model.GroceryList{ID: 1, Name: "Weekly"})
	fa.items[1] = []model.Item{{ID: 10, Name: "milk", Quantity: 1, ParentList: model.GroceryList{ID: 1}}}
	m, store := start(t, fa, "")

	m = drive(m, key("a@b.c"), key("tab"), key("secret"), key("enter"))

	require.Equal(t, pageHome, app(m).page)
	tok, ok, err := store.Read()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "jwt", tok)

	h := app(m).home
	require.Equal(t, int64(1), h.home.SelectedID)
	require.Len(t, h.detail.Uncompleted, 1)
}

func TestApp_LoginInvalidCredentials(t *testing.T) {
	fa := newFakeAPI()
	fa.errs["Login"] = &api.Error{Status: http.StatusUnauthorized, Message: "Bad credentials"}
	m, store := start(t, fa, "")

	m = drive(m, key("a@b.c"), key("tab"), key("wrong"), key("enter"))

	require.Equal(t, pageAuth, app(m).page)
	require.Equal(t, session.MsgInvalidCredentials, app(m).auth.err)
	_, ok, _ := store.Read()
	require.False(t, ok)
}

func TestApp_LoginValidationSkipsNetwork(t *testing.T) {
	fa := newFakeAPI()
	m, _ := start(t, fa, "")
	m = drive(m, key("tab"), key("enter"))
	require.NotEmpty(t, app(m).auth.err)
	require.Zero(t, fa.called("Login"))
}

func TestApp_UnauthorizedOnHomeLogsOut(t *testing.T) {
	fa := newFakeAPI()
	fa.errs["Lists"] = &api.Error{Status: http.StatusUnauthorized}
	m, store := start(t, fa, "stale")

	require.Equal(t, pageAuth, app(m).page)
	_, ok, _ := store.Read()
	require.False(t, ok)
}

func TestApp_CtrlOLogsOut(t *testing.T) {
	fa := newFakeAPI(model.GroceryList{ID: 1, Name: "Weekly"})
	m, store := start(t, fa, "jwt")

	m = drive(m, key("ctrl+o"))
	require.Equal(t, pageAuth, app(m).page)
	_, ok, _ := store.Read()
	require.False(t, ok)
}

func TestApp_QuitOnlyWhileBrowsing(t *testing.T) {
	fa := newFakeAPI(model.GroceryList{ID: 1, Name: "Weekly"})
	m, _ := start(t, fa, "jwt")

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)

	m = drive(m, key("n"))
	m, cmd = m.Update(key("q"))
	if cmd != nil {
		require.NotEqual(t, tea.QuitMsg{}, cmd())
	}
	require.Equal(t, pageHome, app(m).page)
	require.Equal(t, "q", app(m).home.input.Value())
}
