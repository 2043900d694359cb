package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/and161185/grocerylist/internal/client/api"
	"github.com/and161185/grocerylist/internal/client/state"
	"github.com/and161185/grocerylist/internal/model"
)

type pane int

const (
	paneLists pane = iota
	paneItems
)

type homeMode int

const (
	modeBrowse homeMode = iota
	modeNewList
	modeNewItem
	modeRename
	modeConfirmDelete
)

// homePage is the sidebar of lists next to the selected list's items.
type homePage struct {
	ctx    context.Context
	api    API
	styles styles

	home    state.Home
	sidebar state.Sidebar
	detail  state.Detail

	pane    pane
	mode    homeMode
	cursor  int
	editing int64
	input   textinput.Model

	width, height int
}

func newHomePage(ctx context.Context, a API, st styles) homePage {
	h := homePage{ctx: ctx, api: a, styles: st, input: newInput("", false)}
	h.home.BeginLoad()
	return h
}

// Init fetches the collection once on entry.
func (h homePage) Init() tea.Cmd { return fetchListsCmd(h.ctx, h.api, h.home.LoadSeq()) }

// typing reports whether keys belong to the text input.
func (h homePage) typing() bool {
	return h.mode == modeNewList || h.mode == modeNewItem || h.mode == modeRename
}

func (h homePage) Update(msg tea.Msg) (homePage, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width, h.height = msg.Width, msg.Height
		return h, nil

	case listsLoadedMsg:
		if h.home.Stale(msg.seq) {
			return h, nil
		}
		h.home.ListsLoaded(msg.lists)
		return h, h.syncDetail()
	case listsFailedMsg:
		if h.home.Stale(msg.seq) {
			return h, nil
		}
		h.home.ListsFailed(api.Describe(msg.err, state.MsgListsFailed))
		return h, nil

	case listCreatedMsg:
		h.home.ListCreated(msg.list)
		h.sidebar.CreateSucceeded()
		return h, h.syncDetail()
	case listCreateFailedMsg:
		h.sidebar.CreateFailed(msg.err)
		return h, nil
	case listDeletedMsg:
		h.home.ListDeleted(msg.id)
		return h, h.syncDetail()
	case listDeleteFailedMsg:
		h.sidebar.DeleteFailed(msg.err)
		return h, nil

	case itemsLoadedMsg:
		h.detail.ItemsLoaded(msg.ticket, msg.items)
		h.clampCursor()
		return h, nil
	case itemsFailedMsg:
		h.detail.ItemsFailed(msg.ticket, api.Describe(msg.err, state.MsgItemsFailed))
		return h, nil
	case itemAddedMsg:
		h.detail.ItemAdded(msg.listID, msg.item)
		return h, nil
	case itemUpdatedMsg:
		h.detail.ItemUpdated(msg.listID, msg.item)
		return h, nil
	case itemDeletedMsg:
		h.detail.ItemDeleted(msg.listID, msg.id)
		h.clampCursor()
		return h, nil
	case itemsDeletedMsg:
		h.detail.ItemsDeleted(msg.listID, msg.ids)
		h.clampCursor()
		return h, nil
	case itemFailedMsg:
		h.detail.MutationFailed(msg.listID, api.Describe(msg.err, msg.fallback))
		return h, nil

	case tea.KeyMsg:
		switch {
		case h.mode == modeConfirmDelete:
			return h.updateConfirm(msg)
		case h.typing():
			return h.updateInput(msg)
		}
		return h.updateBrowse(msg)
	}
	return h, nil
}

func (h homePage) updateBrowse(msg tea.KeyMsg) (homePage, tea.Cmd) {
	switch msg.String() {
	case "tab":
		if h.pane == paneLists {
			h.pane = paneItems
		} else {
			h.pane = paneLists
		}
		return h, nil
	case "r":
		cmds := []tea.Cmd{fetchListsCmd(h.ctx, h.api, h.home.BeginLoad())}
		if t, ok := h.detail.Reload(); ok {
			cmds = append(cmds, fetchItemsCmd(h.ctx, h.api, t))
		}
		return h, tea.Batch(cmds...)
	case "n":
		h.mode = modeNewList
		h.sidebar.Err = ""
		h.openInput("new list name", h.sidebar.NewName)
		return h, nil
	case "a":
		if h.home.SelectedID == state.NoSelection {
			h.detail.Err = state.MsgNoListSelected
			return h, nil
		}
		h.mode = modeNewItem
		h.detail.Err = ""
		h.openInput("item name", "")
		return h, nil
	}
	if h.pane == paneLists {
		return h.updateLists(msg)
	}
	return h.updateItems(msg)
}

func (h homePage) updateLists(msg tea.KeyMsg) (homePage, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		return h, h.moveSelection(-1)
	case "down", "j":
		return h, h.moveSelection(1)
	case "enter":
		h.pane = paneItems
		return h, nil
	case "d", "delete":
		if l, ok := h.home.Selected(); ok {
			h.sidebar.RequestDelete(l)
			h.mode = modeConfirmDelete
		}
		return h, nil
	}
	return h, nil
}

func (h homePage) updateItems(msg tea.KeyMsg) (homePage, tea.Cmd) {
	items := h.detail.Items()
	switch msg.String() {
	case "up", "k":
		if h.cursor > 0 {
			h.cursor--
		}
		return h, nil
	case "down", "j":
		if h.cursor < len(items)-1 {
			h.cursor++
		}
		return h, nil
	case "c":
		ids := h.detail.CompletedIDs()
		if len(ids) == 0 {
			return h, nil
		}
		return h, deleteItemsCmd(h.ctx, h.api, h.detail.ListID, ids)
	}
	if len(items) == 0 {
		return h, nil
	}
	it := items[h.cursor]
	switch msg.String() {
	case " ", "enter", "x":
		return h.patch(it, state.Toggle(it))
	case "+", "=":
		return h.patch(it, state.SetQuantity(it.Quantity+1))
	case "-":
		return h.patch(it, state.SetQuantity(it.Quantity-1))
	case "e":
		h.mode = modeRename
		h.editing = it.ID
		h.detail.Err = ""
		h.openInput("item name", it.Name)
		return h, nil
	case "d", "delete":
		return h, deleteItemCmd(h.ctx, h.api, h.detail.ListID, it.ID)
	}
	return h, nil
}

func (h homePage) patch(it model.Item, p state.Patch) (homePage, tea.Cmd) {
	upd, err := p.Merge(it)
	if err != nil {
		h.detail.Err = api.Describe(err, state.MsgItemUpdateFailed)
		return h, nil
	}
	return h, updateItemCmd(h.ctx, h.api, h.detail.ListID, it.ID, upd)
}

func (h homePage) updateInput(msg tea.KeyMsg) (homePage, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if h.mode == modeNewList {
			h.sidebar.NewName = h.input.Value()
		}
		h.closeInput()
		return h, nil
	case "enter":
		return h.submitInput()
	}
	var cmd tea.Cmd
	h.input, cmd = h.input.Update(msg)
	return h, cmd
}

func (h homePage) submitInput() (homePage, tea.Cmd) {
	val := h.input.Value()
	switch h.mode {
	case modeNewList:
		h.sidebar.NewName = val
		name, err := h.sidebar.PrepareCreate(val)
		if err != nil {
			return h, nil
		}
		h.closeInput()
		return h, createListCmd(h.ctx, h.api, name)
	case modeNewItem:
		name, err := h.detail.PrepareAdd(val)
		if err != nil {
			return h, nil
		}
		h.closeInput()
		return h, createItemCmd(h.ctx, h.api, model.NewItem{
			Name:          name,
			Quantity:      1,
			GroceryListID: h.detail.ListID,
		})
	case modeRename:
		it, ok := h.detail.Find(h.editing)
		h.closeInput()
		if !ok {
			return h, nil
		}
		return h.patch(it, state.Rename(val))
	}
	return h, nil
}

func (h homePage) updateConfirm(msg tea.KeyMsg) (homePage, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		h.mode = modeBrowse
		if id, ok := h.sidebar.ConfirmDelete(); ok {
			return h, deleteListCmd(h.ctx, h.api, id)
		}
	case "n", "N", "esc":
		h.mode = modeBrowse
		h.sidebar.CancelDelete()
	}
	return h, nil
}

func (h *homePage) openInput(placeholder, value string) {
	h.input.Placeholder = placeholder
	h.input.SetValue(value)
	h.input.CursorEnd()
	h.input.Focus()
}

func (h *homePage) closeInput() {
	h.mode = modeBrowse
	h.editing = 0
	h.input.Blur()
	h.input.SetValue("")
}

func (h *homePage) moveSelection(delta int) tea.Cmd {
	n := len(h.home.Lists)
	if n == 0 {
		return nil
	}
	i := h.home.SelectedIndex() + delta
	if i < 0 || i >= n {
		return nil
	}
	h.home.Select(h.home.Lists[i].ID)
	return h.syncDetail()
}

// syncDetail points the detail view at the current selection and fetches
// its items when the selection changed.
func (h *homePage) syncDetail() tea.Cmd {
	t, ok := h.detail.Show(h.home.SelectedID)
	if !ok {
		return nil
	}
	h.cursor = 0
	return fetchItemsCmd(h.ctx, h.api, t)
}

func (h *homePage) clampCursor() {
	n := len(h.detail.Uncompleted) + len(h.detail.Completed)
	if h.cursor >= n {
		h.cursor = n - 1
	}
	if h.cursor < 0 {
		h.cursor = 0
	}
}

func (h homePage) View() string {
	sideW, mainW := 28, 48
	if h.width > 0 {
		sideW = max(h.width/3, 20)
		mainW = max(h.width-sideW-6, 30)
	}

	side := h.styles.Pane
	main := h.styles.Pane
	if h.pane == paneLists {
		side = h.styles.Focused
	} else {
		main = h.styles.Focused
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		side.Width(sideW).Render(h.viewSidebar()),
		main.Width(mainW).Render(h.viewDetail()),
	)

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if h.typing() {
		b.WriteString(h.input.View())
		b.WriteString("\n")
	}
	if h.mode == modeConfirmDelete {
		if l, ok := h.sidebar.PendingDelete(); ok {
			b.WriteString(h.styles.Modal.Render(fmt.Sprintf("Delete list %q and all its items? (y/n)", l.Name)))
			b.WriteString("\n")
		}
	}
	b.WriteString(h.styles.Muted.Render(h.help()))
	return b.String()
}

func (h homePage) viewSidebar() string {
	var b strings.Builder
	b.WriteString(h.styles.Title.Render("Lists"))
	b.WriteString("\n")
	switch {
	case h.home.Loading && len(h.home.Lists) == 0:
		b.WriteString(h.styles.Muted.Render("Loading…"))
	case h.home.Err != "":
		b.WriteString(h.styles.Error.Render(h.home.Err))
	case len(h.home.Lists) == 0:
		b.WriteString(h.styles.Muted.Render("No lists yet."))
	}
	for _, l := range h.home.Lists {
		b.WriteString("\n")
		if l.ID == h.home.SelectedID {
			b.WriteString(h.styles.Selected.Render("› " + l.Name))
		} else {
			b.WriteString("  " + l.Name)
		}
	}
	if h.sidebar.Err != "" {
		b.WriteString("\n\n")
		b.WriteString(h.styles.Error.Render(h.sidebar.Err))
	}
	return b.String()
}

func (h homePage) viewDetail() string {
	l, ok := h.home.Selected()
	if !ok {
		return h.styles.Muted.Render("Select or create a list to see its items.")
	}
	var b strings.Builder
	b.WriteString(h.styles.Title.Render(l.Name))
	b.WriteString("\n")
	switch {
	case h.detail.Loading:
		b.WriteString(h.styles.Muted.Render("Loading…"))
	case len(h.detail.Uncompleted)+len(h.detail.Completed) == 0:
		b.WriteString(h.styles.Muted.Render("No items."))
	}
	for i, it := range h.detail.Items() {
		b.WriteString("\n")
		mark := "  "
		if h.pane == paneItems && i == h.cursor {
			mark = "› "
		}
		box := "[ ]"
		label := fmt.Sprintf("%s ×%d", it.Name, it.Quantity)
		if it.Completed {
			box = "[x]"
			label = h.styles.Done.Render(label)
		}
		b.WriteString(mark + box + " " + label)
	}
	if h.detail.Err != "" {
		b.WriteString("\n\n")
		b.WriteString(h.styles.Error.Render(h.detail.Err))
	}
	return b.String()
}

func (h homePage) help() string {
	switch {
	case h.typing():
		return "enter: save · esc: cancel"
	case h.mode == modeConfirmDelete:
		return "y: delete · n: keep"
	case h.pane == paneLists:
		return "↑/↓: select · n: new list · d: delete list · a: add item · tab: items · r: refresh · ctrl+o: log out · q: quit"
	}
	return "↑/↓: move · space: check · +/-: quantity · e: rename · d: delete · c: clear completed · a: add · tab: lists · q: quit"
}
