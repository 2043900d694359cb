// Package state holds the client's view state: the list collection with its
// selection, the sidebar's create/delete flow and the selected list's items
// split into completed and uncompleted subsets. Every mutation is applied
// from a server response; nothing here performs I/O.
package state

import "github.com/and161185/grocerylist/internal/model"

// NoSelection is the selected id when no list is selected. Server ids are
// always positive.
const NoSelection int64 = 0

// MsgListsFailed is shown in place of the list UI when the fetch fails.
const MsgListsFailed = "Failed to load grocery lists."

// Home owns the list collection and the selected list id.
// SelectedID is NoSelection or the id of a list in Lists.
type Home struct {
	Lists      []model.GroceryList
	SelectedID int64
	Loading    bool
	Err        string

	loadSeq uint64
}

// BeginLoad marks a collection fetch as in flight and returns its sequence
// number. Responses to earlier fetches become Stale.
func (h *Home) BeginLoad() uint64 {
	h.loadSeq++
	h.Loading = true
	h.Err = ""
	return h.loadSeq
}

// LoadSeq is the sequence number of the latest fetch.
func (h *Home) LoadSeq() uint64 { return h.loadSeq }

// Stale reports whether a fetch response was overtaken by a later fetch.
func (h *Home) Stale(seq uint64) bool { return seq != h.loadSeq }

// ListsLoaded replaces the collection in server order. A selection that is
// still present survives, otherwise the first list is selected.
func (h *Home) ListsLoaded(lists []model.GroceryList) {
	h.Loading = false
	h.Err = ""
	h.Lists = append([]model.GroceryList(nil), lists...)
	if h.SelectedID != NoSelection && h.index(h.SelectedID) >= 0 {
		return
	}
	h.selectFirst()
}

// ListsFailed records a persistent error and keeps whatever was loaded.
func (h *Home) ListsFailed(msg string) {
	h.Loading = false
	if msg == "" {
		msg = MsgListsFailed
	}
	h.Err = msg
}

// ListCreated appends the new list and selects it. A list a refresh already
// delivered is replaced in place.
func (h *Home) ListCreated(l model.GroceryList) {
	if i := h.index(l.ID); i >= 0 {
		h.Lists[i] = l
	} else {
		h.Lists = append(h.Lists, l)
	}
	h.SelectedID = l.ID
}

// ListRenamed replaces the stored list with l, keeping its position.
func (h *Home) ListRenamed(l model.GroceryList) {
	if i := h.index(l.ID); i >= 0 {
		h.Lists[i] = l
	}
}

// ListDeleted removes the list. If it was selected, the first remaining list
// becomes selected, or none when the collection is empty.
func (h *Home) ListDeleted(id int64) {
	i := h.index(id)
	if i < 0 {
		return
	}
	h.Lists = append(h.Lists[:i:i], h.Lists[i+1:]...)
	if h.SelectedID == id {
		h.selectFirst()
	}
}

// Select changes the selection; ids not in the collection are refused.
func (h *Home) Select(id int64) bool {
	if h.index(id) < 0 {
		return false
	}
	h.SelectedID = id
	return true
}

// Selected returns the selected list.
func (h *Home) Selected() (model.GroceryList, bool) {
	i := h.index(h.SelectedID)
	if i < 0 {
		return model.GroceryList{}, false
	}
	return h.Lists[i], true
}

// SelectedIndex is the position of the selection in Lists, or -1.
func (h *Home) SelectedIndex() int { return h.index(h.SelectedID) }

func (h *Home) selectFirst() {
	if len(h.Lists) == 0 {
		h.SelectedID = NoSelection
		return
	}
	h.SelectedID = h.Lists[0].ID
}

func (h *Home) index(id int64) int {
	if id == NoSelection {
		return -1
	}
	for i := range h.Lists {
		if h.Lists[i].ID == id {
			return i
		}
	}
	return -1
}
