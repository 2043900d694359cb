package state

import (
	"slices"
	"strings"

	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
)

// Detail messages.
const (
	MsgEmptyItemName    = "Item name cannot be empty."
	MsgBadQuantity      = "Quantity must be at least 1."
	MsgNoListSelected   = "Select or create a list first."
	MsgItemsFailed      = "Failed to load items."
	MsgItemCreateFailed = "Failed to add item."
	MsgItemUpdateFailed = "Failed to update item."
	MsgItemDeleteFailed = "Failed to delete item."
)

// Ticket identifies one item fetch. Only the latest ticket's response is
// applied; responses for an earlier selection are discarded.
type Ticket struct {
	ListID int64
	Seq    uint64
}

// Detail is the item view of the selected list. Completed and Uncompleted
// are disjoint and together hold every fetched item exactly once.
type Detail struct {
	ListID      int64
	Completed   []model.Item
	Uncompleted []model.Item
	Loading     bool
	Err         string

	seq uint64
}

// Partition splits items by their completed flag, preserving order.
func Partition(items []model.Item) (completed, uncompleted []model.Item) {
	completed = []model.Item{}
	uncompleted = []model.Item{}
	for _, it := range items {
		if it.Completed {
			completed = append(completed, it)
		} else {
			uncompleted = append(uncompleted, it)
		}
	}
	return completed, uncompleted
}

// Show switches the view to listID. When the id changes, both subsets are
// dropped at once and a fetch ticket is issued. NoSelection shows the
// placeholder and needs no fetch.
func (d *Detail) Show(listID int64) (Ticket, bool) {
	if listID == d.ListID {
		return Ticket{}, false
	}
	d.ListID = listID
	d.Completed, d.Uncompleted = nil, nil
	d.Err = ""
	d.seq++
	if listID == NoSelection {
		d.Loading = false
		return Ticket{}, false
	}
	d.Loading = true
	return Ticket{ListID: listID, Seq: d.seq}, true
}

// Reload issues a fresh ticket for the current list.
func (d *Detail) Reload() (Ticket, bool) {
	if d.ListID == NoSelection {
		return Ticket{}, false
	}
	d.seq++
	d.Loading = true
	d.Err = ""
	return Ticket{ListID: d.ListID, Seq: d.seq}, true
}

// Current reports whether t is the latest issued ticket.
func (d *Detail) Current(t Ticket) bool {
	return t.Seq == d.seq && t.ListID == d.ListID && t.ListID != NoSelection
}

// ItemsLoaded replaces both subsets with the fetched items. Stale responses
// are ignored and false is returned.
func (d *Detail) ItemsLoaded(t Ticket, items []model.Item) bool {
	if !d.Current(t) {
		return false
	}
	d.Completed, d.Uncompleted = Partition(items)
	d.Loading = false
	d.Err = ""
	return true
}

// ItemsFailed records a fetch error for the current ticket only.
func (d *Detail) ItemsFailed(t Ticket, msg string) bool {
	if !d.Current(t) {
		return false
	}
	d.Loading = false
	if msg == "" {
		msg = MsgItemsFailed
	}
	d.Err = msg
	return true
}

// PrepareAdd validates a new item name locally.
func (d *Detail) PrepareAdd(name string) (string, error) {
	if d.ListID == NoSelection {
		d.Err = MsgNoListSelected
		return "", errs.Invalid(MsgNoListSelected)
	}
	n := strings.TrimSpace(name)
	if n == "" {
		d.Err = MsgEmptyItemName
		return "", errs.Invalid(MsgEmptyItemName)
	}
	d.Err = ""
	return n, nil
}

// ItemAdded places a created item. origin is the list the call was made for;
// results for a list that is no longer shown are dropped.
func (d *Detail) ItemAdded(origin int64, it model.Item) bool {
	if origin != d.ListID || origin == NoSelection {
		return false
	}
	d.place(it)
	d.Err = ""
	return true
}

// ItemsAdded places every item of a batch create.
func (d *Detail) ItemsAdded(origin int64, items []model.Item) bool {
	if origin != d.ListID || origin == NoSelection {
		return false
	}
	for _, it := range items {
		d.place(it)
	}
	d.Err = ""
	return true
}

// ItemUpdated moves the item to the subset matching its server-confirmed
// completed flag: it is removed from the other subset and replaced in place
// if already present in the destination, else appended.
func (d *Detail) ItemUpdated(origin int64, it model.Item) bool {
	if origin != d.ListID || origin == NoSelection {
		return false
	}
	d.place(it)
	d.Err = ""
	return true
}

// ItemDeleted removes the item from whichever subset holds it.
func (d *Detail) ItemDeleted(origin, id int64) bool {
	if origin != d.ListID || origin == NoSelection {
		return false
	}
	d.Completed = removeID(d.Completed, id)
	d.Uncompleted = removeID(d.Uncompleted, id)
	d.Err = ""
	return true
}

// ItemsDeleted removes every id of a batch delete.
func (d *Detail) ItemsDeleted(origin int64, ids []int64) bool {
	if origin != d.ListID || origin == NoSelection {
		return false
	}
	for _, id := range ids {
		d.Completed = removeID(d.Completed, id)
		d.Uncompleted = removeID(d.Uncompleted, id)
	}
	d.Err = ""
	return true
}

// MutationFailed sets the error field. Item values stay as the server last
// reported them.
func (d *Detail) MutationFailed(origin int64, msg string) bool {
	if origin != d.ListID {
		return false
	}
	d.Err = msg
	return true
}

// Find looks an item up in both subsets.
func (d *Detail) Find(id int64) (model.Item, bool) {
	for _, set := range [][]model.Item{d.Uncompleted, d.Completed} {
		if i := indexID(set, id); i >= 0 {
			return set[i], true
		}
	}
	return model.Item{}, false
}

// Items returns uncompleted items followed by completed ones.
func (d *Detail) Items() []model.Item {
	out := make([]model.Item, 0, len(d.Uncompleted)+len(d.Completed))
	out = append(out, d.Uncompleted...)
	return append(out, d.Completed...)
}

// CompletedIDs lists the ids of the completed subset.
func (d *Detail) CompletedIDs() []int64 {
	ids := make([]int64, 0, len(d.Completed))
	for _, it := range d.Completed {
		ids = append(ids, it.ID)
	}
	return ids
}

func (d *Detail) place(it model.Item) {
	if it.Completed {
		d.Uncompleted = removeID(d.Uncompleted, it.ID)
		d.Completed = upsert(d.Completed, it)
		return
	}
	d.Completed = removeID(d.Completed, it.ID)
	d.Uncompleted = upsert(d.Uncompleted, it)
}

func upsert(set []model.Item, it model.Item) []model.Item {
	if i := indexID(set, it.ID); i >= 0 {
		set[i] = it
		return set
	}
	return append(set, it)
}

func removeID(set []model.Item, id int64) []model.Item {
	return slices.DeleteFunc(set, func(it model.Item) bool { return it.ID == id })
}

func indexID(set []model.Item, id int64) int {
	return slices.IndexFunc(set, func(it model.Item) bool { return it.ID == id })
}
