package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
	"github.com/and161185/grocerylist/internal/repository"
)

// User-facing item messages.
const (
	MsgEmptyItemName  = "Item name cannot be empty"
	MsgBadQuantity    = "Quantity must be at least 1"
	MsgQuantityTooBig = "Quantity is too large"
	MsgNoItemNames    = "Item names list cannot be empty"
	MsgNothingToApply = "No fields to update"
	MsgNoItemIDs      = "No items selected"
	MsgItemNotFound   = "Item not found"
	MsgSomeNotFound   = "Some items not found"
	MsgListMissing    = "GroceryList not found"
	MsgItemsDeleted   = "Selected items deleted successfully."
)

// MaxQuantity is the largest quantity the items table can hold (INTEGER).
const MaxQuantity = math.MaxInt32

// DefaultMaxBatch bounds batch create and delete requests.
const DefaultMaxBatch = 1000

// ItemService manages items inside lists owned by the caller.
type ItemService interface {
	Items(ctx context.Context, userID, listID int64) ([]model.Item, error)
	Create(ctx context.Context, userID int64, in model.NewItem) (model.Item, error)
	Update(ctx context.Context, userID, id int64, upd model.ItemUpdate) (model.Item, error)
	Delete(ctx context.Context, userID, id int64) error
	CreateBatch(ctx context.Context, userID int64, in model.BatchNewItems) ([]model.Item, error)
	// DeleteBatch removes every id or none.
	DeleteBatch(ctx context.Context, userID int64, ids []int64) error
}

type ItemServiceImpl struct {
	items    repository.ItemRepository
	lists    repository.ListRepository
	maxBatch int
}

// NewItemService constructs ItemService with batch limits.
func NewItemService(items repository.ItemRepository, lists repository.ListRepository, maxBatch int) *ItemServiceImpl {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	return &ItemServiceImpl{items: items, lists: lists, maxBatch: maxBatch}
}

// quantity applies the default of 1 for an omitted (zero) quantity.
func quantity(q int) (int, error) {
	switch {
	case q == 0:
		return 1, nil
	case q < 1:
		return 0, errs.Invalid(MsgBadQuantity)
	case q > MaxQuantity:
		return 0, errs.Invalid(MsgQuantityTooBig)
	}
	return q, nil
}

// Items returns a list's items, each carrying the list.
func (s *ItemServiceImpl) Items(ctx context.Context, userID, listID int64) ([]model.Item, error) {
	l, err := ownedList(ctx, s.lists, userID, listID, MsgListMissing, "view items in this list")
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByList(ctx, listID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].ParentList = *l
	}
	return items, nil
}

// Create validates and adds one item.
func (s *ItemServiceImpl) Create(ctx context.Context, userID int64, in model.NewItem) (model.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Item{}, errs.Invalid(MsgEmptyItemName)
	}
	q, err := quantity(in.Quantity)
	if err != nil {
		return model.Item{}, err
	}
	l, err := ownedList(ctx, s.lists, userID, in.GroceryListID, MsgListMissing, "add items to this list")
	if err != nil {
		return model.Item{}, err
	}

	it := &model.Item{Name: name, Quantity: q, Completed: in.Completed, ParentList: *l}
	if err := s.items.Create(ctx, it); err != nil {
		return model.Item{}, fmt.Errorf("create item: %w", err)
	}
	return *it, nil
}

// Update merges the present fields of upd into an owned item.
func (s *ItemServiceImpl) Update(ctx context.Context, userID, id int64, upd model.ItemUpdate) (model.Item, error) {
	if upd.Empty() {
		return model.Item{}, errs.Invalid(MsgNothingToApply)
	}
	it, err := s.ownedItem(ctx, userID, id, "update this item")
	if err != nil {
		return model.Item{}, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return model.Item{}, errs.Invalid(MsgEmptyItemName)
		}
		it.Name = name
	}
	if upd.Quantity != nil {
		if *upd.Quantity == 0 {
			return model.Item{}, errs.Invalid(MsgBadQuantity)
		}
		q, err := quantity(*upd.Quantity)
		if err != nil {
			return model.Item{}, err
		}
		it.Quantity = q
	}
	if upd.Completed != nil {
		it.Completed = *upd.Completed
	}
	if err := s.items.Update(ctx, it); err != nil {
		return model.Item{}, err
	}
	return *it, nil
}

// Delete removes an owned item.
func (s *ItemServiceImpl) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.ownedItem(ctx, userID, id, "delete this item"); err != nil {
		return err
	}
	return s.items.Delete(ctx, id)
}

// CreateBatch adds one item per name, all with the same quantity, atomically.
func (s *ItemServiceImpl) CreateBatch(ctx context.Context, userID int64, in model.BatchNewItems) ([]model.Item, error) {
	if len(in.ItemNames) == 0 {
		return nil, errs.Invalid(MsgNoItemNames)
	}
	if len(in.ItemNames) > s.maxBatch {
		return nil, errs.Invalid(fmt.Sprintf("Too many items in one request (%d > %d)", len(in.ItemNames), s.maxBatch))
	}
	q, err := quantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(in.ItemNames))
	for i, n := range in.ItemNames {
		names[i] = strings.TrimSpace(n)
		if names[i] == "" {
			return nil, errs.Invalid(MsgEmptyItemName)
		}
	}
	l, err := ownedList(ctx, s.lists, userID, in.GroceryListID, MsgListMissing, "manage this list")
	if err != nil {
		return nil, err
	}

	batch := make([]*model.Item, len(names))
	for i, n := range names {
		batch[i] = &model.Item{Name: n, Quantity: q, ParentList: *l}
	}
	if err := s.items.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("create items: %w", err)
	}
	out := make([]model.Item, len(batch))
	for i, it := range batch {
		out[i] = *it
	}
	return out, nil
}

// DeleteBatch checks that every id exists and is owned before deleting any.
func (s *ItemServiceImpl) DeleteBatch(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return errs.Invalid(MsgNoItemIDs)
	}
	uniq := slices.Clone(ids)
	slices.Sort(uniq)
	uniq = slices.Compact(uniq)
	if len(uniq) > s.maxBatch {
		return errs.Invalid(fmt.Sprintf("Too many items in one request (%d > %d)", len(uniq), s.maxBatch))
	}

	found, err := s.items.GetMany(ctx, uniq)
	if err != nil {
		return err
	}
	if len(found) != len(uniq) {
		return errs.With(errs.ErrNotFound, MsgSomeNotFound)
	}
	for _, it := range found {
		if it.ParentList.Owner.ID != userID {
			return errs.With(errs.ErrForbidden,
				fmt.Sprintf("You are not authorized to delete item with ID: %d as it does not belong to your list.", it.ID))
		}
	}
	if err := s.items.DeleteBatch(ctx, uniq); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.With(errs.ErrNotFound, MsgSomeNotFound)
		}
		return err
	}
	return nil
}

func (s *ItemServiceImpl) ownedItem(ctx context.Context, userID, id int64, action string) (*model.Item, error) {
	it, err := s.items.Get(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.With(errs.ErrNotFound, MsgItemNotFound)
		}
		return nil, err
	}
	if it.ParentList.Owner.ID != userID {
		return nil, errs.With(errs.ErrForbidden, "You do not have permission to "+action+".")
	}
	return it, nil
}
