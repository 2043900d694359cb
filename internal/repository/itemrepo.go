package repository

import (
	"context"

	"github.com/and161185/grocerylist/internal/model"
)

// ItemRepository stores items. Get and GetMany return items with their parent
// list and its owner; ListByList sets only ParentList.ID.
type ItemRepository interface {
	// Create inserts it into it.ParentList.ID and fills it.ID.
	Create(ctx context.Context, it *model.Item) error
	// CreateBatch inserts all items in one transaction.
	CreateBatch(ctx context.Context, items []*model.Item) error
	Get(ctx context.Context, id int64) (*model.Item, error)
	// GetMany returns the subset of ids that exist, ordered by id.
	GetMany(ctx context.Context, ids []int64) ([]model.Item, error)
	// ListByList returns a list's items in creation order.
	ListByList(ctx context.Context, listID int64) ([]model.Item, error)
	// Update overwrites name, quantity and completed of it.ID.
	Update(ctx context.Context, it *model.Item) error
	Delete(ctx context.Context, id int64) error
	// DeleteBatch removes every id or none; a missing id yields errs.ErrNotFound.
	DeleteBatch(ctx context.Context, ids []int64) error
}
