package repository

import (
	"context"

	"github.com/and161185/grocerylist/internal/model"
)

// ListRepository stores grocery lists. Returned lists carry their owner.
type ListRepository interface {
	// Create inserts l for l.Owner.ID and fills l.ID.
	Create(ctx context.Context, l *model.GroceryList) error
	Get(ctx context.Context, id int64) (*model.GroceryList, error)
	// ListByOwner returns the owner's lists in creation order.
	ListByOwner(ctx context.Context, ownerID int64) ([]model.GroceryList, error)
	Rename(ctx context.Context, id int64, name string) error
	// Delete removes the list and, by cascade, its items.
	Delete(ctx context.Context, id int64) error
}
