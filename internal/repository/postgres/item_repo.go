package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
)

// ItemRepo implements repository.ItemRepository.
type ItemRepo struct{ db *DB }

// NewItemRepo constructs an item repository.
func NewItemRepo(db *DB) *ItemRepo { return &ItemRepo{db: db} }

const (
	insertItem = `
INSERT INTO items (name, quantity, completed, list_id)
VALUES ($1, $2, $3, $4)
RETURNING id`

	selectItem = `
SELECT i.id, i.name, i.quantity, i.completed, l.id, l.name, u.id, u.username, u.email
FROM items i
JOIN grocery_lists l ON l.id = i.list_id
JOIN users u ON u.id = l.owner_id`
)

// Create inserts one item.
func (r *ItemRepo) Create(ctx context.Context, it *model.Item) error {
	return r.db.Pool.QueryRow(ctx, insertItem, it.Name, it.Quantity, it.Completed, it.ParentList.ID).Scan(&it.ID)
}

// CreateBatch inserts items atomically.
func (r *ItemRepo) CreateBatch(ctx context.Context, items []*model.Item) error {
	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		for i, it := range items {
			if err := tx.QueryRow(ctx, insertItem, it.Name, it.Quantity, it.Completed, it.ParentList.ID).Scan(&it.ID); err != nil {
				return fmt.Errorf("item[%d]: %w", i, err)
			}
		}
		return nil
	})
}

// Get loads an item with its list and owner.
func (r *ItemRepo) Get(ctx context.Context, id int64) (*model.Item, error) {
	it, err := scanItem(r.db.Pool.QueryRow(ctx, selectItem+` WHERE i.id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

// GetMany loads the existing items among ids.
func (r *ItemRepo) GetMany(ctx context.Context, ids []int64) ([]model.Item, error) {
	rows, err := r.db.Pool.Query(ctx, selectItem+` WHERE i.id = ANY($1) ORDER BY i.id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListByList returns the list's items ordered by id.
func (r *ItemRepo) ListByList(ctx context.Context, listID int64) ([]model.Item, error) {
	const q = `SELECT id, name, quantity, completed FROM items WHERE list_id=$1 ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Item{}
	for rows.Next() {
		it := model.Item{ParentList: model.GroceryList{ID: listID}}
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity, &it.Completed); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Update writes all mutable fields of it.
func (r *ItemRepo) Update(ctx context.Context, it *model.Item) error {
	const q = `UPDATE items SET name=$2, quantity=$3, completed=$4 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, it.ID, it.Name, it.Quantity, it.Completed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes one item.
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteBatch removes all ids, rolling back if any of them is gone.
func (r *ItemRepo) DeleteBatch(ctx context.Context, ids []int64) error {
	uniq := slices.Clone(ids)
	slices.Sort(uniq)
	uniq = slices.Compact(uniq)

	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM items WHERE id = ANY($1)`, uniq)
		if err != nil {
			return err
		}
		if tag.RowsAffected() != int64(len(uniq)) {
			return errs.ErrNotFound
		}
		return nil
	})
}

func scanItem(row scanner) (model.Item, error) {
	var it model.Item
	l := &it.ParentList
	err := row.Scan(&it.ID, &it.Name, &it.Quantity, &it.Completed,
		&l.ID, &l.Name, &l.Owner.ID, &l.Owner.Username, &l.Owner.Email)
	return it, err
}
