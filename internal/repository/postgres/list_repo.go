package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
)

// ListRepo implements repository.ListRepository.
type ListRepo struct{ db *DB }

// NewListRepo constructs a list repository.
func NewListRepo(db *DB) *ListRepo { return &ListRepo{db: db} }

const selectList = `
SELECT l.id, l.name, u.id, u.username, u.email
FROM grocery_lists l JOIN users u ON u.id = l.owner_id`

// Create inserts a list owned by l.Owner.ID.
func (r *ListRepo) Create(ctx context.Context, l *model.GroceryList) error {
	const q = `INSERT INTO grocery_lists (name, owner_id) VALUES ($1, $2) RETURNING id`
	return r.db.Pool.QueryRow(ctx, q, l.Name, l.Owner.ID).Scan(&l.ID)
}

// Get loads one list with its owner.
func (r *ListRepo) Get(ctx context.Context, id int64) (*model.GroceryList, error) {
	l, err := scanList(r.db.Pool.QueryRow(ctx, selectList+` WHERE l.id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// ListByOwner returns the owner's lists ordered by id.
func (r *ListRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.GroceryList, error) {
	rows, err := r.db.Pool.Query(ctx, selectList+` WHERE l.owner_id=$1 ORDER BY l.id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.GroceryList{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Rename sets the list name.
func (r *ListRepo) Rename(ctx context.Context, id int64, name string) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE grocery_lists SET name=$2 WHERE id=$1`, id, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a list; items go with it via ON DELETE CASCADE.
func (r *ListRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM grocery_lists WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanList(row scanner) (model.GroceryList, error) {
	var l model.GroceryList
	err := row.Scan(&l.ID, &l.Name, &l.Owner.ID, &l.Owner.Username, &l.Owner.Email)
	return l, err
}
