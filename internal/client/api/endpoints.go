package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/and161185/grocerylist/internal/model"
)

// Login exchanges credentials for a token. The token is not persisted here.
func (c *Client) Login(ctx context.Context, email, password string) (model.Tokens, error) {
	var out model.Tokens
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

// Register creates an account. It does not authenticate.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out model.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out)
	return out, err
}

// Lists returns the caller's lists in server order.
func (c *Client) Lists(ctx context.Context) ([]model.GroceryList, error) {
	out := []model.GroceryList{}
	err := c.do(ctx, http.MethodGet, "/lists", nil, &out)
	return out, err
}

// CreateList creates a list named name.
func (c *Client) CreateList(ctx context.Context, name string) (model.GroceryList, error) {
	var out model.GroceryList
	err := c.do(ctx, http.MethodPost, "/lists", map[string]string{"name": name}, &out)
	return out, err
}

// RenameList sets a list's name and returns the updated list.
func (c *Client) RenameList(ctx context.Context, id int64, name string) (model.GroceryList, error) {
	var out model.GroceryList
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/lists/%d", id), map[string]string{"name": name}, &out)
	return out, err
}

// DeleteList deletes a list and its items.
func (c *Client) DeleteList(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/lists/%d", id), nil, nil)
}

// Items returns every item of a list.
func (c *Client) Items(ctx context.Context, listID int64) ([]model.Item, error) {
	out := []model.Item{}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/items/list/%d", listID), nil, &out)
	return out, err
}

// CreateItem adds one item to a list.
func (c *Client) CreateItem(ctx context.Context, in model.NewItem) (model.Item, error) {
	var out model.Item
	err := c.do(ctx, http.MethodPost, "/items", in, &out)
	return out, err
}

// UpdateItem applies a partial update and returns the server's item.
func (c *Client) UpdateItem(ctx context.Context, id int64, upd model.ItemUpdate) (model.Item, error) {
	var out model.Item
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/items/%d", id), upd, &out)
	return out, err
}

// DeleteItem deletes one item.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/items/%d", id), nil, nil)
}

// CreateItems adds several items to a list in one transaction.
func (c *Client) CreateItems(ctx context.Context, in model.BatchNewItems) ([]model.Item, error) {
	out := []model.Item{}
	err := c.do(ctx, http.MethodPost, "/items/batch-create", in, &out)
	return out, err
}

// DeleteItems deletes several items; the server applies all or none.
func (c *Client) DeleteItems(ctx context.Context, ids []int64) error {
	return c.do(ctx, http.MethodDelete, "/items/batch-delete", ids, nil)
}
