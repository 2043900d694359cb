// Package model defines domain entities shared by the client and the server.
package model

import "time"

// Tokens collects an issued access token and its expiry (for diagnostics).
type Tokens struct {
	AccessToken string    `json:"token"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// User is an account. Credentials never leave the server.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	PwdHash   []byte    `json:"-"` // Argon2id(password, SaltAuth)
	SaltAuth  []byte    `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// GroceryList is a named list owned by a single user.
type GroceryList struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Owner User   `json:"owner"`
}

// Item belongs to exactly one grocery list.
type Item struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Quantity   int         `json:"quantity"` // >= 1
	Completed  bool        `json:"completed"`
	ParentList GroceryList `json:"parentList"`
}

// ListID returns the id of the item's parent list.
func (it Item) ListID() int64 { return it.ParentList.ID }

// NewItem is an item creation intent scoped to a list.
type NewItem struct {
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	Completed     bool   `json:"completed"`
	GroceryListID int64  `json:"groceryListId"`
}

// ItemUpdate is a partial update; nil fields are left unchanged.
type ItemUpdate struct {
	Name      *string `json:"name,omitempty"`
	Quantity  *int    `json:"quantity,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Empty reports whether the update carries no fields.
func (u ItemUpdate) Empty() bool {
	return u.Name == nil && u.Quantity == nil && u.Completed == nil
}

// BatchNewItems creates several items with the same quantity in one list.
type BatchNewItems struct {
	GroceryListID int64    `json:"groceryListId"`
	ItemNames     []string `json:"itemNames"`
	Quantity      int      `json:"quantity"`
}
