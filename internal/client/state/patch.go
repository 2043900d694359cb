package state

import (
	"strings"

	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
)

// Patch is a user edit of an item; nil fields are unchanged.
type Patch struct {
	Name      *string
	Quantity  *int
	Completed *bool
}

// Toggle flips the completed flag of it.
func Toggle(it model.Item) Patch {
	c := !it.Completed
	return Patch{Completed: &c}
}

// Rename sets a new name.
func Rename(name string) Patch { return Patch{Name: &name} }

// SetQuantity sets a new quantity.
func SetQuantity(q int) Patch { return Patch{Quantity: &q} }

// Merge fills the fields the patch leaves unset from existing and validates
// the result. The returned update always carries all three fields.
func (p Patch) Merge(existing model.Item) (model.ItemUpdate, error) {
	name := existing.Name
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
		if name == "" {
			return model.ItemUpdate{}, errs.Invalid(MsgEmptyItemName)
		}
	}
	qty := existing.Quantity
	if p.Quantity != nil {
		qty = *p.Quantity
	}
	if qty < 1 {
		return model.ItemUpdate{}, errs.Invalid(MsgBadQuantity)
	}
	done := existing.Completed
	if p.Completed != nil {
		done = *p.Completed
	}
	return model.ItemUpdate{Name: &name, Quantity: &qty, Completed: &done}, nil
}
