package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/and161185/grocerylist/internal/client/state"
	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
)

// loadDetail fetches a list's items into a detail view.
func (c *cli) loadDetail(ctx context.Context, listID int64) (*state.Detail, error) {
	d := &state.Detail{}
	t, _ := d.Show(listID)
	items, err := c.client.Items(ctx, listID)
	if err != nil {
		return nil, c.fail(err, state.MsgItemsFailed)
	}
	d.ItemsLoaded(t, items)
	return d, nil
}

func (c *cli) itemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items <listID>",
		Short: "Show a list's items, unchecked first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			id, err := parseID(args[0], "list")
			if err != nil {
				return err
			}
			d, err := c.loadDetail(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printItems(c, model.GroceryList{ID: id}, d)
		},
	}
}

func (c *cli) itemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Change the items of a list",
	}
	cmd.AddCommand(
		c.itemAddCmd(),
		c.itemAddManyCmd(),
		c.itemSetCmd(),
		c.itemToggleCmd("check", true),
		c.itemToggleCmd("uncheck", false),
		c.itemRmCmd(),
		c.itemClearCompletedCmd(),
	)
	return cmd
}

func checkQuantity(q int) error {
	if q < 1 {
		return &cliError{msg: state.MsgBadQuantity, err: errs.ErrValidation}
	}
	return nil
}

func (c *cli) itemAddCmd() *cobra.Command {
	var qty int
	cmd := &cobra.Command{
		Use:   "add <listID> <name>",
		Short: "Add an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			id, err := parseID(args[0], "list")
			if err != nil {
				return err
			}
			d := &state.Detail{ListID: id}
			name, err := d.PrepareAdd(strings.Join(args[1:], " "))
			if err != nil {
				return &cliError{msg: d.Err, err: err}
			}
			if err := checkQuantity(qty); err != nil {
				return err
			}
			it, err := c.client.CreateItem(cmd.Context(), model.NewItem{Name: name, Quantity: qty, GroceryListID: id})
			if err != nil {
				return c.fail(err, state.MsgItemCreateFailed)
			}
			if c.asJSON {
				return c.printJSON(it)
			}
			fmt.Fprintf(c.out, "Added %q ×%d (id %d).\n", it.Name, it.Quantity, it.ID)
			return nil
		},
	}
	cmd.Flags().IntVarP(&qty, "quantity", "q", 1, "quantity (at least 1)")
	return cmd
}

func (c *cli) itemAddManyCmd() *cobra.Command {
	var qty int
	cmd := &cobra.Command{
		Use:   "add-many <listID> <name>...",
		Short: "Add several items in one request",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			id, err := parseID(args[0], "list")
			if err != nil {
				return err
			}
			d := &state.Detail{ListID: id}
			names := make([]string, 0, len(args)-1)
			for _, raw := range args[1:] {
				n, err := d.PrepareAdd(raw)
				if err != nil {
					return &cliError{msg: d.Err, err: err}
				}
				names = append(names, n)
			}
			if err := checkQuantity(qty); err != nil {
				return err
			}
			items, err := c.client.CreateItems(cmd.Context(), model.BatchNewItems{
				GroceryListID: id,
				ItemNames:     names,
				Quantity:      qty,
			})
			if err != nil {
				return c.fail(err, state.MsgItemCreateFailed)
			}
			if c.asJSON {
				return c.printJSON(items)
			}
			fmt.Fprintf(c.out, "Added %d items.\n", len(items))
			return nil
		},
	}
	cmd.Flags().IntVarP(&qty, "quantity", "q", 1, "quantity for every item (at least 1)")
	return cmd
}

// findItem loads the list and looks itemID up in it.
func (c *cli) findItem(ctx context.Context, listArg, itemArg string) (int64, model.Item, error) {
	listID, err := parseID(listArg, "list")
	if err != nil {
		return 0, model.Item{}, err
	}
	itemID, err := parseID(itemArg, "item")
	if err != nil {
		return 0, model.Item{}, err
	}
	d, err := c.loadDetail(ctx, listID)
	if err != nil {
		return 0, model.Item{}, err
	}
	it, ok := d.Find(itemID)
	if !ok {
		return 0, model.Item{}, &cliError{msg: "Item not found in this list.", err: errs.ErrNotFound}
	}
	return listID, it, nil
}

func (c *cli) update(ctx context.Context, it model.Item, p state.Patch) error {
	upd, err := p.Merge(it)
	if err != nil {
		return &cliError{msg: err.Error(), err: err}
	}
	out, err := c.client.UpdateItem(ctx, it.ID, upd)
	if err != nil {
		return c.fail(err, state.MsgItemUpdateFailed)
	}
	if c.asJSON {
		return c.printJSON(out)
	}
	box := "[ ]"
	if out.Completed {
		box = "[x]"
	}
	fmt.Fprintf(c.out, "%s %s ×%d\n", box, out.Name, out.Quantity)
	return nil
}

func (c *cli) itemSetCmd() *cobra.Command {
	var (
		name string
		qty  int
	)
	cmd := &cobra.Command{
		Use:   "set <listID> <itemID>",
		Short: "Rename an item or change its quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			var p state.Patch
			if cmd.Flags().Changed("name") {
				p.Name = &name
			}
			if cmd.Flags().Changed("quantity") {
				p.Quantity = &qty
			}
			if p.Name == nil && p.Quantity == nil {
				return &cliError{msg: "Nothing to change: pass --name or --quantity.", err: errs.ErrValidation}
			}
			_, it, err := c.findItem(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return c.update(cmd.Context(), it, p)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().IntVarP(&qty, "quantity", "q", 0, "new quantity (at least 1)")
	return cmd
}

func (c *cli) itemToggleCmd(use string, completed bool) *cobra.Command {
	short := "Mark an item as bought"
	if !completed {
		short = "Mark an item as not bought"
	}
	return &cobra.Command{
		Use:   use + " <listID> <itemID>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			_, it, err := c.findItem(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			done := completed
			return c.update(cmd.Context(), it, state.Patch{Completed: &done})
		},
	}
}

func (c *cli) itemRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <listID> <itemID>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			_, it, err := c.findItem(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := c.client.DeleteItem(cmd.Context(), it.ID); err != nil {
				return c.fail(err, state.MsgItemDeleteFailed)
			}
			fmt.Fprintf(c.out, "Deleted %q.\n", it.Name)
			return nil
		},
	}
}

func (c *cli) itemClearCompletedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed <listID>",
		Short: "Delete every checked item of a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			id, err := parseID(args[0], "list")
			if err != nil {
				return err
			}
			d, err := c.loadDetail(cmd.Context(), id)
			if err != nil {
				return err
			}
			ids := d.CompletedIDs()
			if len(ids) == 0 {
				fmt.Fprintln(c.out, "Nothing to clear.")
				return nil
			}
			if err := c.client.DeleteItems(cmd.Context(), ids); err != nil {
				return c.fail(err, state.MsgItemDeleteFailed)
			}
			d.ItemsDeleted(id, ids)
			fmt.Fprintf(c.out, "Removed %d checked items, %d left.\n", len(ids), len(d.Uncompleted))
			return nil
		},
	}
}
