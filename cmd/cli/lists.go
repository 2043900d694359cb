package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/and161185/grocerylist/internal/client/state"
	"github.com/and161185/grocerylist/internal/errs"
	"github.com/and161185/grocerylist/internal/model"
)

var errAborted = &cliError{msg: "Aborted."}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, &cliError{msg: fmt.Sprintf("Invalid %s id %q.", what, s), err: errs.ErrValidation}
	}
	return id, nil
}

func (c *cli) listsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Show your grocery lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			var h state.Home
			h.BeginLoad()
			lists, err := c.client.Lists(cmd.Context())
			if err != nil {
				return c.fail(err, state.MsgListsFailed)
			}
			h.ListsLoaded(lists)
			if c.asJSON {
				return c.printJSON(h.Lists)
			}
			if len(h.Lists) == 0 {
				fmt.Fprintln(c.out, "No lists yet. Create one with `gl list create <name>`.")
				return nil
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, l := range h.Lists {
				fmt.Fprintf(tw, "%d\t%s\n", l.ID, l.Name)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Create, rename or delete a grocery list",
	}
	cmd.AddCommand(c.listCreateCmd(), c.listRenameCmd(), c.listRmCmd())
	return cmd
}

func (c *cli) listCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			var sb state.Sidebar
			name, err := sb.PrepareCreate(strings.Join(args, " "))
			if err != nil {
				return &cliError{msg: sb.Err, err: err}
			}
			l, err := c.client.CreateList(cmd.Context(), name)
			if err != nil {
				return c.fail(err, state.MsgListCreateFailed)
			}
			if c.asJSON {
				return c.printJSON(l)
			}
			fmt.Fprintf(c.out, "Created list %q (id %d).\n", l.Name, l.ID)
			return nil
		},
	}
}

func (c *cli) listRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <listID> <name>",
		Short: "Rename a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			id, err := parseID(args[0], "list")
			if err != nil {
				return err
			}
			var sb state.Sidebar
			name, err := sb.PrepareCreate(strings.Join(args[1:], " "))
			if err != nil {
				return &cliError{msg: sb.Err, err: err}
			}
			l, err := c.client.RenameList(cmd.Context(), id, name)
			if err != nil {
				return c.fail(err, state.MsgListRenameFailed)
			}
			if c.asJSON {
				return c.printJSON(l)
			}
			fmt.Fprintf(c.out, "Renamed list %d to %q.\n", l.ID, l.Name)
			return nil
		},
	}
}

func (c *cli) listRmCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <listID>",
		Short: "Delete a list and all its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			id, err := parseID(args[0], "list")
			if err != nil {
				return err
			}
			lists, err := c.client.Lists(cmd.Context())
			if err != nil {
				return c.fail(err, state.MsgListsFailed)
			}
			h := state.Home{Lists: lists}
			if !h.Select(id) {
				return &cliError{msg: "List not found.", err: errs.ErrNotFound}
			}
			l, _ := h.Selected()

			var sb state.Sidebar
			sb.RequestDelete(l)
			if !yes {
				if !c.confirm(fmt.Sprintf("Delete list %q and all its items?", l.Name)) {
					sb.CancelDelete()
					return errAborted
				}
			}
			id, _ = sb.ConfirmDelete()
			if err := c.client.DeleteList(cmd.Context(), id); err != nil {
				return c.fail(err, state.MsgListDeleteFailed)
			}
			fmt.Fprintf(c.out, "Deleted list %q.\n", l.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm asks a yes/no question on stdin. Anything but y/yes, including
// end of input, is a no.
func (c *cli) confirm(question string) bool {
	var answer string
	if err := c.prompter().fill(&answer, question+" [y/N]"); err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func printItems(c *cli, l model.GroceryList, d *state.Detail) error {
	if c.asJSON {
		return c.printJSON(map[string]any{
			"list":        l,
			"uncompleted": d.Uncompleted,
			"completed":   d.Completed,
		})
	}
	if l.Name != "" {
		fmt.Fprintf(c.out, "%s\n", l.Name)
	}
	if len(d.Uncompleted)+len(d.Completed) == 0 {
		fmt.Fprintln(c.out, "  No items.")
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, it := range d.Items() {
		box := "[ ]"
		if it.Completed {
			box = "[x]"
		}
		fmt.Fprintf(tw, "  %s\t%d\t%s\t×%d\n", box, it.ID, it.Name, it.Quantity)
	}
	return tw.Flush()
}
