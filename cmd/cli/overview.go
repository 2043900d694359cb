package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/and161185/grocerylist/internal/client/state"
	"github.com/and161185/grocerylist/internal/model"
)

// overviewParallelism bounds concurrent item fetches.
const overviewParallelism = 4

type listSummary struct {
	List      model.GroceryList `json:"list"`
	Total     int               `json:"total"`
	Completed int               `json:"completed"`
}

// summarize fetches every list's items concurrently and keeps list order.
func (c *cli) summarize(ctx context.Context, lists []model.GroceryList) ([]listSummary, error) {
	out := make([]listSummary, len(lists))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overviewParallelism)
	for i, l := range lists {
		g.Go(func() error {
			items, err := c.client.Items(gctx, l.ID)
			if err != nil {
				return err
			}
			done, _ := state.Partition(items)
			out[i] = listSummary{List: l, Total: len(items), Completed: len(done)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cli) overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show progress for every list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			lists, err := c.client.Lists(cmd.Context())
			if err != nil {
				return c.fail(err, state.MsgListsFailed)
			}
			sums, err := c.summarize(cmd.Context(), lists)
			if err != nil {
				return c.fail(err, state.MsgItemsFailed)
			}
			if c.asJSON {
				return c.printJSON(sums)
			}
			if len(sums) == 0 {
				fmt.Fprintln(c.out, "No lists yet.")
				return nil
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDONE")
			for _, s := range sums {
				fmt.Fprintf(tw, "%d\t%s\t%d/%d\n", s.List.ID, s.List.Name, s.Completed, s.Total)
			}
			return tw.Flush()
		},
	}
}
