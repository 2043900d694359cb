package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/and161185/grocerylist/internal/client/api"
	"github.com/and161185/grocerylist/internal/client/session"
	"github.com/and161185/grocerylist/internal/client/tui"
)

func (c *cli) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The terminal belongs to the UI, so logs go to a file.
			if err := os.MkdirAll(c.cfg.Dir, 0o700); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}
			log, err := newLogger(c.cfg.LogLevel, c.verbose, c.cfg.LogPath())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			client, err := api.New(c.cfg.APIURL, c.tokens, api.WithLogger(log))
			if err != nil {
				return err
			}
			log.Info("tui start", zap.String("api", client.BaseURL()))
			sess := session.New(client, c.tokens, log)
			return tui.Run(cmd.Context(), sess, client, log)
		},
	}
}
