package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/and161185/grocerylist/internal/client/api"
	"github.com/and161185/grocerylist/internal/client/config"
	"github.com/and161185/grocerylist/internal/client/tokenstore"
)

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change client settings",
		// No api client here: a bad api_url in the file must stay repairable.
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load(config.Overrides{APIURL: c.apiURL, Dir: c.configDir})
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the resolved settings",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				store := tokenstore.NewFileStore(c.cfg.Dir)
				if c.asJSON {
					return c.printJSON(map[string]string{
						"api_url":    c.cfg.APIURL,
						"log_level":  c.cfg.LogLevel,
						"config_dir": c.cfg.Dir,
						"token_file": store.Path(),
					})
				}
				fmt.Fprintf(c.out, "api_url:    %s\n", c.cfg.APIURL)
				fmt.Fprintf(c.out, "log_level:  %s\n", c.cfg.LogLevel)
				fmt.Fprintf(c.out, "config_dir: %s\n", c.cfg.Dir)
				fmt.Fprintf(c.out, "token_file: %s\n", store.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <api_url|log_level> <value>",
			Short: "Persist a setting to " + config.FileName,
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				file, err := config.LoadFile(c.cfg.Dir)
				if err != nil {
					return err
				}
				val := strings.TrimSpace(args[1])
				switch args[0] {
				case "api_url":
					if _, err := api.ParseBaseURL(val); err != nil {
						return &cliError{msg: fmt.Sprintf("Invalid api_url %q: must be an absolute http(s) URL.", val), err: err}
					}
					file.APIURL = val
				case "log_level":
					if _, err := zapcore.ParseLevel(val); err != nil {
						return &cliError{msg: fmt.Sprintf("Invalid log_level %q: use debug, info, warn or error.", val), err: err}
					}
					file.LogLevel = val
				default:
					return &cliError{msg: fmt.Sprintf("Unknown setting %q.", args[0])}
				}
				if err := file.Save(); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Saved %s.\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
