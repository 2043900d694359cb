// Command gl is a command-line and terminal UI client for the grocery list
// service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/and161185/grocerylist/internal/client/api"
	"github.com/and161185/grocerylist/internal/client/config"
	"github.com/and161185/grocerylist/internal/client/tokenstore"
	"github.com/and161185/grocerylist/internal/errs"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// MsgSessionExpired is printed when the server rejects the stored token.
const MsgSessionExpired = "Your session has expired. Run `gl login` to sign in again."

// cli carries the resolved global state shared by every subcommand.
type cli struct {
	apiURL    string
	configDir string
	verbose   bool
	asJSON    bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	log    *zap.Logger
	tokens tokenstore.Store
	client *api.Client
}

// cliError is an error whose message is meant for the user as is.
type cliError struct {
	msg string
	err error
}

func (e *cliError) Error() string { return e.msg }
func (e *cliError) Unwrap() error { return e.err }

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: in, out: out, errOut: errOut}
	root := &cobra.Command{
		Use:           "gl",
		Short:         "Grocery list client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
	}
	root.PersistentFlags().StringVar(&c.apiURL, "api", "", "backend base URL (env "+config.EnvAPIURL+")")
	root.PersistentFlags().StringVar(&c.configDir, "config-dir", "", "config directory (env "+config.EnvConfigDir+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging to stderr")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		c.versionCmd(),
		c.configCmd(),
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.listsCmd(),
		c.listCmd(),
		c.itemsCmd(),
		c.itemCmd(),
		c.overviewCmd(),
		c.tuiCmd(),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := config.Load(config.Overrides{APIURL: c.apiURL, Dir: c.configDir})
	if err != nil {
		return err
	}
	c.cfg = cfg
	if c.log == nil {
		c.log, err = newLogger(cfg.LogLevel, c.verbose, "stderr")
		if err != nil {
			return err
		}
	}
	c.tokens = tokenstore.NewFileStore(cfg.Dir)
	c.client, err = api.New(cfg.APIURL, c.tokens, api.WithLogger(c.log))
	if err != nil {
		return fmt.Errorf("api url %q: %w", cfg.APIURL, err)
	}
	return nil
}

func newLogger(level string, verbose bool, path string) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.WarnLevel
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	zc.DisableStacktrace = true
	return zc.Build()
}

// requireLogin fails early when no token is stored.
func (c *cli) requireLogin() error {
	if _, ok, err := c.tokens.Read(); err != nil || !ok {
		return &cliError{msg: "Not signed in. Run `gl login` first.", err: errs.ErrUnauthorized}
	}
	return nil
}

// fail turns an API error into the message shown to the user. A rejected
// token is forgotten.
func (c *cli) fail(err error, fallback string) error {
	if errors.Is(err, errs.ErrUnauthorized) {
		if cerr := c.tokens.Clear(); cerr != nil {
			c.log.Warn("clear token", zap.Error(cerr))
		}
		return &cliError{msg: MsgSessionExpired, err: err}
	}
	c.log.Debug("command failed", zap.Error(err))
	return &cliError{msg: api.Describe(err, fallback), err: err}
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(c.out, "gl %s (%s)\n", version, buildDate)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
