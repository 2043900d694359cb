package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/and161185/grocerylist/internal/client/session"
	"github.com/and161185/grocerylist/internal/client/tokenstore"
)

// prompter reads missing form fields from stdin, one line each.
type prompter struct {
	c  *cli
	rd *bufio.Reader
}

func (c *cli) prompter() *prompter { return &prompter{c: c, rd: bufio.NewReader(c.in)} }

func (p *prompter) fill(dst *string, label string) error {
	if *dst != "" {
		return nil
	}
	fmt.Fprintf(p.c.errOut, "%s: ", label)
	line, err := p.rd.ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	*dst = strings.TrimRight(line, "\r\n")
	return nil
}

func (c *cli) session() *session.Session { return session.New(c.client, c.tokens, c.log) }

func (c *cli) registerCmd() *cobra.Command {
	var f session.RegisterForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (does not sign in)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := c.prompter()
			for _, step := range []struct {
				dst   *string
				label string
			}{
				{&f.Username, "Username"},
				{&f.Email, "Email"},
				{&f.Password, "Password"},
				{&f.ConfirmPassword, "Confirm password"},
			} {
				if err := p.fill(step.dst, step.label); err != nil {
					return err
				}
			}
			if err := c.session().Register(cmd.Context(), f); err != nil {
				return &cliError{msg: session.RegisterMessage(err), err: err}
			}
			fmt.Fprintln(c.out, session.MsgRegistered)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Username, "username", "u", "", "username (3-20 characters)")
	cmd.Flags().StringVarP(&f.Email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&f.Password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&f.ConfirmPassword, "confirm", "", "password confirmation (prompted when omitted)")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var f session.LoginForm
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := c.prompter()
			if err := p.fill(&f.Email, "Email"); err != nil {
				return err
			}
			if err := p.fill(&f.Password, "Password"); err != nil {
				return err
			}
			if _, err := c.session().Login(cmd.Context(), f); err != nil {
				return &cliError{msg: session.LoginMessage(err), err: err}
			}
			fmt.Fprintln(c.out, "Signed in.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&f.Password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := c.session().Logout(); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Signed out.")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireLogin(); err != nil {
				return err
			}
			if local {
				tok, _, _ := c.tokens.Read()
				cl, err := tokenstore.Inspect(tok)
				if err != nil {
					return &cliError{msg: "Stored token is unreadable. Run `gl login` again.", err: err}
				}
				if c.asJSON {
					return c.printJSON(cl)
				}
				fmt.Fprintf(c.out, "%s (id %s)\n", cl.Username, cl.Subject)
				if !cl.ExpiresAt.IsZero() {
					fmt.Fprintf(c.out, "token expires %s\n", cl.ExpiresAt.Local().Format(time.RFC1123))
				}
				return nil
			}
			u, err := c.client.Me(cmd.Context())
			if err != nil {
				return c.fail(err, "Failed to load the current user.")
			}
			if c.asJSON {
				return c.printJSON(u)
			}
			fmt.Fprintf(c.out, "%s <%s> (id %d)\n", u.Username, u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "decode the stored token without calling the server")
	return cmd
}
