package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"edgectl/internal/i18n"
	"edgectl/internal/logging"
	"edgectl/internal/notifications"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var username string
	var password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Log in to the gateway and store the session",
		Annotations: routed("/login"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime(cmd)
			if err != nil {
				return err
			}
			username = strings.TrimSpace(username)
			if username == "" {
				return errors.New("--username is required")
			}
			if passwordStdin {
				password, err = readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
			}
			if password == "" {
				return errors.New("a password is required (--password or --password-stdin)")
			}

			info, err := rt.client.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if _, err := rt.router.Enter("/"); err != nil {
				return err
			}
			message := fmt.Sprintf("%s: %s", i18n.T(rt.lang, i18n.MsgLoggedIn), info.Username)
			return rt.notifier.Publish(cmd.Context(), message, notifications.SeveritySuccess)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the gateway session and remove stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime(cmd)
			if err != nil {
				return err
			}
			// The local session is cleared even if the gateway call fails.
			if err := rt.client.Logout(cmd.Context()); err != nil {
				rt.logger.Warn("gateway logout failed", logging.Error(err))
			}
			rt.router.Redirect(rt.cfg.Session.LoginPath)
			return rt.notifier.Publish(cmd.Context(), i18n.T(rt.lang, i18n.MsgLoggedOut), notifications.SeveritySuccess)
		},
	}
}

type whoamiOutput struct {
	Username    string     `json:"username"`
	Permissions []string   `json:"permissions"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	SessionFile string     `json:"session_file"`
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "whoami",
		Short:       "Show the stored session",
		Annotations: routed("/"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime(cmd)
			if err != nil {
				return err
			}
			info, ok := rt.store.Load()
			if !ok {
				return errors.New(i18n.T(rt.lang, i18n.MsgLoginRequired))
			}
			out := whoamiOutput{
				Username:    info.Username,
				Permissions: info.Permissions,
				SessionFile: rt.store.Path(),
			}
			if exp, ok := info.ExpiresAt(); ok {
				out.ExpiresAt = &exp
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, out)
			}

			expires := "unknown"
			if out.ExpiresAt != nil {
				expires = fmt.Sprintf("%s (%s)", out.ExpiresAt.Local().Format(time.DateTime), humanize.Time(*out.ExpiresAt))
			}
			rows := [][]string{
				{"Username", out.Username},
				{"Permissions", strings.Join(out.Permissions, ", ")},
				{"Expires", expires},
				{"Session file", out.SessionFile},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(i18n.T(rt.lang, i18n.TitleSessionOverview), nil, rows, nil))
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
