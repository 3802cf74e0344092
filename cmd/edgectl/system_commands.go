package main

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"edgectl/internal/i18n"
	"edgectl/internal/notifications"
)

func newSystemCommand(ctx *commandContext) *cobra.Command {
	systemCmd := &cobra.Command{
		Use:         "system",
		Short:       "Gateway system information and control",
		Annotations: routed("/system"),
	}
	systemCmd.AddCommand(newSystemInfoCommand(ctx))
	systemCmd.AddCommand(newSystemRestartCommand(ctx))
	return systemCmd
}

func newSystemInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the gateway name and software version",
		// Shown on the login page, so no session is needed.
		Annotations: routed("/login"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime(cmd)
			if err != nil {
				return err
			}
			info, err := rt.client.SystemInfo(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, info)
			}
			rows := [][]string{
				{"Name", info.Name},
				{"Software", info.SoftVer},
				{"Gateway", rt.cfg.Gateway.BaseURL},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("", nil, rows, nil))
			return nil
		},
	}
}

func newSystemRestartCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the gateway process",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errors.New("refusing to restart without --yes")
			}
			rt, err := ctx.ensureRuntime(cmd)
			if err != nil {
				return err
			}
			message, err := rt.client.RestartSystem(cmd.Context())
			if err != nil {
				return err
			}
			if message == "" {
				message = i18n.T(rt.lang, i18n.MsgRestartRequested)
			}
			return rt.notifier.Publish(cmd.Context(), message, notifications.SeverityWarning)
		},
	}
	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "Confirm the restart")
	return cmd
}

func newPasswdCommand(ctx *commandContext) *cobra.Command {
	var oldPassword string
	var newPassword string
	var fromStdin bool

	cmd := &cobra.Command{
		Use:         "passwd",
		Short:       "Change the logged-in user's password",
		Annotations: routed("/system"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime(cmd)
			if err != nil {
				return err
			}
			if fromStdin {
				// First line is the current password, second the new one.
				reader := bufio.NewReader(cmd.InOrStdin())
				if oldPassword, err = readLine(reader); err != nil {
					return fmt.Errorf("read current password: %w", err)
				}
				if newPassword, err = readLine(reader); err != nil {
					return fmt.Errorf("read new password: %w", err)
				}
			}
			if oldPassword == "" || newPassword == "" {
				return errors.New("both the current and the new password are required")
			}
			message, err := rt.client.ChangePassword(cmd.Context(), oldPassword, newPassword)
			if err != nil {
				return err
			}
			if message == "" {
				message = i18n.T(rt.lang, i18n.MsgPasswordChanged)
			}
			return rt.notifier.Publish(cmd.Context(), message, notifications.SeveritySuccess)
		},
	}
	cmd.Flags().StringVar(&oldPassword, "old", "", "Current password")
	cmd.Flags().StringVar(&newPassword, "new", "", "New password")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read current and new password from two stdin lines")
	return cmd
}
