package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"edgectl/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	var severity string

	cmd := &cobra.Command{
		Use:   "test-notify [MESSAGE]",
		Short: "Send a test notification through the configured notifiers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime(cmd)
			if err != nil {
				return err
			}
			message := "edgectl notification test"
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				message = args[0]
			}
			sev := notifications.Severity(strings.ToLower(strings.TrimSpace(severity)))
			switch sev {
			case notifications.SeverityInfo, notifications.SeveritySuccess, notifications.SeverityWarning, notifications.SeverityError:
			default:
				return fmt.Errorf("unknown severity %q", severity)
			}
			if err := rt.notifier.Publish(cmd.Context(), message, sev); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&severity, "severity", string(notifications.SeverityInfo), "info, success, warning, or error")
	return cmd
}
