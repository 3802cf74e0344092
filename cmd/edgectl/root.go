package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"edgectl/internal/guard"
	"edgectl/internal/i18n"
)

const routeAnnotation = "edgectl/route"

func newRootCommand() *cobra.Command {
	var configFlag string
	var langFlag string
	var jsonFlag bool

	ctx := newCommandContext(&configFlag, &langFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "edgectl",
		Short:         "Industrial edge gateway console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			route, ok := routeOf(cmd)
			if !ok {
				return nil
			}
			return ctx.enterRoute(cmd, route)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "Display language (zh-CN or en-US)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of tables")

	rootCmd.AddCommand(newLoginCommand(ctx))
	rootCmd.AddCommand(newLogoutCommand(ctx))
	rootCmd.AddCommand(newWhoamiCommand(ctx))
	rootCmd.AddCommand(newSystemCommand(ctx))
	rootCmd.AddCommand(newPasswdCommand(ctx))
	rootCmd.AddCommand(newChannelsCommand(ctx))
	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newTestNotifyCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

// enterRoute runs the route guard for the command's view.
func (c *commandContext) enterRoute(cmd *cobra.Command, route string) error {
	rt, err := c.ensureRuntime(cmd)
	if err != nil {
		return err
	}
	if _, err := rt.router.Enter(route); err != nil {
		if errors.Is(err, guard.ErrLoginRequired) {
			return fmt.Errorf("%w: %s (edgectl login)", guard.ErrLoginRequired, i18n.T(rt.lang, i18n.MsgLoginRequired))
		}
		return err
	}
	return nil
}

// routeOf returns the nearest route annotation on cmd or its parents.
func routeOf(cmd *cobra.Command) (string, bool) {
	for c := cmd; c != nil; c = c.Parent() {
		if route, ok := c.Annotations[routeAnnotation]; ok {
			return route, true
		}
	}
	return "", false
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func routed(path string) map[string]string {
	return map[string]string{routeAnnotation: path}
}
