package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"edgectl/internal/logging"
	"edgectl/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var level string

	cmd := &cobra.Command{
		Use:         "logs",
		Short:       "Show edgectl's own log file",
		Annotations: routed("/logs"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime(cmd)
			if err != nil {
				return err
			}
			if strings.TrimSpace(rt.cfg.Logging.Dir) == "" {
				return errors.New("file logging is disabled; set logging.dir in the config file")
			}
			minLevel := slog.LevelDebug
			if strings.TrimSpace(level) != "" {
				parsed, ok := logs.ParseLevel(level)
				if !ok {
					return fmt.Errorf("unknown level %q", level)
				}
				minLevel = parsed
			}

			path := filepath.Join(rt.cfg.Logging.Dir, logging.LogFileName)
			tail, offset, err := logs.Last(path, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			emit := func(line string) {
				if logs.AtLeast(line, minLevel) {
					fmt.Fprintln(out, line)
				}
			}
			if !ctx.jsonOutput() {
				for _, header := range renderSectionHeader(rt.router.Title(), colorEnabled(out)) {
					fmt.Fprintln(out, header)
				}
			}
			for _, line := range tail {
				emit(line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, logs.DefaultPoll, emit)
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing lines as they are written")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level to show (debug, info, warn, error)")
	return cmd
}
