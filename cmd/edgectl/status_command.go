package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"edgectl/internal/preflight"
)

type statusOutput struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Advisory bool   `json:"advisory,omitempty"`
	Detail   string `json:"detail"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check gateway reachability, local paths, and the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime(cmd)
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), rt.cfg, newHTTPClient(rt.cfg), rt.store)

			if ctx.jsonOutput() {
				out := make([]statusOutput, 0, len(results))
				for _, r := range results {
					out = append(out, statusOutput{Name: r.Name, Passed: r.Passed, Advisory: r.Advisory, Detail: r.Detail})
				}
				if err := writeJSON(cmd, out); err != nil {
					return err
				}
			} else {
				stdout := cmd.OutOrStdout()
				colorize := colorEnabled(stdout)
				for _, line := range renderSectionHeader("edgectl", colorize) {
					fmt.Fprintln(stdout, line)
				}
				for _, r := range results {
					fmt.Fprintln(stdout, renderStatusLine(r.Name, statusKindOf(r), r.Detail, colorize))
				}
			}
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
