package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"edgectl/internal/channelstatus"
	"edgectl/internal/gateway"
)

type channelRow struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Protocol     string               `json:"protocol"`
	Enabled      bool                 `json:"enabled"`
	Devices      int                  `json:"devices"`
	Status       channelstatus.Status `json:"status"`
	Canonical    channelstatus.Status `json:"canonical,omitempty"`
	Label        string               `json:"label"`
	Color        channelstatus.Color  `json:"color"`
	RGB          []int                `json:"rgb,omitempty"`
	FailCount    int                  `json:"fail_count"`
	SuccessCount int                  `json:"success_count"`
}

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "channels",
		Short:       "List acquisition channels and their health",
		Annotations: routed("/channels"),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.ensureRuntime(cmd)
			if err != nil {
				return err
			}
			channels, err := rt.client.Channels(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([]channelRow, 0, len(channels))
			for _, ch := range channels {
				rows = append(rows, newChannelRow(ch, rt))
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, rows)
			}

			colored := colorEnabled(cmd.OutOrStdout())
			table := make([][]string, 0, len(rows))
			for _, row := range rows {
				label := row.Label
				if colored {
					label = channelstatus.TerminalColors(row.Status).Sprint(label)
				}
				table = append(table, []string{
					row.ID,
					row.Name,
					row.Protocol,
					yesNo(row.Enabled),
					strconv.Itoa(row.Devices),
					label,
					fmt.Sprintf("%d/%d", row.SuccessCount, row.FailCount),
				})
			}
			headers := []string{"ID", "Name", "Protocol", "Enabled", "Devices", "Status", "OK/Fail"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(rt.router.Title(), headers, table, aligns))
			return nil
		},
	}
}

func newChannelRow(ch gateway.Channel, rt *runtime) channelRow {
	status := ch.Health()
	row := channelRow{
		ID:       ch.ID,
		Name:     ch.Name,
		Protocol: ch.Protocol,
		Enabled:  ch.Enable,
		Devices:  len(ch.Devices),
		Status:   status,
		Label:    channelstatus.LabelOf(status, rt.lang),
		Color:    channelstatus.ColorOf(status),
	}
	if canonical, ok := channelstatus.Canonical(status); ok {
		row.Canonical = canonical
	}
	if r, g, b, ok := row.Color.RGB(); ok {
		row.RGB = []int{int(r), int(g), int(b)}
	}
	if ch.Runtime != nil {
		row.FailCount = ch.Runtime.FailCount
		row.SuccessCount = ch.Runtime.SuccessCount
	}
	return row
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
