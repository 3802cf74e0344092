package gateway

import (
	"encoding/json"

	"edgectl/internal/channelstatus"
)

// Runtime is the gateway's live statistics for a channel.
type Runtime struct {
	State        int `json:"state"`
	FailCount    int `json:"fail_count"`
	SuccessCount int `json:"success_count"`
}

// Channel is one acquisition channel as served by GET /api/channels.
type Channel struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Protocol string            `json:"protocol"`
	Enable   bool              `json:"enable"`
	Status   string            `json:"status,omitempty"`
	Devices  []json.RawMessage `json:"devices"`
	Runtime  *Runtime          `json:"runtime,omitempty"`
}

// Health reconciles the reported status with the runtime state.
func (c Channel) Health() channelstatus.Status {
	var state *int
	if c.Runtime != nil {
		state = &c.Runtime.State
	}
	return channelstatus.Normalize(c.Status, state)
}
