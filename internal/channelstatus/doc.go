// Package channelstatus classifies collection channel health for display.
//
// The gateway may report an explicit status string per channel; when it does
// not, the numeric runtime node state (0 online, 1 unstable, 2 offline,
// 3 quarantine) is mapped onto the same vocabulary. The mapping is kept
// literal: quarantine shows as Poor and offline as Offline.
package channelstatus
