package channelstatus

import (
	"fmt"
	"strings"

	"edgectl/internal/i18n"
)

// Status is a channel health value. Backend-reported strings pass through
// unchanged, so values outside the canonical set are possible.
type Status string

const (
	Excellent Status = "Excellent"
	Good      Status = "Good"
	Fair      Status = "Fair"
	Poor      Status = "Poor"
	Offline   Status = "Offline"
	Unknown   Status = "Unknown"
)

// Runtime node states reported by the gateway scheduler.
const (
	RuntimeOnline     = 0
	RuntimeUnstable   = 1
	RuntimeOffline    = 2
	RuntimeQuarantine = 3
)

// Normalize picks the status to display. A non-empty backend status is
// authoritative and returned as-is; otherwise the runtime state is mapped
// through the fixed fallback table.
func Normalize(status string, runtimeState *int) Status {
	if status != "" {
		return Status(status)
	}
	if runtimeState == nil {
		return Unknown
	}
	switch *runtimeState {
	case RuntimeOnline:
		return Excellent
	case RuntimeUnstable:
		return Good
	case RuntimeOffline:
		return Offline
	case RuntimeQuarantine:
		return Poor
	default:
		return Unknown
	}
}

// Canonical reports whether s is one of the known status values, ignoring case.
func Canonical(s Status) (Status, bool) {
	switch strings.ToLower(string(s)) {
	case "excellent":
		return Excellent, true
	case "good":
		return Good, true
	case "fair":
		return Fair, true
	case "poor":
		return Poor, true
	case "offline":
		return Offline, true
	case "unknown":
		return Unknown, true
	default:
		return s, false
	}
}

var labelKeys = map[string]i18n.Key{
	"excellent": i18n.StatusExcellent,
	"good":      i18n.StatusGood,
	"fair":      i18n.StatusFair,
	"poor":      i18n.StatusPoor,
	"offline":   i18n.StatusOffline,
	"unknown":   i18n.StatusUnknown,
}

// LabelOf renders "<localized> (<raw>)". Unrecognised values use the localized
// unknown label with the raw text; an empty status shows the literal Unknown.
func LabelOf(status Status, lang i18n.Lang) string {
	key, ok := labelKeys[strings.ToLower(string(status))]
	if !ok {
		key = i18n.StatusUnknown
	}
	raw := string(status)
	if raw == "" {
		raw = string(Unknown)
	}
	return fmt.Sprintf("%s (%s)", i18n.T(lang, key), raw)
}
