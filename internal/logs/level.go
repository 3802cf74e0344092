package logs

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// LevelOf extracts the level of a line written by edgectl's console handler
// ("<ts> LEVEL component: msg") or JSON handler ({"level":"info",...}).
func LevelOf(line string) (slog.Level, bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		var entry struct {
			Level string `json:"level"`
		}
		if err := json.Unmarshal([]byte(trimmed), &entry); err != nil {
			return 0, false
		}
		return parseLevel(entry.Level)
	}
	fields := strings.Fields(trimmed)
	if len(fields) < 2 {
		return 0, false
	}
	return parseLevel(fields[1])
}

// ParseLevel maps a level name such as "warn" or "ERROR" to its slog level.
func ParseLevel(name string) (slog.Level, bool) {
	return parseLevel(name)
}

func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// AtLeast reports whether line should be shown under a minimum level. Lines
// without a recognisable level, such as wrapped stack traces, are kept.
func AtLeast(line string, minLevel slog.Level) bool {
	level, ok := LevelOf(line)
	return !ok || level >= minLevel
}
