// Package logs reads edgectl's own log file for the "edgectl logs" command.
//
// Last returns the trailing lines with bounded memory, Follow polls for lines
// appended afterwards, and LevelOf recovers the level of a line written by
// either the console or the JSON handler so callers can filter by severity.
package logs
