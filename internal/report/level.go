package report

import (
	"fmt"
	"strings"
)

// Level controls how much of the walk is narrated on stderr.
type Level uint8

const (
	// LevelQuiet prints nothing but the final result and fatal errors.
	LevelQuiet Level = iota
	// LevelInfo prints one line per trial with its outcome.
	LevelInfo
	// LevelDebug adds predicate command enumeration and compiler queries.
	LevelDebug
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelQuiet:
		return "quiet"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "quiet":
		return LevelQuiet, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelQuiet, fmt.Errorf("invalid verbosity: %q (expected: quiet|info|debug)", s)
	}
}
