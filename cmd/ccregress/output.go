package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ccregress/internal/report"
)

func writeStdoutln(args ...any) error {
	_, err := fmt.Fprintln(os.Stdout, args...)
	return err
}

// readColorMode resolves the persistent --color flag to a concrete decision
// for the current stderr.
func readColorMode(cmd *cobra.Command) (noColor bool, err error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return !isTerminal(os.Stderr), nil
	case "on":
		return false, nil
	case "off":
		return true, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// newConsoleReporter builds the stderr trial reporter from the persistent
// flags.
func newConsoleReporter(cmd *cobra.Command) (*report.Console, error) {
	levelStr, err := cmd.Root().PersistentFlags().GetString("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	level, err := report.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	noColor, err := readColorMode(cmd)
	if err != nil {
		return nil, err
	}
	return &report.Console{Out: os.Stderr, Level: level, NoColor: noColor}, nil
}
