package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ccregress/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ccregress",
	Short: "Compiler optimizer flag regression tool",
	Long: `ccregress resolves two compiler optimizer configurations, walks their
differences one flag at a time, and keeps each change only if a user-supplied
test predicate still passes. The surviving argument list is printed to stdout.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(regressCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("verbose", "quiet", "verbosity (quiet|info|debug)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
