package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ccregress/internal/optset"
	"ccregress/internal/shellwords"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every optimizer flag the compiler resolves for an option string",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringP("options", "o", "", "option string to resolve (e.g. '-O2 -march=native')")
	showCmd.Flags().StringP("compiler", "c", "gcc", "compiler to query")
	showCmd.Flags().String("only", "", "filter by state (enabled|disabled|valued|default)")
}

func runShow(cmd *cobra.Command, args []string) error {
	options, err := cmd.Flags().GetString("options")
	if err != nil {
		return fmt.Errorf("failed to get options flag: %w", err)
	}
	compiler, err := cmd.Flags().GetString("compiler")
	if err != nil {
		return fmt.Errorf("failed to get compiler flag: %w", err)
	}
	only, err := cmd.Flags().GetString("only")
	if err != nil {
		return fmt.Errorf("failed to get only flag: %w", err)
	}
	keep, err := stateFilter(only)
	if err != nil {
		return err
	}
	noColor, err := readColorMode(cmd)
	if err != nil {
		return err
	}

	baseArgs, err := shellwords.Split(options)
	if err != nil {
		return fmt.Errorf("--options: %w", err)
	}
	set, err := optset.FromArgs(cmd.Context(), baseArgs, compiler)
	if err != nil {
		return err
	}

	name := color.New(color.FgCyan)
	if noColor {
		name.DisableColor()
	}
	for _, e := range set.Entries() {
		if !keep(e.State) {
			continue
		}
		fmt.Fprintf(os.Stdout, "%-44s %s\n", name.Sprint(e.Name), e.State)
	}
	return nil
}

func stateFilter(only string) (func(optset.State) bool, error) {
	switch only {
	case "":
		return func(optset.State) bool { return true }, nil
	case "enabled":
		return func(s optset.State) bool { return s == optset.StateEnabled }, nil
	case "disabled":
		return func(s optset.State) bool { return s == optset.StateDisabled }, nil
	case "default":
		return func(s optset.State) bool { return s == optset.StateDefault }, nil
	case "valued":
		return func(s optset.State) bool { return s.IsValued() }, nil
	default:
		return nil, fmt.Errorf("invalid --only value %q (expected enabled|disabled|valued|default)", only)
	}
}
