package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ccregress/internal/optset"
	"ccregress/internal/shellwords"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show the optimizer flags that differ between two option strings",
	Long: `Resolve the optimizer state for both option strings and print every
flag whose resolved value differs, in the end set's reporting order — the
same order the regress command would test them in.`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringP("begin", "b", "", "first option string")
	diffCmd.Flags().StringP("end", "e", "", "second option string")
	diffCmd.Flags().StringP("compiler", "c", "gcc", "compiler to query")

	must(diffCmd.MarkFlagRequired("begin"))
	must(diffCmd.MarkFlagRequired("end"))
}

func runDiff(cmd *cobra.Command, args []string) error {
	begin, err := cmd.Flags().GetString("begin")
	if err != nil {
		return fmt.Errorf("failed to get begin flag: %w", err)
	}
	end, err := cmd.Flags().GetString("end")
	if err != nil {
		return fmt.Errorf("failed to get end flag: %w", err)
	}
	compiler, err := cmd.Flags().GetString("compiler")
	if err != nil {
		return fmt.Errorf("failed to get compiler flag: %w", err)
	}
	noColor, err := readColorMode(cmd)
	if err != nil {
		return err
	}

	beginArgs, err := shellwords.Split(begin)
	if err != nil {
		return fmt.Errorf("--begin: %w", err)
	}
	endArgs, err := shellwords.Split(end)
	if err != nil {
		return fmt.Errorf("--end: %w", err)
	}

	// The two queries are independent resolutions, not part of a walk.
	var base, reach *optset.Set
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		base, err = optset.FromArgs(ctx, beginArgs, compiler)
		return err
	})
	g.Go(func() error {
		var err error
		reach, err = optset.FromArgs(ctx, endArgs, compiler)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	diff, err := base.Diff(reach)
	if err != nil {
		return err
	}

	arrow := color.New(color.FgYellow)
	name := color.New(color.FgCyan)
	if noColor {
		arrow.DisableColor()
		name.DisableColor()
	}
	for _, e := range diff {
		old, _ := base.Lookup(e.Name)
		fmt.Fprintf(os.Stdout, "%s %q %s %q\n",
			name.Sprint(e.Name), old, arrow.Sprint("=>"), e.State)
	}
	return nil
}
