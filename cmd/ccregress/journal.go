package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ccregress/internal/journal"
	"ccregress/internal/regress"
)

var journalCmd = &cobra.Command{
	Use:   "journal <file>",
	Short: "Replay a saved trial journal",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournal,
}

func init() {
	journalCmd.Flags().Bool("output", false, "include captured predicate output for failed trials")
}

func runJournal(cmd *cobra.Command, args []string) error {
	showOutput, err := cmd.Flags().GetBool("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	noColor, err := readColorMode(cmd)
	if err != nil {
		return err
	}

	records, err := journal.Read(args[0])
	if err != nil {
		return err
	}

	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	if noColor {
		pass.DisableColor()
		fail.DisableColor()
	}

	for _, rec := range records {
		outcome := pass.Sprint("PASS")
		if rec.Outcome == string(regress.StatusFail) {
			outcome = fail.Sprint("FAIL")
		}
		fmt.Fprintf(os.Stdout, "%s %3d/%d %s %s %q => %q (%.1fs)\n",
			rec.When.Format("2006-01-02 15:04:05"),
			rec.Index, rec.Total, outcome, rec.Flag, rec.Old, rec.New,
			rec.Elapsed.Seconds())
		if showOutput && len(rec.Output) > 0 {
			for _, line := range strings.Split(strings.TrimSpace(string(rec.Output)), "\n") {
				fmt.Fprintf(os.Stdout, "\t%s\n", line)
			}
		}
	}
	return nil
}
