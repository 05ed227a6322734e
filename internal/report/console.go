// Package report narrates regression trials on a console.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"ccregress/internal/regress"
)

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	flagColor = color.New(color.FgCyan)
)

// Console writes one human-readable line per trial outcome.
type Console struct {
	Out   io.Writer
	Level Level
	// NoColor disables ANSI styling regardless of terminal detection.
	NoColor bool
}

// OnTrial implements regress.Observer.
func (c *Console) OnTrial(t regress.Trial) {
	if c.Level < LevelInfo {
		return
	}
	switch t.Status {
	case regress.StatusTesting:
		if c.Level >= LevelDebug {
			fmt.Fprintf(c.Out, "trial %d/%d: %s %q => %q\n",
				t.Index, t.Total, c.flag(t.Flag), t.Old, t.New)
		}
	case regress.StatusPass:
		fmt.Fprintf(c.Out, "%s %s %q => %q (%.1fs)\n",
			c.pass("PASS"), c.flag(t.Flag), t.Old, t.New, t.Elapsed.Seconds())
	case regress.StatusFail:
		fmt.Fprintf(c.Out, "%s %s %q => %q (%.1fs)\n",
			c.fail("FAIL"), c.flag(t.Flag), t.Old, t.New, t.Elapsed.Seconds())
		for _, line := range outputLines(t.Output) {
			fmt.Fprintf(c.Out, "\t%s\n", line)
		}
	}
}

// Debugf prints a debug-level line; used as the predicate trace hook.
func (c *Console) Debugf(format string, args ...any) {
	if c.Level < LevelDebug {
		return
	}
	fmt.Fprintf(c.Out, format+"\n", args...)
}

func (c *Console) pass(s string) string {
	if c.NoColor {
		return s
	}
	return passColor.Sprint(s)
}

func (c *Console) fail(s string) string {
	if c.NoColor {
		return s
	}
	return failColor.Sprint(s)
}

func (c *Console) flag(s string) string {
	if c.NoColor {
		return s
	}
	return flagColor.Sprint(s)
}

func outputLines(out []byte) []string {
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}
