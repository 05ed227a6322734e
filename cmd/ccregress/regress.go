package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ccregress/internal/journal"
	"ccregress/internal/optset"
	"ccregress/internal/predicate"
	"ccregress/internal/regress"
	"ccregress/internal/shellwords"
)

var regressCmd = &cobra.Command{
	Use:   "regress",
	Short: "Walk optimizer flags from a known-good set toward a target set",
	Long: `Resolve the optimizer state for the --begin and --end option strings,
then try each differing flag one at a time in the end set's reporting order.
A change is kept only if the predicate still passes; rejected changes are
reverted and play no further role. The surviving argument list is printed
to stdout.

The predicate template is brace expanded and shell interpreted:
  'gcc {} -o test test.c ; ./test'
becomes one command per ';' segment, each of which must exit zero.`,
	RunE: runRegress,
}

func init() {
	regressCmd.Flags().StringP("begin", "b", "", "options beginning regression, should pass the predicate")
	regressCmd.Flags().StringP("end", "e", "", "options ending regression")
	regressCmd.Flags().StringP("compiler", "c", "", "compiler to query (default gcc)")
	regressCmd.Flags().StringP("predicate", "p", "", "predicate template; {} expands to the joined flags")
	regressCmd.Flags().StringP("arg-separator", "s", "", "separator for arguments supplied to the predicate (default \" \")")
	regressCmd.Flags().StringP("arg-format", "f", "", "format for each argument supplied to the predicate (default {})")
	regressCmd.Flags().DurationP("timeout", "t", 0, "timeout per predicate command (0 = none)")
	regressCmd.Flags().String("journal", "", "write trial outcomes to a journal file")
	regressCmd.Flags().String("ui", "auto", "live progress view (auto|on|off)")

	must(regressCmd.MarkFlagRequired("begin"))
	must(regressCmd.MarkFlagRequired("end"))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

type regressOptions struct {
	begin     string
	end       string
	compiler  string
	template  string
	separator string
	format    string
	timeout   time.Duration
	journal   string
	ui        uiMode
}

func runRegress(cmd *cobra.Command, args []string) error {
	opts, err := collectRegressOptions(cmd)
	if err != nil {
		return err
	}

	reporter, err := newConsoleReporter(cmd)
	if err != nil {
		return err
	}

	beginArgs, err := shellwords.Split(opts.begin)
	if err != nil {
		return fmt.Errorf("--begin: %w", err)
	}
	endArgs, err := shellwords.Split(opts.end)
	if err != nil {
		return fmt.Errorf("--end: %w", err)
	}

	ctx := cmd.Context()
	base, err := optset.FromArgs(ctx, beginArgs, opts.compiler)
	if err != nil {
		return err
	}
	reach, err := optset.FromArgs(ctx, endArgs, opts.compiler)
	if err != nil {
		return err
	}

	runner := &predicate.Runner{
		Template:  opts.template,
		Separator: opts.separator,
		Format:    opts.format,
		Timeout:   opts.timeout,
		Tracef:    reporter.Debugf,
	}

	observers := regress.MultiObserver{reporter}
	var journalSink *journal.TrialSink
	if opts.journal != "" {
		w, err := journal.Create(opts.journal)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := w.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "journal: close error: %v\n", closeErr)
			}
		}()
		journalSink = &journal.TrialSink{W: w}
		observers = append(observers, journalSink)
	}

	var working *optset.Set
	if shouldUseTUI(opts.ui) {
		working, err = runWalkWithUI(ctx, walkTitle(opts), base, reach, runner.Eval, observers)
	} else {
		working, err = regress.Run(ctx, base, reach, runner.Eval, observers)
	}
	if err != nil {
		return err
	}
	if journalSink != nil {
		if err := journalSink.Err(); err != nil {
			return err
		}
	}

	final, err := working.Flatten(ctx)
	if err != nil {
		return err
	}
	return writeStdoutln(strings.Join(final, opts.separator))
}

func walkTitle(opts regressOptions) string {
	return fmt.Sprintf("regressing %s: %q => %q", opts.compiler, opts.begin, opts.end)
}

// collectRegressOptions merges flags with any discovered ccregress.toml
// defaults. Explicitly set flags always win; manifest values fill the gaps;
// the remaining holes take the built-in defaults.
func collectRegressOptions(cmd *cobra.Command) (regressOptions, error) {
	var opts regressOptions

	manifest, found, err := loadDefaultsManifest(".")
	if err != nil {
		return opts, err
	}

	flags := cmd.Flags()
	if opts.begin, err = flags.GetString("begin"); err != nil {
		return opts, fmt.Errorf("failed to get begin flag: %w", err)
	}
	if opts.end, err = flags.GetString("end"); err != nil {
		return opts, fmt.Errorf("failed to get end flag: %w", err)
	}
	if opts.compiler, err = flags.GetString("compiler"); err != nil {
		return opts, fmt.Errorf("failed to get compiler flag: %w", err)
	}
	if opts.template, err = flags.GetString("predicate"); err != nil {
		return opts, fmt.Errorf("failed to get predicate flag: %w", err)
	}
	if opts.separator, err = flags.GetString("arg-separator"); err != nil {
		return opts, fmt.Errorf("failed to get arg-separator flag: %w", err)
	}
	if opts.format, err = flags.GetString("arg-format"); err != nil {
		return opts, fmt.Errorf("failed to get arg-format flag: %w", err)
	}
	if opts.timeout, err = flags.GetDuration("timeout"); err != nil {
		return opts, fmt.Errorf("failed to get timeout flag: %w", err)
	}
	if opts.journal, err = flags.GetString("journal"); err != nil {
		return opts, fmt.Errorf("failed to get journal flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiValue); err != nil {
		return opts, err
	}

	if found {
		cfg := manifest.Config
		if opts.compiler == "" {
			opts.compiler = cfg.Compiler.Path
		}
		if opts.template == "" {
			opts.template = cfg.Predicate.Template
		}
		if opts.separator == "" {
			opts.separator = cfg.Predicate.Separator
		}
		if opts.format == "" {
			opts.format = cfg.Predicate.Format
		}
		if opts.timeout == 0 && !flags.Changed("timeout") {
			opts.timeout = manifest.manifestTimeout()
		}
	}

	if opts.compiler == "" {
		opts.compiler = "gcc"
	}
	if opts.separator == "" {
		opts.separator = " "
	}
	if opts.format == "" {
		opts.format = "{}"
	}
	if opts.template == "" {
		return opts, fmt.Errorf("no predicate: set --predicate or [predicate].template in ccregress.toml")
	}
	return opts, nil
}
