// Package predicate turns a user-supplied command template into a pass/fail
// test for one compiler argument list.
//
// The template is expanded once per trial: each argument token is formatted,
// the tokens are joined, and the joined string is substituted into the
// template. The result is shell-tokenized and split at literal ";" tokens
// into independent command vectors, each executed to completion in order.
// Any non-zero exit, spawn failure or timeout rejects the whole trial.
package predicate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"ccregress/internal/shellwords"
)

// Failure is the rejection signal: the trial's predicate command failed or
// timed out. The regression engine absorbs it and reverts; anything else
// coming out of Eval is fatal.
type Failure struct {
	Cmd      []string
	Output   []byte
	TimedOut bool
	Err      error
}

func (f *Failure) Error() string {
	what := "failed"
	if f.TimedOut {
		what = "timed out"
	}
	return fmt.Sprintf("predicate command %s %s: %v", strings.Join(f.Cmd, " "), what, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Runner evaluates the predicate template for trial argument lists.
type Runner struct {
	// Template is the command template; every "{}" is replaced with the
	// joined, formatted arguments, and "{{" / "}}" escape literal braces.
	Template string
	// Separator joins the formatted arguments (default single space).
	Separator string
	// Format is applied to each argument before joining (default "{}").
	Format string
	// Timeout bounds each individual command; zero means unbounded.
	Timeout time.Duration
	// Tracef, when set, logs each command vector before it runs.
	Tracef func(format string, args ...any)
}

// Eval runs the predicate for one flattened argument list. It returns nil
// to accept the trial and *Failure to reject it; a malformed template is
// reported as an ordinary (fatal) error.
func (r *Runner) Eval(ctx context.Context, argv []string) error {
	sep := r.Separator
	if sep == "" {
		sep = " "
	}
	format := r.Format
	if format == "" {
		format = "{}"
	}

	formatted := make([]string, 0, len(argv))
	for _, arg := range argv {
		formatted = append(formatted, Expand(format, arg))
	}
	line := Expand(r.Template, strings.Join(formatted, sep))

	tokens, err := shellwords.Split(line)
	if err != nil {
		return fmt.Errorf("predicate template %q: %w", r.Template, err)
	}
	cmds := shellwords.Commands(tokens)

	run := 0
	for _, argv := range cmds {
		if len(argv) == 0 {
			continue
		}
		run++
		if r.Tracef != nil {
			r.Tracef("predicate %d/%d: %s", run, countNonEmpty(cmds), strings.Join(argv, " "))
		}
		if err := r.runOne(ctx, argv); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runOne(ctx context.Context, argv []string) error {
	cmdCtx := ctx
	var cancel context.CancelFunc
	if r.Timeout > 0 {
		cmdCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(cmdCtx, argv[0], argv[1:]...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	err := cmd.Run()
	if err == nil {
		return nil
	}
	return &Failure{
		Cmd:      argv,
		Output:   output.Bytes(),
		TimedOut: errors.Is(cmdCtx.Err(), context.DeadlineExceeded),
		Err:      err,
	}
}

func countNonEmpty(cmds [][]string) int {
	n := 0
	for _, c := range cmds {
		if len(c) > 0 {
			n++
		}
	}
	return n
}
