package optset

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// introspectArgs is the compiler's mode for reporting optimizer flag state.
var introspectArgs = []string{"-Q", "--help=optimizers"}

// FromArgs asks the compiler which optimizer flags are in effect for args
// and returns the resolved Set bound to (args, compiler). The query runs
// `<compiler> <args...> -Q --help=optimizers`; a spawn failure or non-zero
// exit yields *InvocationError with both captured streams.
func FromArgs(ctx context.Context, args []string, compiler string) (*Set, error) {
	full := make([]string, 0, len(args)+len(introspectArgs))
	full = append(full, args...)
	full = append(full, introspectArgs...)

	cmd := exec.CommandContext(ctx, compiler, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &InvocationError{
			Compiler: compiler,
			Args:     full,
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
			Err:      err,
		}
	}
	return New(ParseReport(stdout.String()), args, compiler), nil
}

// ParseReport extracts the optimizer flag entries from the compiler's
// help text. Only lines that split into exactly two whitespace fields and
// whose first field carries the optimizer prefix are kept; headers,
// wrapped rows and flags without a reportable default are discarded.
func ParseReport(report string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(report, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 || !strings.HasPrefix(fields[0], FlagPrefix) {
			continue
		}
		entries = append(entries, Entry{Name: fields[0], State: State(fields[1])})
	}
	return entries
}

// Flatten reduces the set to the minimal explicit argument list that
// reproduces its state: the base arguments followed by one argument per
// flag whose state differs from what the base arguments alone imply.
// It re-queries the compiler for the implied state, so the result tracks
// the compiler's actual defaults. Flattening a flattened set is a fixed
// point: once every difference is explicit, re-resolving infers nothing new.
func (s *Set) Flatten(ctx context.Context) ([]string, error) {
	implied, err := FromArgs(ctx, s.baseArgs, s.compiler)
	if err != nil {
		return nil, err
	}
	delta, err := implied.Diff(s)
	if err != nil {
		return nil, err
	}
	out := append([]string(nil), s.baseArgs...)
	for _, e := range delta {
		if e.State == StateDefault {
			continue
		}
		out = append(out, Argument(e))
	}
	return out, nil
}
