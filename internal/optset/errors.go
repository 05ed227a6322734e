package optset

import (
	"fmt"
	"strings"
)

// InvocationError reports a compiler query that could not be started or
// exited non-zero. It keeps both captured streams for diagnostics.
type InvocationError struct {
	Compiler string
	Args     []string
	Stdout   []byte
	Stderr   []byte
	Err      error
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("compiler query failed: %s %s: %v",
		e.Compiler, strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(string(e.Stderr)); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *InvocationError) Unwrap() error { return e.Err }

// UnknownFlagError reports a diff or flatten that referenced a flag the
// comparison set never resolved.
type UnknownFlagError struct {
	Flag string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("optimizer flag %q not present in comparison set", e.Flag)
}
