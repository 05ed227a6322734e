// Package optset resolves and manipulates compiler optimizer flag sets.
//
// A Set is the compiler's own answer to "which -f flags are in effect for
// this command line": every optimizer flag the compiler reports, mapped to
// its resolved state, in the exact order the compiler reported it. That
// order is part of the contract — it drives the regression walk — and is
// never sorted or otherwise normalized.
package optset

import "strings"

// FlagPrefix identifies optimizer flags in the compiler's report.
const FlagPrefix = "-f"

// State is a flag's resolved value as printed by the compiler.
// Anything that is not one of the three boolean markers is a parameter
// value; the report embeds the separator (e.g. "=200"), so valued states
// concatenate directly onto the flag name.
type State string

const (
	// StateDefault means the flag takes the compiler's built-in default.
	StateDefault State = "[default]"
	// StateEnabled means the flag is on.
	StateEnabled State = "[enabled]"
	// StateDisabled means the flag is off.
	StateDisabled State = "[disabled]"
)

// IsValued reports whether the state is a parameter value rather than a
// boolean marker.
func (s State) IsValued() bool {
	return s != StateDefault && s != StateEnabled && s != StateDisabled
}

// Entry is one flag with its state, in report order.
type Entry struct {
	Name  string
	State State
}

// Set holds a resolved optimizer configuration for one compiler invocation.
// names preserves the compiler's reporting order; states is the lookup side.
type Set struct {
	names    []string
	states   map[string]State
	baseArgs []string
	compiler string
}

// New builds a Set from explicit entries. Later duplicates overwrite
// earlier states without changing the original position.
func New(entries []Entry, baseArgs []string, compiler string) *Set {
	s := &Set{
		names:    make([]string, 0, len(entries)),
		states:   make(map[string]State, len(entries)),
		baseArgs: append([]string(nil), baseArgs...),
		compiler: compiler,
	}
	for _, e := range entries {
		s.SetState(e.Name, e.State)
	}
	return s
}

// CloneWithArgs copies the option table (same order, same states) into a new
// Set bound to different base arguments. The compiler binding is kept: a
// working set must keep querying the compiler that produced its states.
func (s *Set) CloneWithArgs(baseArgs []string) *Set {
	c := &Set{
		names:    append([]string(nil), s.names...),
		states:   make(map[string]State, len(s.states)),
		baseArgs: append([]string(nil), baseArgs...),
		compiler: s.compiler,
	}
	for name, st := range s.states {
		c.states[name] = st
	}
	return c
}

// Lookup returns the state for name and whether the flag is known.
func (s *Set) Lookup(name string) (State, bool) {
	st, ok := s.states[name]
	return st, ok
}

// SetState records a state for name, appending the name to the order if it
// was not previously known.
func (s *Set) SetState(name string, st State) {
	if _, ok := s.states[name]; !ok {
		s.names = append(s.names, name)
	}
	s.states[name] = st
}

// Len returns the number of known flags.
func (s *Set) Len() int { return len(s.names) }

// Names returns the flag names in report order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Entries returns every flag with its state in report order.
func (s *Set) Entries() []Entry {
	out := make([]Entry, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, Entry{Name: name, State: s.states[name]})
	}
	return out
}

// BaseArgs returns the non-optimizer arguments this set was resolved from.
func (s *Set) BaseArgs() []string {
	return append([]string(nil), s.baseArgs...)
}

// Compiler returns the compiler binding.
func (s *Set) Compiler() string { return s.compiler }

// Diff returns the entries of other whose state differs in s, in other's
// report order. Every flag appearing in other must be known to s; a missing
// flag is a precondition violation reported as *UnknownFlagError, never
// silently treated as default.
func (s *Set) Diff(other *Set) ([]Entry, error) {
	var out []Entry
	for _, name := range other.names {
		theirs := other.states[name]
		ours, ok := s.states[name]
		if !ok {
			return nil, &UnknownFlagError{Flag: name}
		}
		if ours != theirs {
			out = append(out, Entry{Name: name, State: theirs})
		}
	}
	return out, nil
}

// Argument renders one delta entry as an explicit command-line argument.
// Enabled flags emit their bare name, disabled flags rewrite the leftmost
// "-f" to "-fno-", valued flags concatenate the value (the report already
// carries the separator). Default entries have no explicit spelling.
func Argument(e Entry) string {
	switch e.State {
	case StateEnabled:
		return e.Name
	case StateDisabled:
		return strings.Replace(e.Name, FlagPrefix, "-fno-", 1)
	default:
		return e.Name + string(e.State)
	}
}
