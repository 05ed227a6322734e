package regress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"ccregress/internal/optset"
	"ccregress/internal/predicate"
)

// fakeCompiler writes a stand-in compiler script. It resolves two flags
// from the -O level (-O1: both off, -O2: vectorize on, -O3: both on) and
// then applies explicit overrides left to right, like a real compiler.
func fakeCompiler(t *testing.T) string {
	t.Helper()
	script := `#!/bin/sh
vec="[disabled]"
unroll="[disabled]"
for a in "$@"; do
	case "$a" in
	-O1) vec="[disabled]" unroll="[disabled]" ;;
	-O2) vec="[enabled]" unroll="[disabled]" ;;
	-O3) vec="[enabled]" unroll="[enabled]" ;;
	-ftree-vectorize) vec="[enabled]" ;;
	-fno-tree-vectorize) vec="[disabled]" ;;
	-funroll-loops) unroll="[enabled]" ;;
	-fno-unroll-loops) unroll="[disabled]" ;;
	esac
done
printf '  -ftree-vectorize  %s\n  -funroll-loops  %s\n' "$vec" "$unroll"
`
	path := filepath.Join(t.TempDir(), "fakecc")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake compiler: %v", err)
	}
	return path
}

// effective mirrors the fake compiler: the flag state a trial argv
// actually produces.
func effective(argv []string) (vec, unroll bool) {
	for _, a := range argv {
		switch a {
		case "-O1":
			vec, unroll = false, false
		case "-O2":
			vec, unroll = true, false
		case "-O3":
			vec, unroll = true, true
		case "-ftree-vectorize":
			vec = true
		case "-fno-tree-vectorize":
			vec = false
		case "-funroll-loops":
			unroll = true
		case "-fno-unroll-loops":
			unroll = false
		}
	}
	return vec, unroll
}

func resolve(t *testing.T, cc string, args ...string) *optset.Set {
	t.Helper()
	set, err := optset.FromArgs(context.Background(), args, cc)
	if err != nil {
		t.Fatalf("FromArgs(%v): %v", args, err)
	}
	return set
}

func accept(context.Context, []string) error { return nil }

func reject(context.Context, []string) error {
	return &predicate.Failure{Cmd: []string{"false"}, Output: []byte("boom")}
}

// recorder collects trial events for assertions.
type recorder struct {
	trials []Trial
}

func (r *recorder) OnTrial(t Trial) { r.trials = append(r.trials, t) }

func (r *recorder) settled() []Trial {
	var out []Trial
	for _, t := range r.trials {
		if t.Status == StatusPass || t.Status == StatusFail {
			out = append(out, t)
		}
	}
	return out
}

func TestRunAcceptAll(t *testing.T) {
	cc := fakeCompiler(t)
	base := resolve(t, cc, "-O2")                    // vectorize on, unrolling off
	reach := resolve(t, cc, "-O1", "-funroll-loops") // vectorize off, unrolling on

	working, err := Run(context.Background(), base, reach, accept, Nop)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, name := range reach.Names() {
		want, _ := reach.Lookup(name)
		got, ok := working.Lookup(name)
		if !ok || got != want {
			t.Fatalf("working[%s] = %q, want %q (full walk must reach the target)", name, got, want)
		}
	}
}

func TestRunRejectAll(t *testing.T) {
	cc := fakeCompiler(t)
	base := resolve(t, cc, "-O2")
	reach := resolve(t, cc, "-O1", "-funroll-loops")

	working, err := Run(context.Background(), base, reach, reject, Nop)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, name := range reach.Names() {
		want, _ := base.Lookup(name)
		got, ok := working.Lookup(name)
		if !ok || got != want {
			t.Fatalf("working[%s] = %q, want %q (every change must be reverted)", name, got, want)
		}
	}
}

// The documented scenario: vectorization may be turned off, but enabling
// unrolling breaks the predicate and must be reverted.
func TestRunPartialAcceptance(t *testing.T) {
	cc := fakeCompiler(t)
	base := resolve(t, cc, "-O2")
	reach := resolve(t, cc, "-O1", "-funroll-loops")

	pred := func(ctx context.Context, argv []string) error {
		if _, unroll := effective(argv); unroll {
			return &predicate.Failure{Cmd: []string{"check"}, Output: []byte("unrolling broke it")}
		}
		return nil
	}

	rec := &recorder{}
	working, err := Run(context.Background(), base, reach, pred, rec)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st, _ := working.Lookup("-ftree-vectorize"); st != optset.StateDisabled {
		t.Fatalf("-ftree-vectorize = %q, want %q", st, optset.StateDisabled)
	}
	if st, _ := working.Lookup("-funroll-loops"); st != optset.StateDisabled {
		t.Fatalf("-funroll-loops = %q, want %q (rejected change must revert)", st, optset.StateDisabled)
	}

	settled := rec.settled()
	if len(settled) != 2 {
		t.Fatalf("settled trials = %d, want 2", len(settled))
	}
	if settled[0].Status != StatusPass || settled[0].Flag != "-ftree-vectorize" {
		t.Fatalf("first settled trial = %+v, want pass for -ftree-vectorize", settled[0])
	}
	if settled[1].Status != StatusFail || settled[1].Flag != "-funroll-loops" {
		t.Fatalf("second settled trial = %+v, want fail for -funroll-loops", settled[1])
	}
	if string(settled[1].Output) != "unrolling broke it" {
		t.Fatalf("failure output = %q, want captured predicate output", settled[1].Output)
	}

	// The surviving configuration spells out both dropped optimizations.
	argv, err := working.Flatten(context.Background())
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if vec, unroll := effective(argv); vec || unroll {
		t.Fatalf("final argv %v still enables vec=%v unroll=%v", argv, vec, unroll)
	}
}

// A history-dependent predicate shows the walk is order-sensitive: which
// flags survive depends on which is tried first. The diff order comes from
// the target set's report order, so a hand-built reach with reversed order
// retains a different subset.
func TestRunOrderSensitivity(t *testing.T) {
	cc := fakeCompiler(t)

	// Fails only when vectorization is off while unrolling is on.
	bothBad := func(ctx context.Context, argv []string) error {
		if vec, unroll := effective(argv); !vec && unroll {
			return &predicate.Failure{Cmd: []string{"check"}}
		}
		return nil
	}

	base := resolve(t, cc, "-O2")
	reach := resolve(t, cc, "-O1", "-funroll-loops")

	forward, err := Run(context.Background(), base, reach, bothBad, Nop)
	if err != nil {
		t.Fatalf("Run(forward): %v", err)
	}
	// Vectorize is tried (and disabled) first; unrolling then trips the
	// predicate and reverts.
	if st, _ := forward.Lookup("-ftree-vectorize"); st != optset.StateDisabled {
		t.Fatalf("forward -ftree-vectorize = %q, want disabled", st)
	}
	if st, _ := forward.Lookup("-funroll-loops"); st != optset.StateDisabled {
		t.Fatalf("forward -funroll-loops = %q, want disabled", st)
	}

	// Same states, reversed report order: unrolling lands first and
	// survives, so disabling vectorization is now the rejected change.
	reversed := optset.New([]optset.Entry{
		{Name: "-funroll-loops", State: optset.StateEnabled},
		{Name: "-ftree-vectorize", State: optset.StateDisabled},
	}, []string{"-O1", "-funroll-loops"}, cc)

	backward, err := Run(context.Background(), base, reversed, bothBad, Nop)
	if err != nil {
		t.Fatalf("Run(backward): %v", err)
	}
	if st, _ := backward.Lookup("-funroll-loops"); st != optset.StateEnabled {
		t.Fatalf("backward -funroll-loops = %q, want enabled", st)
	}
	if st, _ := backward.Lookup("-ftree-vectorize"); st != optset.StateEnabled {
		t.Fatalf("backward -ftree-vectorize = %q, want enabled (reverted)", st)
	}
}

func TestRunPropagatesUnexpectedPredicateError(t *testing.T) {
	cc := fakeCompiler(t)
	base := resolve(t, cc, "-O2")
	reach := resolve(t, cc, "-O1")

	boom := errors.New("predicate infrastructure exploded")
	pred := func(ctx context.Context, argv []string) error {
		return fmt.Errorf("running check: %w", boom)
	}

	_, err := Run(context.Background(), base, reach, pred, Nop)
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want wrapped %v (only Failure is absorbed)", err, boom)
	}
}

func TestRunEventSequence(t *testing.T) {
	cc := fakeCompiler(t)
	base := resolve(t, cc, "-O2")
	reach := resolve(t, cc, "-O1", "-funroll-loops")

	rec := &recorder{}
	if _, err := Run(context.Background(), base, reach, accept, rec); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Two queued events first, then testing/pass per flag in diff order.
	wantStatuses := []Status{StatusQueued, StatusQueued, StatusTesting, StatusPass, StatusTesting, StatusPass}
	if len(rec.trials) != len(wantStatuses) {
		t.Fatalf("got %d events, want %d: %+v", len(rec.trials), len(wantStatuses), rec.trials)
	}
	for i, want := range wantStatuses {
		if rec.trials[i].Status != want {
			t.Fatalf("event %d status = %q, want %q", i, rec.trials[i].Status, want)
		}
	}
	if rec.trials[2].Flag != "-ftree-vectorize" || rec.trials[4].Flag != "-funroll-loops" {
		t.Fatalf("trial order = %q, %q; want reach's report order", rec.trials[2].Flag, rec.trials[4].Flag)
	}
	if rec.trials[2].Total != 2 || rec.trials[4].Index != 2 {
		t.Fatalf("index/total wrong: %+v", rec.trials)
	}
}
