// Package regress walks a compiler optimizer configuration from a known-good
// set toward a target set, keeping each single-flag change only if a test
// predicate still passes.
//
// The walk is a greedy, order-dependent, single-pass acceptance loop: flags
// are tried one at a time in the target set's reporting order, a rejected
// flag is reverted and plays no further role, and no combination of flags is
// ever retried. Different compiler versions can report flags in a different
// order and therefore retain different subsets; that is inherent to the
// algorithm, not a defect.
package regress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ccregress/internal/optset"
	"ccregress/internal/predicate"
)

// Predicate decides one trial. It must return *predicate.Failure to reject
// the argument list and nil to accept it; any other error aborts the walk.
type Predicate func(ctx context.Context, argv []string) error

// Run walks from base toward reach and returns the surviving working set.
//
// The working set starts as a copy of base's options bound to reach's base
// arguments (and base's compiler). For every flag whose state differs
// between the two sets, the target state is applied tentatively, the working
// set is flattened, and the predicate is consulted: a predicate.Failure
// reverts the flag, anything else keeps it. Compiler failures during
// re-resolution and unexpected predicate errors are fatal and propagate.
func Run(ctx context.Context, base, reach *optset.Set, pred Predicate, obs Observer) (*optset.Set, error) {
	if obs == nil {
		obs = Nop
	}

	diff, err := base.Diff(reach)
	if err != nil {
		return nil, err
	}

	working := base.CloneWithArgs(reach.BaseArgs())
	total := len(diff)
	for i, e := range diff {
		obs.OnTrial(Trial{
			Flag: e.Name, New: e.State, Status: StatusQueued,
			Index: i + 1, Total: total,
		})
	}

	for i, e := range diff {
		old, ok := working.Lookup(e.Name)
		if !ok {
			// Diff guarantees base knows the flag; the clone must too.
			return nil, &optset.UnknownFlagError{Flag: e.Name}
		}
		working.SetState(e.Name, e.State)
		obs.OnTrial(Trial{
			Flag: e.Name, Old: old, New: e.State, Status: StatusTesting,
			Index: i + 1, Total: total,
		})

		argv, err := working.Flatten(ctx)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		err = pred(ctx, argv)
		elapsed := time.Since(start)

		if err == nil {
			obs.OnTrial(Trial{
				Flag: e.Name, Old: old, New: e.State, Status: StatusPass,
				Index: i + 1, Total: total, Elapsed: elapsed,
			})
			continue
		}

		var failure *predicate.Failure
		if !errors.As(err, &failure) {
			return nil, fmt.Errorf("predicate for %q: %w", e.Name, err)
		}
		working.SetState(e.Name, old)
		obs.OnTrial(Trial{
			Flag: e.Name, Old: old, New: e.State, Status: StatusFail,
			Index: i + 1, Total: total, Output: failure.Output, Elapsed: elapsed,
		})
	}

	return working, nil
}
