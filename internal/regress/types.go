package regress

import (
	"time"

	"ccregress/internal/optset"
)

// Status captures where a trial is in its lifecycle.
type Status string

const (
	// StatusQueued indicates the flag is waiting for its trial.
	StatusQueued Status = "queued"
	// StatusTesting indicates the tentative change is being predicated.
	StatusTesting Status = "testing"
	// StatusPass indicates the change survived and is kept.
	StatusPass Status = "pass"
	// StatusFail indicates the change was rejected and reverted.
	StatusFail Status = "fail"
)

// Trial reports one flag's progress through the walk.
type Trial struct {
	Flag    string
	Old     optset.State
	New     optset.State
	Status  Status
	Index   int // 1-based position in the diff
	Total   int
	Output  []byte // captured predicate output, failures only
	Elapsed time.Duration
}

// Observer consumes trial events. Implementations must not mutate the
// event and must not block the walk for long; the engine is synchronous.
type Observer interface {
	OnTrial(Trial)
}

// ChannelSink forwards trial events into a channel.
type ChannelSink struct {
	Ch chan<- Trial
}

func (s ChannelSink) OnTrial(t Trial) {
	if s.Ch == nil {
		return
	}
	s.Ch <- t
}

// MultiObserver fans one event out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) OnTrial(t Trial) {
	for _, o := range m {
		if o != nil {
			o.OnTrial(t)
		}
	}
}

type nopObserver struct{}

func (nopObserver) OnTrial(Trial) {}

// Nop is an observer that discards everything.
var Nop Observer = nopObserver{}
