package journal

import "ccregress/internal/regress"

// TrialSink adapts a Writer into a regress.Observer. Only settled trials
// (pass or fail) are persisted. Observers cannot surface errors mid-walk,
// so the first write error is retained for the caller to check afterwards.
type TrialSink struct {
	W   *Writer
	err error
}

// OnTrial implements regress.Observer.
func (s *TrialSink) OnTrial(t regress.Trial) {
	if s.err != nil {
		return
	}
	if t.Status != regress.StatusPass && t.Status != regress.StatusFail {
		return
	}
	s.err = s.W.Append(t.Index, t.Total, t.Flag,
		string(t.Old), string(t.New), string(t.Status), t.Output, t.Elapsed)
}

// Err returns the first write error encountered, if any.
func (s *TrialSink) Err() error { return s.err }
