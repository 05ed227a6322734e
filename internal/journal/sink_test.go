package journal

import (
	"path/filepath"
	"testing"
	"time"

	"ccregress/internal/regress"
)

func TestTrialSinkPersistsSettledTrialsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.journal")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	sink := &TrialSink{W: w}

	sink.OnTrial(regress.Trial{Flag: "-fa", Status: regress.StatusQueued, Index: 1, Total: 1})
	sink.OnTrial(regress.Trial{Flag: "-fa", Status: regress.StatusTesting, Index: 1, Total: 1})
	sink.OnTrial(regress.Trial{
		Flag: "-fa", Old: "[enabled]", New: "[disabled]",
		Status: regress.StatusPass, Index: 1, Total: 1, Elapsed: time.Second,
	})
	if err := sink.Err(); err != nil {
		t.Fatalf("sink error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("journal has %d records, want 1 (queued/testing are transient)", len(records))
	}
	if records[0].Outcome != string(regress.StatusPass) {
		t.Fatalf("outcome = %q, want pass", records[0].Outcome)
	}
}
