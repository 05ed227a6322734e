// Package journal persists the outcome of every regression trial as a
// stream of msgpack records, so a run can be audited after the fact.
package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Record format changes
const schemaVersion uint16 = 1

// Record is one trial as written to disk.
type Record struct {
	Schema  uint16
	Index   uint32
	Total   uint32
	Flag    string
	Old     string
	New     string
	Outcome string // "pass" or "fail"
	Output  []byte // captured predicate output, failures only
	Elapsed time.Duration
	When    time.Time
}

// Writer appends records to a journal file.
type Writer struct {
	f   *os.File
	enc *msgpack.Encoder
}

// Create opens (truncating) a journal file for writing.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create journal: %w", err)
	}
	return &Writer{f: f, enc: msgpack.NewEncoder(f)}, nil
}

// Append writes one trial record. index and total are 1-based walk
// positions; negative values are a programming error.
func (w *Writer) Append(index, total int, flag, old, newState, outcome string, output []byte, elapsed time.Duration) error {
	idx, err := safecast.Conv[uint32](index)
	if err != nil {
		return fmt.Errorf("journal index: %w", err)
	}
	tot, err := safecast.Conv[uint32](total)
	if err != nil {
		return fmt.Errorf("journal total: %w", err)
	}
	rec := Record{
		Schema:  schemaVersion,
		Index:   idx,
		Total:   tot,
		Flag:    flag,
		Old:     old,
		New:     newState,
		Outcome: outcome,
		Output:  output,
		Elapsed: elapsed,
		When:    time.Now().UTC(),
	}
	if err := w.enc.Encode(&rec); err != nil {
		return fmt.Errorf("failed to append journal record: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	return w.f.Close()
}

// Read loads every record from a journal file, rejecting records written
// with a different schema version.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			panic(closeErr)
		}
	}()

	var records []Record
	dec := msgpack.NewDecoder(f)
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, fmt.Errorf("failed to decode journal record: %w", err)
		}
		if rec.Schema != schemaVersion {
			return nil, fmt.Errorf("journal schema %d not supported (want %d)", rec.Schema, schemaVersion)
		}
		records = append(records, rec)
	}
}
