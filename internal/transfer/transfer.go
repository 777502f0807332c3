// Package transfer moves the filtered immediate children of one directory
// into another.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bamsammich/fspro/internal/event"
	"github.com/bamsammich/fspro/internal/filter"
	"github.com/bamsammich/fspro/internal/fsinfo"
	"github.com/bamsammich/fspro/internal/stats"
)

// ErrExists is returned by MoveItems when a destination entry exists and the
// policy neither overwrites nor skips it.
var ErrExists = errors.New("destination already exists")

// ErrOverlap is returned by MoveItems when a source and its destination
// entry contain one another.
var ErrOverlap = errors.New("source and destination overlap")

// OpError records the operation and path that failed along with the cause.
type OpError struct {
	Err  error
	Op   string
	Path string
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Options controls Run.
type Options struct {
	Events chan<- event.Event
	Stats  *stats.Collector
	Filter filter.Options
}

// Run creates dst if needed and moves every immediate child of src whose
// display name passes opts.Filter into it, in listing order. An existing
// destination entry of the same name is replaced as a whole.
//
// Moves are committed one at a time. On error the children already moved
// stay in dst and the rest stay in src.
func Run(ctx context.Context, src, dst string, opts Options) error {
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return &OpError{Op: "transfer", Path: dst, Err: err}
	}
	if err := os.MkdirAll(absDst, 0o755); err != nil {
		return &OpError{Op: "transfer", Path: dst, Err: fmt.Errorf("create destination: %w", err)}
	}

	event.Emit(opts.Events, event.Event{Type: event.OpStarted, Op: "transfer", Path: src})

	candidates, err := selectCandidates(src, absDst, opts.Filter, func(string) {
		opts.Stats.AddEntriesScanned(1)
	}, func(name string) {
		opts.Stats.AddEntriesSkipped(1)
		event.Emit(opts.Events, event.Event{Type: event.EntrySkipped, Op: "transfer", Path: name})
	})
	if err != nil {
		return &OpError{Op: "transfer", Path: src, Err: err}
	}
	slog.Debug("transferring", "src", src, "dst", absDst, "candidates", len(candidates))

	m := newMover(DefaultPolicy, opts.Events, opts.Stats)
	if err := m.moveAll(ctx, candidates, absDst); err != nil {
		return err
	}

	event.Emit(opts.Events, event.Event{Type: event.OpCompleted, Op: "transfer", Path: absDst})
	return nil
}

// Candidates returns the absolute paths of the immediate children of src
// whose display names pass f, in listing order. These are exactly the
// entries Run would move into dst; dst itself is never a candidate.
func Candidates(src, dst string, f filter.Options) ([]string, error) {
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return nil, err
	}
	return selectCandidates(src, absDst, f, func(string) {}, func(string) {})
}

// selectCandidates lists src and keeps the children passing f, calling
// scanned for every child considered and skipped for every rejected one.
func selectCandidates(src, absDst string, f filter.Options, scanned, skipped func(name string)) ([]string, error) {
	children, err := fsinfo.ListChildren(src)
	if err != nil {
		return nil, err
	}
	out := children[:0]
	for _, child := range children {
		// dst may itself be a child of src.
		if child == absDst {
			continue
		}
		name := filter.DisplayName(child)
		scanned(name)
		if !f.Passes(name) {
			skipped(name)
			continue
		}
		out = append(out, child)
	}
	return out, nil
}
