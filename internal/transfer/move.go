package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"

	"github.com/bamsammich/fspro/internal/event"
	"github.com/bamsammich/fspro/internal/fsinfo"
	"github.com/bamsammich/fspro/internal/stats"
)

// Policy decides what MoveItems does when the destination entry exists.
type Policy struct {
	// Overwrite replaces the existing entry, directories included.
	Overwrite bool
	// SkipExist leaves both the existing entry and the source in place.
	SkipExist bool
	// CopyInside merges a source directory into an existing destination
	// directory instead of replacing it. Conflicts below the top level are
	// resolved with the same policy.
	CopyInside bool
}

// DefaultPolicy is the policy Run uses.
var DefaultPolicy = Policy{Overwrite: true}

// MoveItems moves each of paths into dstDir, keeping its base name. Items
// are moved in order and the first failure stops the rest.
func MoveItems(ctx context.Context, paths []string, dstDir string, policy Policy) error {
	return newMover(policy, nil, nil).moveAll(ctx, paths, dstDir)
}

type mover struct {
	events chan<- event.Event
	stats  *stats.Collector
	rename func(oldpath, newpath string) error
	policy Policy
}

func newMover(policy Policy, events chan<- event.Event, collector *stats.Collector) *mover {
	return &mover{
		events: events,
		stats:  collector,
		rename: os.Rename,
		policy: policy,
	}
}

func (m *mover) moveAll(ctx context.Context, paths []string, dstDir string) error {
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return &OpError{Op: "move", Path: p, Err: err}
		}
		if err := m.moveOne(ctx, p, dstDir); err != nil {
			m.stats.AddEntriesFailed(1)
			event.Emit(m.events, event.Event{Type: event.EntryFailed, Op: "transfer", Path: p, Error: err})
			return &OpError{Op: "move", Path: p, Err: err}
		}
	}
	return nil
}

func (m *mover) moveOne(ctx context.Context, src, dstDir string) error {
	srcInfo, err := os.Lstat(src)
	if err != nil {
		return err
	}
	target := filepath.Join(dstDir, filepath.Base(src))
	if target == src {
		return nil
	}

	if err := checkOverlap(src, target); err != nil {
		return err
	}

	dstInfo, err := os.Lstat(target)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return err
	case m.policy.CopyInside && srcInfo.IsDir() && dstInfo.IsDir():
		return m.mergeInto(ctx, src, target)
	case m.policy.Overwrite:
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("remove existing %s: %w", target, err)
		}
	case m.policy.SkipExist:
		m.stats.AddEntriesSkipped(1)
		event.Emit(m.events, event.Event{Type: event.EntrySkipped, Op: "transfer", Path: src})
		return nil
	default:
		return fmt.Errorf("%s: %w", target, ErrExists)
	}

	size := int64(fsinfo.Size(src))
	if err := m.rename(src, target); err != nil {
		if !isCrossDevice(err) {
			return fmt.Errorf("rename %s -> %s: %w", src, target, err)
		}
		slog.Debug("rename crossed devices, copying instead", "src", src, "dst", target)
		if err := copyThenRemove(src, target); err != nil {
			return err
		}
	}

	m.stats.AddEntriesDone(1)
	m.stats.AddBytesDone(size)
	event.Emit(m.events, event.Event{Type: event.EntryMoved, Op: "transfer", Path: target, Size: size})
	return nil
}

// mergeInto moves the children of the directory src into the existing
// directory dst, then removes src.
func (m *mover) mergeInto(ctx context.Context, src, dst string) error {
	children, err := fsinfo.ListChildren(src)
	if err != nil {
		return err
	}
	if err := m.moveAll(ctx, children, dst); err != nil {
		return err
	}
	// Skipped children keep src non-empty; that is not an error.
	if err := os.Remove(src); err != nil && !m.policy.SkipExist {
		return fmt.Errorf("remove merged %s: %w", src, err)
	}
	return nil
}

// checkOverlap refuses moves where target contains src or src contains
// target. Replacing target would delete src in the first case; the rename
// cannot succeed in the second.
func checkOverlap(src, target string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if within(absTarget, absSrc) || within(absSrc, absTarget) {
		return fmt.Errorf("%s -> %s: %w", src, target, ErrOverlap)
	}
	return nil
}

// within reports whether child lies strictly inside parent.
func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil || rel == "." {
		return false
	}
	return filepath.IsLocal(rel)
}

func copyThenRemove(src, dst string) error {
	opts := copy.Options{
		OnSymlink:     func(string) copy.SymlinkAction { return copy.Shallow },
		PreserveTimes: true,
	}
	if err := copy.Copy(src, dst, opts); err != nil {
		return fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("remove moved source %s: %w", src, err)
	}
	return nil
}
