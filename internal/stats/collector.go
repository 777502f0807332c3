package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks operation counters using lock-free atomics.
type Collector struct {
	startTime      time.Time
	entriesScanned atomic.Int64
	entriesDone    atomic.Int64
	entriesSkipped atomic.Int64
	entriesFailed  atomic.Int64
	dirsCreated    atomic.Int64
	bytesDone      atomic.Int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	EntriesScanned int64
	EntriesDone    int64
	EntriesSkipped int64
	EntriesFailed  int64
	DirsCreated    int64
	BytesDone      int64
	Elapsed        time.Duration
}

// The Add methods are safe on a nil receiver so callers may leave the
// collector unset.

func (c *Collector) AddEntriesScanned(n int64) {
	if c != nil {
		c.entriesScanned.Add(n)
	}
}

func (c *Collector) AddEntriesDone(n int64) {
	if c != nil {
		c.entriesDone.Add(n)
	}
}

func (c *Collector) AddEntriesSkipped(n int64) {
	if c != nil {
		c.entriesSkipped.Add(n)
	}
}

func (c *Collector) AddEntriesFailed(n int64) {
	if c != nil {
		c.entriesFailed.Add(n)
	}
}

func (c *Collector) AddDirsCreated(n int64) {
	if c != nil {
		c.dirsCreated.Add(n)
	}
}

func (c *Collector) AddBytesDone(n int64) {
	if c != nil {
		c.bytesDone.Add(n)
	}
}

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{
		EntriesScanned: c.entriesScanned.Load(),
		EntriesDone:    c.entriesDone.Load(),
		EntriesSkipped: c.entriesSkipped.Load(),
		EntriesFailed:  c.entriesFailed.Load(),
		DirsCreated:    c.dirsCreated.Load(),
		BytesDone:      c.bytesDone.Load(),
		Elapsed:        c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"scanned=%d done=%d skipped=%d failed=%d dirs=%d bytes=%d",
		s.EntriesScanned, s.EntriesDone, s.EntriesSkipped, s.EntriesFailed,
		s.DirsCreated, s.BytesDone,
	)
}

// Summary renders a one-line human summary for the CLI.
func (s Snapshot) Summary(op string) string {
	return fmt.Sprintf("%s: %d entries, %s in %s (%d skipped)",
		op, s.EntriesDone, FormatBytes(s.BytesDone),
		s.Elapsed.Round(time.Millisecond), s.EntriesSkipped)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
