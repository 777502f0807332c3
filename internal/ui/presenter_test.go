package ui

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bamsammich/fspro/internal/event"
	"github.com/bamsammich/fspro/internal/stats"
)

func runEvents(p Presenter, evs ...event.Event) {
	ch := make(chan event.Event, len(evs))
	for _, e := range evs {
		ch <- e
	}
	close(ch)
	_ = p.Run(ch)
}

func TestPlainPresenterVerbose(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPresenter(Config{Writer: &out, ErrWriter: &errOut, Verbose: true})

	runEvents(p,
		event.Event{Type: event.OpStarted, Op: "pack"},
		event.Event{Type: event.EntryPacked, Op: "pack", Path: "a.txt", Size: 5},
		event.Event{Type: event.DirCreated, Op: "unpack", Path: "c"},
		event.Event{Type: event.EntrySkipped, Op: "pack", Path: "b.txt"},
		event.Event{Type: event.EntryFailed, Op: "pack", Path: "d.txt", Error: errors.New("permission denied")},
	)

	assert.Equal(t, "a.txt  5 B\nc/\nb.txt  skipped\n", out.String())
	assert.Equal(t, "pack: d.txt  permission denied\n", errOut.String())
}

func TestPlainPresenterNotVerbose(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPresenter(Config{Writer: &out, ErrWriter: &errOut})

	runEvents(p,
		event.Event{Type: event.EntryMoved, Op: "transfer", Path: "a.txt", Size: 5},
		event.Event{Type: event.EntryFailed, Op: "transfer", Path: "b.txt"},
	)

	assert.Empty(t, out.String())
	assert.Equal(t, "transfer: b.txt  error\n", errOut.String())
}

func TestPlainPresenterSummary(t *testing.T) {
	collector := stats.NewCollector()
	collector.AddEntriesDone(1200)
	collector.AddBytesDone(2048)
	collector.AddEntriesSkipped(3)

	p := NewPresenter(Config{Writer: &bytes.Buffer{}, ErrWriter: &bytes.Buffer{}, Stats: collector})
	summary := p.Summary("pack")

	assert.True(t, strings.HasPrefix(summary, "pack ✓  1,200 entries  2.0 KiB  avg "), summary)
	assert.Contains(t, summary, "3 skipped")
	assert.NotContains(t, summary, "error")
}

func TestPlainPresenterSummaryFailures(t *testing.T) {
	collector := stats.NewCollector()
	collector.AddEntriesFailed(1)

	p := NewPresenter(Config{Writer: &bytes.Buffer{}, ErrWriter: &bytes.Buffer{}, Stats: collector})
	summary := p.Summary("unpack")

	assert.True(t, strings.HasPrefix(summary, "unpack ✗"), summary)
	assert.Contains(t, summary, "1 error")
	assert.Contains(t, summary, "0 entries")
}

func TestQuietPresenter(t *testing.T) {
	p := NewPresenter(Config{Quiet: true})
	runEvents(p, event.Event{Type: event.EntryFailed, Path: "x"})
	assert.Empty(t, p.Summary("pack"))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
