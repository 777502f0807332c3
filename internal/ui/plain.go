package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/fspro/internal/event"
	"github.com/bamsammich/fspro/internal/stats"
)

// plainPresenter prints failures to errW and, when verbose, one line per
// processed entry to w.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   *stats.Collector
	verbose bool
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	for ev := range events {
		p.handleEvent(ev)
	}
	return nil
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.EntryFailed:
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.errW, "%s: %s  %s\n", ev.Op, ev.Path, errMsg)
	case event.EntryPacked, event.EntryUnpacked, event.EntryMoved:
		if p.verbose {
			fmt.Fprintf(p.w, "%s  %s\n", ev.Path, stats.FormatBytes(ev.Size))
		}
	case event.DirCreated:
		if p.verbose {
			fmt.Fprintf(p.w, "%s/\n", ev.Path)
		}
	case event.EntrySkipped:
		if p.verbose {
			fmt.Fprintf(p.w, "%s  skipped\n", ev.Path)
		}
	case event.OpStarted, event.OpCompleted:
		// bracketing only
	}
}

func (p *plainPresenter) Summary(op string) string {
	if p.stats == nil {
		return ""
	}
	return completionSummary(op, p.stats.Snapshot())
}
