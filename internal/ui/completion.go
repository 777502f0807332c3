package ui

import (
	"strings"

	"github.com/bamsammich/fspro/internal/stats"
)

// completionSummary builds the final line printed after an operation.
// Format: pack ✓  1,204 entries  48.2 MiB  avg 310.5 MiB/s  155ms  3 skipped
func completionSummary(op string, snap stats.Snapshot) string {
	icon := "✓"
	if snap.EntriesFailed > 0 {
		icon = "✗"
	}

	parts := []string{
		op + " " + icon,
		FormatCount(snap.EntriesDone, "entry", "entries"),
		stats.FormatBytes(snap.BytesDone),
		"avg " + FormatRate(snap.BytesDone, snap.Elapsed),
		FormatDuration(snap.Elapsed),
	}
	if snap.EntriesSkipped > 0 {
		parts = append(parts, FormatCount(snap.EntriesSkipped, "skipped", "skipped"))
	}
	if snap.EntriesFailed > 0 {
		parts = append(parts, FormatCount(snap.EntriesFailed, "error", "errors"))
	}
	return strings.Join(parts, "  ")
}
