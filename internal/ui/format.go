package ui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bamsammich/fspro/internal/stats"
)

// FormatRate renders the average throughput of n bytes over elapsed using
// the same binary units as sizes, e.g. "12.4 MiB/s".
func FormatRate(n int64, elapsed time.Duration) string {
	if n <= 0 || elapsed <= 0 {
		return "0 B/s"
	}
	perSec := int64(float64(n) / elapsed.Seconds())
	return stats.FormatBytes(perSec) + "/s"
}

// FormatCount renders n with thousands separators followed by the noun in
// singular or plural form: "1 entry", "1,204 entries".
func FormatCount(n int64, singular, plural string) string {
	noun := plural
	if n == 1 {
		noun = singular
	}
	return groupDigits(n) + " " + noun
}

func groupDigits(n int64) string {
	if n < 0 {
		return "-" + groupDigits(-n)
	}
	s := strconv.FormatInt(n, 10)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// FormatDuration formats elapsed time concisely. Sub-second durations are
// shown in milliseconds since most archive runs finish that fast.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
