package filter

import (
	"fmt"
	"strconv"
	"strings"
)

var sizeSuffixes = map[byte]int64{
	'B': 1,
	'K': 1 << 10,
	'M': 1 << 20,
	'G': 1 << 30,
	'T': 1 << 40,
}

// ParseSize parses a human-readable size such as "512K" or "1.5G" into
// bytes. Suffixes are case-insensitive powers of 1024 and may carry a
// trailing B ("10MB"); no suffix means bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}
	if n := len(s); n > 2 && strings.EqualFold(s[n-1:], "b") && strings.ContainsAny(s[n-2:n-1], "KMGTkmgt") {
		s = s[:n-1]
	}

	multiplier := int64(1)
	numStr := s
	if m, ok := sizeSuffixes[strings.ToUpper(s[len(s)-1:])[0]]; ok {
		multiplier = m
		numStr = s[:len(s)-1]
	}
	if numStr == "" {
		return 0, fmt.Errorf("invalid size: %q", s)
	}

	if n, err := strconv.ParseInt(numStr, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative size: %q", s)
		}
		return n * multiplier, nil
	}

	f, err := strconv.ParseFloat(numStr, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid size: %q", s)
	}
	return int64(f * float64(multiplier)), nil
}
