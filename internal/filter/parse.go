package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile reads names from a filter file and appends them to o.
// Format:
//   - name  → exclude
//   + name  → include
//   # comment  → skip
//   blank line → skip
//   no prefix  → exclude
//
// Names are taken verbatim after the prefix; they are display names, not
// patterns.
func (o *Options) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open filter file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		include := false
		name := line
		switch {
		case strings.HasPrefix(line, "+ "):
			include = true
			name = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "- "):
			name = strings.TrimSpace(line[2:])
		}

		if name == "" {
			return fmt.Errorf("filter file %s line %d: empty name", path, lineNum)
		}
		if include {
			o.AddInclude(name)
		} else {
			o.AddExclude(name)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read filter file %s: %w", path, err)
	}
	return nil
}
