// Package filter decides which top-level entries take part in a pack or
// transfer. Matching is exact on the display name: no globs, no case folding.
package filter

import (
	"path/filepath"
	"slices"
)

// Options holds the include and exclude name lists for one operation.
// A nil slice behaves exactly like an empty one.
type Options struct {
	Includes []string `toml:"includes"`
	Excludes []string `toml:"excludes"`
}

// Passes reports whether displayName participates in the operation.
// Excludes always win; an empty include list admits everything else.
func (o Options) Passes(displayName string) bool {
	if slices.Contains(o.Excludes, displayName) {
		return false
	}
	if len(o.Includes) == 0 {
		return true
	}
	return slices.Contains(o.Includes, displayName)
}

// Empty reports whether neither list has entries.
func (o Options) Empty() bool {
	return len(o.Includes) == 0 && len(o.Excludes) == 0
}

// Merge returns o with other's names appended, preserving order.
func (o Options) Merge(other Options) Options {
	return Options{
		Includes: append(slices.Clone(o.Includes), other.Includes...),
		Excludes: append(slices.Clone(o.Excludes), other.Excludes...),
	}
}

// AddInclude appends a name to the include list.
func (o *Options) AddInclude(name string) {
	o.Includes = append(o.Includes, name)
}

// AddExclude appends a name to the exclude list.
func (o *Options) AddExclude(name string) {
	o.Excludes = append(o.Excludes, name)
}

// DisplayName returns the base name of path including its extension.
// It returns "" for paths with no final element (e.g. "/" or "").
func DisplayName(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}
