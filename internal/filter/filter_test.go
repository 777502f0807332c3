package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyOptionsPassAll(t *testing.T) {
	var o Options
	assert.True(t, o.Passes("a.txt"))
	assert.True(t, o.Passes("sub"))
	assert.True(t, o.Passes(""))
	assert.True(t, o.Empty())
}

func TestExcludeRejects(t *testing.T) {
	o := Options{Excludes: []string{"b.txt"}}

	assert.False(t, o.Passes("b.txt"))
	assert.True(t, o.Passes("a.txt"))
	assert.False(t, o.Empty())
}

func TestIncludeRestricts(t *testing.T) {
	o := Options{Includes: []string{"a.txt", "c"}}

	assert.True(t, o.Passes("a.txt"))
	assert.True(t, o.Passes("c"))
	assert.False(t, o.Passes("b.txt"))
}

func TestExcludeBeatsInclude(t *testing.T) {
	o := Options{
		Includes: []string{"a.txt", "b.txt"},
		Excludes: []string{"b.txt"},
	}

	assert.True(t, o.Passes("a.txt"))
	assert.False(t, o.Passes("b.txt"))
}

func TestExactMatchOnly(t *testing.T) {
	o := Options{Excludes: []string{"notes.txt"}}

	// No case folding, no stem matching, no globbing.
	assert.True(t, o.Passes("Notes.txt"))
	assert.True(t, o.Passes("notes"))
	assert.True(t, o.Passes("notes.txt.bak"))

	g := Options{Excludes: []string{"*.txt"}}
	assert.True(t, g.Passes("a.txt"))
	assert.False(t, g.Passes("*.txt"))
}

func TestMerge(t *testing.T) {
	base := Options{Includes: []string{"a"}, Excludes: []string{"x"}}
	merged := base.Merge(Options{Includes: []string{"b"}, Excludes: []string{"y"}})

	assert.Equal(t, []string{"a", "b"}, merged.Includes)
	assert.Equal(t, []string{"x", "y"}, merged.Excludes)
	// The receiver is left untouched.
	assert.Equal(t, []string{"a"}, base.Includes)
}

func TestAddIncludeExclude(t *testing.T) {
	var o Options
	o.AddInclude("keep.txt")
	o.AddExclude("drop.txt")

	assert.Equal(t, []string{"keep.txt"}, o.Includes)
	assert.Equal(t, []string{"drop.txt"}, o.Excludes)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/path/to/file.text", "file.text"},
		{"/path/to/dir", "dir"},
		{"/path/to/dir/", "dir"},
		{"archive.tar.gz", "archive.tar.gz"},
		{".hidden", ".hidden"},
		{"/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.path))
		})
	}
}
