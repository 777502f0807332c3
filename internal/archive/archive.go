// Package archive packs a directory into a gzip-compressed tar stream and
// unpacks such a stream back onto disk.
//
// Filtering applies only to the immediate children of the packed
// directory. A child directory that passes the filter is stored with its
// whole subtree.
//
// Neither operation is transactional. A failed Pack may leave a truncated
// archive behind and a failed Unpack may leave a partially populated
// destination; callers decide whether to clean up.
package archive

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/zeebo/blake3"

	"github.com/bamsammich/fspro/internal/event"
	"github.com/bamsammich/fspro/internal/filter"
	"github.com/bamsammich/fspro/internal/stats"
)

// ErrUnsafePath is returned by Unpack for entries whose path (or link
// target) would resolve outside the destination directory.
var ErrUnsafePath = errors.New("entry path escapes destination")

// ErrInvalidLevel is returned by Pack for compression levels outside 0-9.
var ErrInvalidLevel = errors.New("invalid compression level")

// OpError records the operation and path that failed along with the cause.
type OpError struct {
	Err  error
	Op   string
	Path string
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Entry describes one record of an archive.
type Entry struct {
	ModTime    time.Time
	Path       string // always slash-separated
	LinkTarget string
	Size       int64
	Mode       fs.FileMode
	IsDir      bool
}

// PackOptions controls Pack.
type PackOptions struct {
	Events chan<- event.Event
	Stats  *stats.Collector
	Filter filter.Options
	// Level is the gzip level, 1 (fastest) through 9 (best). 0 selects the
	// default level.
	Level int
	// BWLimit caps the archive write rate in bytes per second. 0 disables it.
	BWLimit int64
}

// UnpackOptions controls Unpack.
type UnpackOptions struct {
	Events chan<- event.Event
	Stats  *stats.Collector
	// BWLimit caps the archive read rate in bytes per second. 0 disables it.
	BWLimit int64
}

// Digest returns the hex-encoded BLAKE3 digest of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
