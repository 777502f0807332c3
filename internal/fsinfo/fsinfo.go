// Package fsinfo answers simple questions about paths on the local
// filesystem: existence, kind, size, name parts and metadata.
package fsinfo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"

	"github.com/bamsammich/fspro/internal/filter"
)

// Exists reports whether path exists. Broken symlinks count as missing.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Size returns the size of path in bytes. Directories report the sum of
// every regular file beneath them. Missing or unreadable paths report 0.
func Size(path string) uint64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return uint64(info.Size()) //nolint:gosec // G115: file sizes are non-negative
	}

	var total atomic.Uint64
	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total.Add(uint64(info.Size())) //nolint:gosec // G115: file sizes are non-negative
		return nil
	})
	if err != nil {
		return 0
	}
	return total.Load()
}

// Name returns the file or directory name without its extension.
func Name(path string) string {
	full := FullName(path)
	if ext := filepath.Ext(full); ext != "" && ext != full {
		return strings.TrimSuffix(full, ext)
	}
	return full
}

// FullName returns the display name of path: the base name including any
// extension.
func FullName(path string) string {
	return filter.DisplayName(path)
}

// Extname returns the extension of path without the leading dot.
func Extname(path string) string {
	full := FullName(path)
	ext := filepath.Ext(full)
	if ext == full {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

// ListChildren returns the absolute paths of the immediate children of
// dir in directory order (sorted by name).
func ListChildren(dir string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", abs, err)
	}
	children := make([]string, 0, len(entries))
	for _, d := range entries {
		children = append(children, filepath.Join(abs, d.Name()))
	}
	return children, nil
}

// MetadataOptions controls Metadata.
type MetadataOptions struct {
	// OmitSize skips the (possibly recursive) size computation and reports 0.
	OmitSize bool
}

// Metadata describes a path. Times are unix milliseconds, 0 when the
// platform does not provide them.
type Metadata struct {
	Name       string `json:"name"`
	FullName   string `json:"fullName"`
	Extname    string `json:"extname"`
	MimeType   string `json:"mimeType,omitempty"`
	Size       uint64 `json:"size"`
	AccessedAt int64  `json:"accessedAt"`
	CreatedAt  int64  `json:"createdAt"`
	ModifiedAt int64  `json:"modifiedAt"`
	IsDir      bool   `json:"isDir"`
	IsFile     bool   `json:"isFile"`
	IsExist    bool   `json:"isExist"`
	IsSymlink  bool   `json:"isSymlink"`
	IsAbsolute bool   `json:"isAbsolute"`
	IsRelative bool   `json:"isRelative"`
}

// GetMetadata collects Metadata for path. The path must exist.
func GetMetadata(path string, opts MetadataOptions) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("stat %s: %w", path, err)
	}

	md := Metadata{
		Name:       Name(path),
		FullName:   FullName(path),
		Extname:    Extname(path),
		IsDir:      info.IsDir(),
		IsFile:     info.Mode().IsRegular(),
		IsExist:    true,
		IsAbsolute: filepath.IsAbs(path),
		IsRelative: !filepath.IsAbs(path),
		ModifiedAt: unixMillis(info.ModTime()),
	}

	if linfo, err := os.Lstat(path); err == nil {
		md.IsSymlink = linfo.Mode()&os.ModeSymlink != 0
	}

	times := statTimes(path, info)
	md.AccessedAt = unixMillis(times.accessed)
	md.CreatedAt = unixMillis(times.created)

	if !opts.OmitSize {
		md.Size = Size(path)
	}

	// MIME sniffing is best-effort; unreadable files just omit it.
	if md.IsFile {
		if mtype, err := mimetype.DetectFile(path); err == nil {
			md.MimeType = mtype.String()
		}
	}

	return md, nil
}

type fileTimes struct {
	accessed time.Time
	created  time.Time
}

func unixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
