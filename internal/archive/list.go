package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// List returns the records of the archive at src in archive order without
// extracting anything. Backslashes in stored paths are reported as forward
// slashes and directory names lose their trailing slash.
func List(ctx context.Context, src string) ([]Entry, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, &OpError{Op: "list", Path: src, Err: err}
	}
	defer f.Close()

	tr, closeFn, err := openTarReader(ctx, f, 0)
	if err != nil {
		return nil, &OpError{Op: "list", Path: src, Err: err}
	}
	defer closeFn()

	var entries []Entry
	for {
		if err := ctx.Err(); err != nil {
			return nil, &OpError{Op: "list", Path: src, Err: err}
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &OpError{Op: "list", Path: src, Err: fmt.Errorf("read tar header: %w", err)}
		}

		name := strings.TrimSuffix(strings.ReplaceAll(hdr.Name, `\`, "/"), "/")
		entries = append(entries, Entry{
			Path:       name,
			Size:       hdr.Size,
			Mode:       hdr.FileInfo().Mode(),
			ModTime:    hdr.ModTime,
			IsDir:      hdr.Typeflag == tar.TypeDir,
			LinkTarget: hdr.Linkname,
		})
	}
	return entries, nil
}
