package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/bamsammich/fspro/internal/event"
)

// Unpack materializes every record of the gzip-compressed tar archive at
// src beneath dst, creating dst and its ancestors when missing.
//
// Records are applied in archive order; a later record for the same path
// replaces the earlier one. Entry paths may use either separator. Entries
// that would land outside dst fail with ErrUnsafePath, and so do entries
// beneath a symlink, since a link unpacked earlier could redirect them.
// All writes go through an os.Root on dst.
func Unpack(ctx context.Context, src, dst string, opts UnpackOptions) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return &OpError{Op: "unpack", Path: dst, Err: fmt.Errorf("create destination: %w", err)}
	}

	f, err := os.Open(src)
	if err != nil {
		return &OpError{Op: "unpack", Path: src, Err: err}
	}
	defer f.Close()

	tr, closeFn, err := openTarReader(ctx, f, opts.BWLimit)
	if err != nil {
		return &OpError{Op: "unpack", Path: src, Err: err}
	}
	defer closeFn()

	event.Emit(opts.Events, event.Event{Type: event.OpStarted, Op: "unpack", Path: src})
	slog.Debug("unpacking", "src", src, "dst", dst)

	root, err := os.OpenRoot(dst)
	if err != nil {
		return &OpError{Op: "unpack", Path: dst, Err: err}
	}
	defer root.Close()

	u := &unpacker{root: root, dir: dst, opts: opts}
	for {
		if err := ctx.Err(); err != nil {
			return &OpError{Op: "unpack", Path: src, Err: err}
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &OpError{Op: "unpack", Path: src, Err: fmt.Errorf("read tar header: %w", err)}
		}

		opts.Stats.AddEntriesScanned(1)
		if err := u.apply(hdr, tr); err != nil {
			opts.Stats.AddEntriesFailed(1)
			event.Emit(opts.Events, event.Event{Type: event.EntryFailed, Op: "unpack", Path: hdr.Name, Error: err})
			return &OpError{Op: "unpack", Path: hdr.Name, Err: err}
		}
	}

	event.Emit(opts.Events, event.Event{Type: event.OpCompleted, Op: "unpack", Path: dst})
	return nil
}

// openTarReader layers gzip decompression and tar parsing over r.
func openTarReader(ctx context.Context, r io.Reader, bwLimit int64) (*tar.Reader, func(), error) {
	if bwLimit > 0 {
		r = newRateLimitedReader(ctx, r, NewBWLimiter(bwLimit))
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open gzip stream: %w", err)
	}
	return tar.NewReader(gz), func() { gz.Close() }, nil
}

type unpacker struct {
	root *os.Root
	dir  string
	opts UnpackOptions
}

func (u *unpacker) apply(hdr *tar.Header, r io.Reader) error {
	rel, err := normalizeEntryPath(hdr.Name)
	if err != nil {
		return err
	}
	if err := u.checkParents(hdr.Name, rel); err != nil {
		return err
	}
	mode := hdr.FileInfo().Mode()

	var n int64
	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := u.mkdir(rel, mode.Perm()|0o700); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
		u.opts.Stats.AddDirsCreated(1)

	case tar.TypeReg:
		if err := u.mkdirParent(rel); err != nil {
			return err
		}
		n, err = writeFileAtomic(u.root, rel, r, mode.Perm())
		if err != nil {
			return err
		}

	case tar.TypeSymlink:
		if err := checkLinkTarget(rel, hdr.Linkname); err != nil {
			return err
		}
		if err := u.mkdirParent(rel); err != nil {
			return err
		}
		if err := u.replaceWith(rel, func() error { return u.root.Symlink(hdr.Linkname, rel) }); err != nil {
			return fmt.Errorf("create symlink: %w", err)
		}

	case tar.TypeLink:
		linkRel, err := normalizeEntryPath(hdr.Linkname)
		if err != nil {
			return err
		}
		if err := u.checkParents(hdr.Linkname, linkRel); err != nil {
			return err
		}
		if err := u.mkdirParent(rel); err != nil {
			return err
		}
		if err := u.replaceWith(rel, func() error { return u.root.Link(linkRel, rel) }); err != nil {
			return fmt.Errorf("create hard link: %w", err)
		}

	default:
		// Devices and fifos need privileges we do not assume.
		slog.Debug("skipping unsupported entry", "name", hdr.Name, "type", string(hdr.Typeflag))
		u.opts.Stats.AddEntriesSkipped(1)
		event.Emit(u.opts.Events, event.Event{Type: event.EntrySkipped, Op: "unpack", Path: hdr.Name})
		return nil
	}

	if err := setModTime(resolveTarget(u.dir, rel), hdr.ModTime); err != nil {
		return fmt.Errorf("set times: %w", err)
	}

	u.opts.Stats.AddEntriesDone(1)
	u.opts.Stats.AddBytesDone(n)
	typ := event.EntryUnpacked
	if hdr.Typeflag == tar.TypeDir {
		typ = event.DirCreated
	}
	event.Emit(u.opts.Events, event.Event{Type: typ, Op: "unpack", Path: filepath.ToSlash(rel), Size: n})
	return nil
}

// checkParents fails with ErrUnsafePath when any existing ancestor of rel
// under the root is a symlink. Components that do not exist yet will be
// created as plain directories.
func (u *unpacker) checkParents(name, rel string) error {
	if rel == "." {
		return nil
	}
	parts := strings.Split(filepath.Dir(rel), string(filepath.Separator))
	cur := ""
	for _, part := range parts {
		if part == "." {
			break
		}
		cur = filepath.Join(cur, part)
		info, err := u.root.Lstat(cur)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return fmt.Errorf("entry %q passes through symlink %q: %w", name, filepath.ToSlash(cur), ErrUnsafePath)
		}
	}
	return nil
}

// mkdir creates rel and its ancestors. A symlink already at rel is
// replaced by the directory.
func (u *unpacker) mkdir(rel string, perm os.FileMode) error {
	if rel == "." {
		return nil
	}
	if info, err := u.root.Lstat(rel); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		if err := u.root.Remove(rel); err != nil {
			return err
		}
	}
	return u.root.MkdirAll(rel, perm)
}

func (u *unpacker) mkdirParent(rel string) error {
	parent := filepath.Dir(rel)
	if parent == "." {
		return nil
	}
	if err := u.root.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	return nil
}

// replaceWith removes a non-directory at rel, if any, then runs create.
func (u *unpacker) replaceWith(rel string, create func() error) error {
	if info, err := u.root.Lstat(rel); err == nil && !info.IsDir() {
		if err := u.root.Remove(rel); err != nil {
			return err
		}
	}
	return create()
}

// writeFileAtomic streams r into a temp file next to rel and renames it
// into place, so rel is either the old content or the complete new one.
func writeFileAtomic(root *os.Root, rel string, r io.Reader, perm os.FileMode) (n int64, err error) {
	tmpName := fmt.Sprintf(".%s.%s.fspro-tmp", filepath.Base(rel), uuid.New().String()[:8])
	tmpRel := filepath.Join(filepath.Dir(rel), tmpName)

	tmp, err := root.OpenFile(tmpRel, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return 0, fmt.Errorf("create temp %s: %w", tmpRel, err)
	}
	defer func() {
		if err != nil {
			_ = root.Remove(tmpRel)
		}
	}()

	n, err = io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return n, fmt.Errorf("write %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("close %s: %w", tmpRel, err)
	}
	if err := root.Rename(tmpRel, rel); err != nil {
		return n, fmt.Errorf("rename into %s: %w", rel, err)
	}
	return n, nil
}
