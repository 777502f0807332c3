package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/bamsammich/fspro/internal/event"
)

// Pack writes the immediate children of src that pass opts.Filter into a
// gzip-compressed tar archive at dst, truncating any existing file.
//
// Files are stored under their display name. Directories are stored with
// every descendant, unfiltered, rooted at their display name. Symlinks are
// stored as links, never followed.
//
// The child list is read once, before dst is created, so an archive
// written inside src never contains itself.
func Pack(ctx context.Context, src, dst string, opts PackOptions) (err error) {
	level := opts.Level
	switch {
	case level == 0:
		level = gzip.DefaultCompression
	case level < gzip.BestSpeed || level > gzip.BestCompression:
		return &OpError{Op: "pack", Path: dst, Err: fmt.Errorf("%w: %d", ErrInvalidLevel, opts.Level)}
	}

	children, err := os.ReadDir(src)
	if err != nil {
		return &OpError{Op: "pack", Path: src, Err: err}
	}

	f, err := os.Create(dst)
	if err != nil {
		return &OpError{Op: "pack", Path: dst, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &OpError{Op: "pack", Path: dst, Err: cerr}
		}
	}()

	var out io.Writer = f
	if opts.BWLimit > 0 {
		out = newRateLimitedWriter(ctx, f, NewBWLimiter(opts.BWLimit))
	}

	gz, err := gzip.NewWriterLevel(out, level)
	if err != nil {
		return &OpError{Op: "pack", Path: dst, Err: err}
	}
	p := &packer{tw: tar.NewWriter(gz), opts: opts}

	event.Emit(opts.Events, event.Event{Type: event.OpStarted, Op: "pack", Path: src})
	slog.Debug("packing", "src", src, "dst", dst, "children", len(children), "level", level)

	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return &OpError{Op: "pack", Path: src, Err: err}
		}

		name := child.Name()
		opts.Stats.AddEntriesScanned(1)
		if !opts.Filter.Passes(name) {
			opts.Stats.AddEntriesSkipped(1)
			event.Emit(opts.Events, event.Event{Type: event.EntrySkipped, Op: "pack", Path: name})
			continue
		}

		abs := filepath.Join(src, name)
		if err := p.appendTree(ctx, abs, name); err != nil {
			opts.Stats.AddEntriesFailed(1)
			event.Emit(opts.Events, event.Event{Type: event.EntryFailed, Op: "pack", Path: name, Error: err})
			return &OpError{Op: "pack", Path: abs, Err: err}
		}
	}

	if err := p.tw.Close(); err != nil {
		return &OpError{Op: "pack", Path: dst, Err: fmt.Errorf("finish tar: %w", err)}
	}
	if err := gz.Close(); err != nil {
		return &OpError{Op: "pack", Path: dst, Err: fmt.Errorf("finish gzip: %w", err)}
	}

	event.Emit(opts.Events, event.Event{Type: event.OpCompleted, Op: "pack", Path: dst})
	return nil
}

type packer struct {
	tw   *tar.Writer
	opts PackOptions
}

// appendTree stores abs under name. For directories every descendant is
// stored as well, in lexical walk order.
func (p *packer) appendTree(ctx context.Context, abs, name string) error {
	info, err := os.Lstat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return p.appendEntry(abs, name, info)
	}

	return filepath.WalkDir(abs, func(fsPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(abs, fsPath)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return p.appendEntry(fsPath, path.Join(name, filepath.ToSlash(rel)), info)
	})
}

func (p *packer) appendEntry(abs, name string, info fs.FileInfo) error {
	mode := info.Mode()

	var link string
	switch {
	case mode.IsRegular(), mode.IsDir():
	case mode&fs.ModeSymlink != 0:
		target, err := os.Readlink(abs)
		if err != nil {
			return err
		}
		link = target
	default:
		// Sockets, devices and pipes have no portable archive form.
		slog.Debug("skipping special file", "path", abs, "mode", mode.String())
		p.opts.Stats.AddEntriesSkipped(1)
		event.Emit(p.opts.Events, event.Event{Type: event.EntrySkipped, Op: "pack", Path: name})
		return nil
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return fmt.Errorf("header for %s: %w", abs, err)
	}
	hdr.Name = name
	if mode.IsDir() {
		hdr.Name += "/"
	}

	if err := p.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header %s: %w", name, err)
	}

	var n int64
	if mode.IsRegular() {
		n, err = copyFileInto(p.tw, abs, hdr.Size)
		if err != nil {
			return err
		}
	}

	p.opts.Stats.AddEntriesDone(1)
	p.opts.Stats.AddBytesDone(n)
	event.Emit(p.opts.Events, event.Event{Type: event.EntryPacked, Op: "pack", Path: hdr.Name, Size: n})
	return nil
}

// copyFileInto copies exactly size bytes of the file at abs into w. A file
// that shrank since it was stat'ed fails; extra bytes appended since are
// ignored.
func copyFileInto(w io.Writer, abs string, size int64) (int64, error) {
	f, err := os.Open(abs)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := io.CopyN(w, f, size)
	if err != nil {
		return n, fmt.Errorf("copy %s: %w", abs, err)
	}
	return n, nil
}
