package archive

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// normalizeEntryPath converts a stored entry path into a clean, relative,
// host-native path. Archives are written with forward slashes but some
// producers store backslashes, so both are accepted.
//
// The result is "." for entries naming the archive root. Paths that are
// absolute or climb out of the root fail with ErrUnsafePath.
func normalizeEntryPath(name string) (string, error) {
	slashed := strings.ReplaceAll(name, `\`, "/")
	if slashed == "" {
		return "", fmt.Errorf("empty entry name: %w", ErrUnsafePath)
	}
	if path.IsAbs(slashed) {
		return "", fmt.Errorf("absolute entry %q: %w", name, ErrUnsafePath)
	}

	cleaned := path.Clean(slashed)
	if cleaned == "." {
		return ".", nil
	}

	native := filepath.FromSlash(cleaned)
	if !filepath.IsLocal(native) {
		return "", fmt.Errorf("entry %q: %w", name, ErrUnsafePath)
	}
	return native, nil
}

// resolveTarget joins a normalized entry path onto root.
func resolveTarget(root, rel string) string {
	if rel == "." {
		return root
	}
	return filepath.Join(root, rel)
}

// checkLinkTarget rejects symlink targets that would point outside root
// once resolved relative to the directory holding the link.
func checkLinkTarget(rel, target string) error {
	slashed := strings.ReplaceAll(target, `\`, "/")
	if slashed == "" || path.IsAbs(slashed) || filepath.IsAbs(target) {
		return fmt.Errorf("link target %q: %w", target, ErrUnsafePath)
	}
	joined := path.Join(path.Dir(filepath.ToSlash(rel)), slashed)
	if joined == "." {
		return nil
	}
	if !filepath.IsLocal(filepath.FromSlash(joined)) {
		return fmt.Errorf("link target %q: %w", target, ErrUnsafePath)
	}
	return nil
}
