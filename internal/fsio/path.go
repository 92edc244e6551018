package fsio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDirectory is returned when a path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Canonicalize resolves path against base when it is relative, then returns
// the absolute, symlink-free, cleaned form. The path must exist. Symlinks are
// resolved before ".." is applied, so "link/.." is the parent of the link's
// target.
func Canonicalize(base, path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	if !filepath.IsAbs(path) {
		if !filepath.IsAbs(base) {
			abs, err := filepath.Abs(base)
			if err != nil {
				return "", err
			}
			base = abs
		}
		path = joinRaw(base, path)
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(resolved), nil
}

// joinRaw joins without the lexical cleaning filepath.Join does.
func joinRaw(base, path string) string {
	if strings.HasSuffix(base, string(filepath.Separator)) {
		return base + path
	}
	return base + string(filepath.Separator) + path
}

// ResolveStartDirectory drops trailing components of path until what is
// left can be canonicalized. The raw (popped) path is returned, like the
// explorer's starting location, so a missing leaf falls back to its closest
// existing ancestor.
func ResolveStartDirectory(path string) string {
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = wd
		} else {
			path = string(filepath.Separator)
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	for {
		if _, err := Canonicalize("", path); err == nil {
			return path
		}
		parent, ok := Parent(path)
		if !ok {
			return path
		}
		path = parent
	}
}

// Parent returns the parent directory of path and false when path is a
// filesystem root.
func Parent(path string) (string, bool) {
	clean := filepath.Clean(path)
	parent := filepath.Dir(clean)
	if parent == clean {
		return "", false
	}
	return parent, true
}

// CheckDirectory returns nil when path is a directory, an error wrapping
// ErrNotDirectory when it is something else and the stat error otherwise.
func CheckDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrNotDirectory)
	}
	return nil
}
