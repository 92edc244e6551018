package fsio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReadDir lists path. Entries whose metadata cannot be read are skipped.
// The result is sorted by type, then by case-insensitive name.
func ReadDir(ctx context.Context, path string) (Listing, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return Listing{}, fmt.Errorf("read dir %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return Listing{}, err
		}

		info, err := de.Info()
		if err != nil {
			continue // vanished or unreadable, same as a flattened read_dir
		}

		p := filepath.Join(path, de.Name())
		entry := Entry{
			Name:    de.Name(),
			Path:    p,
			Type:    EntryTypeOf(info.Mode()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		if entry.Type == Symlink {
			entry = followLink(entry)
		}
		entries = append(entries, entry)
	}

	SortEntries(entries)
	return Listing{Path: path, Entries: entries}, nil
}

// followLink types a symlink by what it points to: a link to a directory is
// a Directory and a link to a regular file is a File. Only a link that does
// not resolve stays a Symlink, or Unknown when even its target is unreadable.
func followLink(entry Entry) Entry {
	target, err := os.Readlink(entry.Path)
	if err == nil {
		entry.LinkTarget = target
	}

	st, statErr := os.Stat(entry.Path)
	switch {
	case statErr == nil && st.IsDir():
		entry.Type = Directory
	case statErr == nil && st.Mode().IsRegular():
		entry.Type = File
	case err == nil:
		entry.Type = Symlink
	default:
		entry.Type = Unknown
	}
	if statErr == nil {
		entry.Size = st.Size()
		entry.ModTime = st.ModTime()
	}
	return entry
}

// SortEntries orders entries by type, then by name ignoring case.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Type != entries[j].Type {
			return entries[i].Type < entries[j].Type
		}
		a, b := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if a != b {
			return a < b
		}
		return entries[i].Name < entries[j].Name
	})
}
