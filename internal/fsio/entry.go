// Package fsio reads directories and resolves paths for the explorer.
package fsio

import (
	"io/fs"
	"strings"
	"time"
)

// EntryType classifies a directory entry. The order of the constants is the
// order entries are listed in.
type EntryType int

const (
	Directory EntryType = iota
	File
	Symlink // a link that does not resolve; links to files and directories take their target's type
	Unknown
)

func (t EntryType) String() string {
	switch t {
	case Directory:
		return "directory"
	case File:
		return "file"
	case Symlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// EntryTypeOf maps a file mode (as reported by lstat) to an EntryType.
// ReadDir refines Symlink by following the link.
func EntryTypeOf(mode fs.FileMode) EntryType {
	switch {
	case mode.IsDir():
		return Directory
	case mode.IsRegular():
		return File
	case mode&fs.ModeSymlink != 0:
		return Symlink
	default:
		return Unknown
	}
}

// Entry is one item of a directory listing.
type Entry struct {
	Name       string
	Path       string
	Type       EntryType
	Size       int64
	ModTime    time.Time
	LinkTarget string
}

// Hidden reports whether the entry is a dot file.
func (e Entry) Hidden() bool {
	return strings.HasPrefix(e.Name, ".")
}

// Listing is the result of reading one directory.
type Listing struct {
	Path    string
	Entries []Entry
}

// Visible returns the entries, dropping dot files unless showHidden is set.
func (l Listing) Visible(showHidden bool) []Entry {
	if showHidden {
		return l.Entries
	}
	out := make([]Entry, 0, len(l.Entries))
	for _, e := range l.Entries {
		if !e.Hidden() {
			out = append(out, e)
		}
	}
	return out
}
