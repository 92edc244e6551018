package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// locationSelection is the highlighted part of the location bar while the
// mouse is pressed or dragged over it.
type locationSelection struct {
	before   string
	selected string
	after    string
}

// splitLocation splits text around the rune at index. An index past the end
// selects nothing.
func splitLocation(text string, index int) locationSelection {
	runes := []rune(text)
	if index < 0 || index >= len(runes) {
		return locationSelection{before: text}
	}
	return locationSelection{
		before:   string(runes[:index]),
		selected: string(runes[index : index+1]),
		after:    string(runes[index+1:]),
	}
}

// componentAt returns the prefix of path that ends with the component under
// the rune at index, so clicking a component of the location jumps to it.
func componentAt(path string, index int) string {
	runes := []rune(path)
	if index < 0 || index >= len(runes) {
		return path
	}

	end := len(runes)
	for i := index; i < len(runes); i++ {
		if runes[i] < utf8.RuneSelf && os.IsPathSeparator(uint8(runes[i])) {
			end = i
			break
		}
	}

	prefix := string(runes[:end])
	vol := filepath.VolumeName(path)
	if prefix == "" || prefix == vol {
		return vol + string(filepath.Separator)
	}
	return prefix
}

// expandHome replaces a leading "~" or "~/" with the home directory.
// "~user" forms are left alone.
func expandHome(input string) string {
	rest, ok := strings.CutPrefix(input, "~")
	if !ok || (rest != "" && !os.IsPathSeparator(rest[0])) {
		return input
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return input
	}
	return home + rest
}

// resolveInput turns what was typed in the location bar into a path,
// relative input is taken from base.
func resolveInput(input, base string) string {
	input = expandHome(strings.TrimSpace(input))
	if input == "" {
		return base
	}
	if !filepath.IsAbs(input) {
		input = filepath.Join(base, input)
	}
	return input
}

// getPathCompletions returns the directories that complete input.
func getPathCompletions(input, base string) []string {
	path := resolveInput(input, base)

	// An existing directory typed with a trailing separator lists its
	// contents; otherwise complete the last component.
	var dir, prefix string
	if info, err := os.Stat(path); err == nil && info.IsDir() && (input == "" || os.IsPathSeparator(input[len(input)-1])) {
		dir = path
	} else {
		dir = filepath.Dir(path)
		prefix = filepath.Base(path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var completions []string
	for _, entry := range entries {
		if !isDirEntry(dir, entry) {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue // Skip hidden directories unless asked for
		}

		// Case-insensitive prefix matching
		if prefix == "" || strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			completions = append(completions, filepath.Join(dir, name))
		}
	}

	sort.Strings(completions)
	return completions
}

func isDirEntry(dir string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink != 0 {
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		return err == nil && info.IsDir()
	}
	return false
}

// suggestPath proposes the sibling directory whose name is closest to the
// last component of input, for typos the completer cannot fix.
func suggestPath(input, base string) string {
	path := resolveInput(input, base)
	if _, err := os.Stat(path); err == nil {
		return ""
	}

	dir, want := filepath.Dir(path), strings.ToLower(filepath.Base(path))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	best, bestDist := "", -1
	for _, entry := range entries {
		if !isDirEntry(dir, entry) {
			continue
		}
		d := levenshtein.ComputeDistance(want, strings.ToLower(entry.Name()))
		if bestDist < 0 || d < bestDist || (d == bestDist && entry.Name() < best) {
			best, bestDist = entry.Name(), d
		}
	}

	limit := max(2, utf8.RuneCountInString(want)/3)
	if best == "" || bestDist > limit {
		return ""
	}
	return filepath.Join(dir, best)
}

// pathStatus is what the location bar knows about the typed path.
type pathStatus int

const (
	pathEmpty       pathStatus = iota
	pathDirectory              // enter changes into it
	pathFile                   // enter previews it
	pathMissingLeaf            // only the last component is missing
	pathUnreachable
)

// locationStatus reports what entering path in the location bar would do.
func locationStatus(path string) pathStatus {
	path = strings.TrimSpace(path)
	if path == "" {
		return pathEmpty
	}

	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return pathDirectory
		}
		return pathFile
	}
	if info, err := os.Stat(filepath.Dir(path)); err == nil && info.IsDir() {
		return pathMissingLeaf
	}
	return pathUnreachable
}
