// Package manifest generates the manifest that lists every scene asset file
// for the asset loader.
//
// A manifest looks like:
//
//	#manifest
//	"cobweb/main.cob" as main
//	"cobweb/widgets/button.cob" as widgets_button
//
// Names are the file stem prefixed by the directories between the manifest
// and the file. Paths are relative to the asset root.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DefaultExt is the scene file extension picked up by Collect.
	DefaultExt = ".cob"
	header     = "#manifest"
	selfName   = "manifest"
)

// ErrStale is returned by Check when the manifest on disk is out of date.
var ErrStale = errors.New("manifest is out of date")

// Entry is one imported scene file.
type Entry struct {
	Path string
	Name string
}

// Generator builds manifests.
type Generator struct {
	// Ext is the scene file extension, DefaultExt when empty.
	Ext string
	// AssetRoot is the directory entry paths are relative to. When empty it
	// is the parent of the manifest's directory.
	AssetRoot string
}

func (g Generator) ext() string {
	if g.Ext == "" {
		return DefaultExt
	}
	if !strings.HasPrefix(g.Ext, ".") {
		return "." + g.Ext
	}
	return g.Ext
}

func (g Generator) assetRoot(manifestPath string) string {
	if g.AssetRoot != "" {
		return g.AssetRoot
	}
	return filepath.Dir(filepath.Dir(manifestPath))
}

// Collect walks dir and returns an entry for every scene file below it.
// prefix is prepended to the names of entries found directly in dir.
// Subdirectories that cannot be read are skipped.
func (g Generator) Collect(root, dir, prefix string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	return g.collect(root, dir, prefix, dirEntries)
}

func (g Generator) collect(root, dir, prefix string, dirEntries []os.DirEntry) ([]Entry, error) {
	var entries []Entry
	for _, de := range dirEntries {
		p := filepath.Join(dir, de.Name())

		switch {
		case de.IsDir():
			subEntries, err := os.ReadDir(p)
			if err != nil {
				continue
			}
			sub, err := g.collect(root, p, joinName(prefix, de.Name()), subEntries)
			if err != nil {
				return nil, err
			}
			entries = append(entries, sub...)

		case de.Type().IsRegular() && filepath.Ext(de.Name()) == g.ext():
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return nil, fmt.Errorf("relative path of %s: %w", p, err)
			}
			stem := strings.TrimSuffix(de.Name(), filepath.Ext(de.Name()))
			entries = append(entries, Entry{
				Path: filepath.ToSlash(rel),
				Name: joinName(prefix, stem),
			})
		}
	}
	return entries, nil
}

func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

// Render formats entries as a manifest, sorted by path. The manifest does
// not import itself. Paths are written between quotes as they are, without
// escaping.
func Render(entries []Entry) string {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Name != selfName {
			kept = append(kept, e)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Path < kept[j].Path })

	lines := make([]string, 0, len(kept)+1)
	lines = append(lines, header)
	for _, e := range kept {
		lines = append(lines, `"`+e.Path+`" as `+e.Name)
	}
	return strings.Join(lines, "\n")
}

// Generate returns the manifest content for the manifest at manifestPath,
// built from the files next to and below it.
func (g Generator) Generate(manifestPath string) (string, error) {
	entries, err := g.Collect(g.assetRoot(manifestPath), filepath.Dir(manifestPath), "")
	if err != nil {
		return "", fmt.Errorf("collect scene files: %w", err)
	}
	return Render(entries), nil
}

// Write regenerates the manifest and writes it only when the content
// changed. It reports whether the file was written.
func (g Generator) Write(manifestPath string) (bool, error) {
	content, err := g.Generate(manifestPath)
	if err != nil {
		return false, err
	}

	current, err := os.ReadFile(manifestPath)
	if err == nil && string(current) == content {
		return false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	if err := os.WriteFile(manifestPath, []byte(content), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// Check returns ErrStale when the manifest on disk differs from what
// Generate would produce.
func (g Generator) Check(manifestPath string) error {
	content, err := g.Generate(manifestPath)
	if err != nil {
		return err
	}
	current, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStale, err)
	}
	if string(current) != content {
		return ErrStale
	}
	return nil
}
