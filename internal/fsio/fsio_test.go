package fsio_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fexplorer/internal/fsio"
)

func tempDir(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReadDirSortsByTypeThenName(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "zeta"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Alpha"), 0o755))
	writeFile(t, filepath.Join(dir, "b.txt"), "b")
	writeFile(t, filepath.Join(dir, "A.txt"), "a")
	if runtime.GOOS != "windows" {
		require.NoError(t, os.Symlink(filepath.Join(dir, "b.txt"), filepath.Join(dir, "link")))
	}

	listing, err := fsio.ReadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, dir, listing.Path)

	var names []string
	for _, e := range listing.Entries {
		names = append(names, e.Name)
	}

	want := []string{"Alpha", "zeta", "A.txt", "b.txt"}
	if runtime.GOOS != "windows" {
		want = append(want, "link")
	}
	assert.Equal(t, want, names)

	assert.Equal(t, fsio.Directory, listing.Entries[0].Type)
	assert.Equal(t, fsio.File, listing.Entries[2].Type)
	assert.Equal(t, int64(1), listing.Entries[2].Size)

	if runtime.GOOS != "windows" {
		link := listing.Entries[4]
		assert.Equal(t, fsio.File, link.Type)
		assert.Equal(t, filepath.Join(dir, "b.txt"), link.LinkTarget)
	}
}

func TestReadDirFollowsLinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	t.Parallel()

	dir := tempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "target"), 0o755))
	writeFile(t, filepath.Join(dir, "data.txt"), "12345")
	require.NoError(t, os.Symlink("target", filepath.Join(dir, "dirlink")))
	require.NoError(t, os.Symlink("data.txt", filepath.Join(dir, "filelink")))
	require.NoError(t, os.Symlink("nowhere", filepath.Join(dir, "dangling")))

	listing, err := fsio.ReadDir(context.Background(), dir)
	require.NoError(t, err)

	byName := map[string]fsio.Entry{}
	for _, e := range listing.Entries {
		byName[e.Name] = e
	}

	assert.Equal(t, fsio.Directory, byName["dirlink"].Type)
	assert.Equal(t, "target", byName["dirlink"].LinkTarget)
	assert.Equal(t, fsio.File, byName["filelink"].Type)
	assert.Equal(t, int64(5), byName["filelink"].Size)
	assert.Equal(t, fsio.Symlink, byName["dangling"].Type)
	assert.Equal(t, "nowhere", byName["dangling"].LinkTarget)

	var names []string
	for _, e := range listing.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"dirlink", "target", "data.txt", "filelink", "dangling"}, names)
}

func TestReadDirMissing(t *testing.T) {
	t.Parallel()

	_, err := fsio.ReadDir(context.Background(), filepath.Join(tempDir(t), "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadDirCancelled(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)
	writeFile(t, filepath.Join(dir, "a"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fsio.ReadDir(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestListingVisible(t *testing.T) {
	t.Parallel()

	l := fsio.Listing{Entries: []fsio.Entry{{Name: ".git"}, {Name: "main.go"}}}
	assert.Len(t, l.Visible(true), 2)

	visible := l.Visible(false)
	require.Len(t, visible, 1)
	assert.Equal(t, "main.go", visible[0].Name)
}

func TestEntryTypeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode os.FileMode
		want fsio.EntryType
	}{
		{name: "directory", mode: os.ModeDir | 0o755, want: fsio.Directory},
		{name: "regular file", mode: 0o644, want: fsio.File},
		{name: "symlink", mode: os.ModeSymlink | 0o777, want: fsio.Symlink},
		{name: "named pipe", mode: os.ModeNamedPipe, want: fsio.Unknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fsio.EntryTypeOf(tt.mode))
		})
	}
}

func TestTaskPoll(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)
	writeFile(t, filepath.Join(dir, "a.txt"), "a")

	task := fsio.StartRead(context.Background(), dir)
	assert.Equal(t, dir, task.Path())

	var (
		res  fsio.Result
		done bool
	)
	require.Eventually(t, func() bool {
		res, done = task.Poll()
		return done
	}, 5*time.Second, 5*time.Millisecond)

	require.NoError(t, res.Err)
	require.Len(t, res.Listing.Entries, 1)
	assert.Equal(t, "a.txt", res.Listing.Entries[0].Name)

	// Polling a finished task keeps returning the same result.
	again, done := task.Poll()
	assert.True(t, done)
	assert.Equal(t, res, again)
}

func TestTaskWaitError(t *testing.T) {
	t.Parallel()

	task := fsio.StartRead(context.Background(), filepath.Join(tempDir(t), "nope"))
	res, err := task.Wait(context.Background())
	require.NoError(t, err)
	require.Error(t, res.Err)
}

func TestCanonicalizeRelativeMatchesAbsolute(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	rel, err := fsio.Canonicalize(dir, filepath.Join("a", "..", "a", "b"))
	require.NoError(t, err)

	abs, err := fsio.Canonicalize(dir, sub)
	require.NoError(t, err)

	assert.Equal(t, abs, rel)
	assert.True(t, filepath.IsAbs(rel))
}

func TestCanonicalizeLinkThenParent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	t.Parallel()

	dir := tempDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "x", "y"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join("x", "y"), filepath.Join(dir, "link")))

	got, err := fsio.Canonicalize(dir, filepath.Join("link", ".."))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x"), got)

	sep := string(filepath.Separator)
	got, err = fsio.Canonicalize("", dir+sep+"link"+sep+"..")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x"), got)
}

func TestCanonicalizeErrors(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)

	_, err := fsio.Canonicalize(dir, "")
	require.Error(t, err)

	_, err = fsio.Canonicalize(dir, "missing")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveStartDirectory(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)
	assert.Equal(t, dir, fsio.ResolveStartDirectory(dir))
	assert.Equal(t, dir, fsio.ResolveStartDirectory(filepath.Join(dir, "gone", "deeper")))
}

func TestParent(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)
	parent, ok := fsio.Parent(filepath.Join(dir, "x"))
	assert.True(t, ok)
	assert.Equal(t, dir, parent)

	root := filepath.VolumeName(dir) + string(filepath.Separator)
	_, ok = fsio.Parent(root)
	assert.False(t, ok)
}

func TestCheckDirectory(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)
	file := filepath.Join(dir, "f.txt")
	writeFile(t, file, "x")

	require.NoError(t, fsio.CheckDirectory(dir))
	require.ErrorIs(t, fsio.CheckDirectory(file), fsio.ErrNotDirectory)

	err := fsio.CheckDirectory(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, fsio.ErrNotDirectory)
}
