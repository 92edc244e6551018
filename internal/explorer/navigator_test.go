package explorer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fexplorer/internal/explorer"
)

// tree creates root/{a/{b/{c}},docs/readme.md} and returns root.
func tree(t *testing.T) string {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b", "c"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "readme.md"), []byte("# hi"), 0o644))

	return root
}

func TestNewResolvesMissingStart(t *testing.T) {
	t.Parallel()

	root := tree(t)
	n := explorer.New(filepath.Join(root, "a", "missing", "deep"))
	assert.Equal(t, filepath.Join(root, "a"), n.Current())
	assert.False(t, n.CanBack())
	assert.False(t, n.CanNext())
}

func TestNewOnFileOpensParentWithPreview(t *testing.T) {
	t.Parallel()

	root := tree(t)
	file := filepath.Join(root, "docs", "readme.md")
	n := explorer.New(file)

	assert.Equal(t, filepath.Join(root, "docs"), n.Current())
	assert.Equal(t, file, n.Preview())
	assert.False(t, n.CanBack())
}

func TestSetDirectoryRelative(t *testing.T) {
	t.Parallel()

	root := tree(t)
	n := explorer.New(root)

	events := n.Apply(explorer.SetDirectory{Path: "a"})
	require.Equal(t, []explorer.Event{
		explorer.DirectoryChanged{From: root, To: filepath.Join(root, "a")},
	}, events)

	assert.Equal(t, filepath.Join(root, "a"), n.Current())
	assert.Equal(t, []string{root}, n.History().Back)
}

func TestSetDirectorySameIsNoop(t *testing.T) {
	t.Parallel()

	root := tree(t)
	n := explorer.New(root)

	assert.Empty(t, n.Apply(explorer.SetDirectory{Path: "."}))
	assert.Empty(t, n.Apply(explorer.SetDirectory{Path: filepath.Join("a", "..")}))
	assert.False(t, n.CanBack())
}

func TestSetDirectoryOnFileBecomesPreview(t *testing.T) {
	t.Parallel()

	root := tree(t)
	n := explorer.New(filepath.Join(root, "docs"))

	events := n.Apply(explorer.SetDirectory{Path: "readme.md"})
	want := filepath.Join(root, "docs", "readme.md")

	require.Equal(t, []explorer.Event{explorer.PreviewChanged{Path: want}}, events)
	assert.Equal(t, filepath.Join(root, "docs"), n.Current())
	assert.Equal(t, want, n.Preview())
	assert.False(t, n.CanBack())
}

func TestSetDirectoryMissingLeavesState(t *testing.T) {
	t.Parallel()

	root := tree(t)
	n := explorer.New(root)

	events := n.Apply(explorer.SetDirectory{Path: "nope"})
	require.Len(t, events, 1)

	failed, ok := events[0].(explorer.NavigationFailed)
	require.True(t, ok)
	assert.Equal(t, "nope", failed.Path)
	require.ErrorIs(t, failed.Err, os.ErrNotExist)

	assert.Equal(t, root, n.Current())
	assert.False(t, n.CanBack())
}

func TestDirectoryChangeClearsPreview(t *testing.T) {
	t.Parallel()

	root := tree(t)
	n := explorer.New(filepath.Join(root, "docs"))
	n.Apply(explorer.SetPreview{Path: "readme.md"})
	require.NotEmpty(t, n.Preview())

	events := n.Apply(explorer.GotoParent{})
	require.Equal(t, []explorer.Event{
		explorer.DirectoryChanged{From: filepath.Join(root, "docs"), To: root},
		explorer.PreviewChanged{},
	}, events)
	assert.Empty(t, n.Preview())
}

func TestBackThenNextRestores(t *testing.T) {
	t.Parallel()

	root := tree(t)
	n := explorer.New(root)

	for _, p := range []string{"a", "b", "c"} {
		n.Apply(explorer.SetDirectory{Path: p})
	}
	deepest := n.Current()
	require.Equal(t, filepath.Join(root, "a", "b", "c"), deepest)

	visited := []string{deepest}
	for i := 0; i < 3; i++ {
		n.Apply(explorer.HistoryBack{})
		visited = append(visited, n.Current())
	}
	assert.Equal(t, root, n.Current())
	assert.False(t, n.CanBack())

	for i := 0; i < 3; i++ {
		n.Apply(explorer.HistoryNext{})
		assert.Equal(t, visited[len(visited)-2-i], n.Current())
	}
	assert.Equal(t, deepest, n.Current())
	assert.False(t, n.CanNext())
	assert.Len(t, n.History().Back, 3)
}

func TestNavigateDropsForwardHistory(t *testing.T) {
	t.Parallel()

	root := tree(t)
	n := explorer.New(root)

	n.Apply(explorer.SetDirectory{Path: "a"})
	n.Apply(explorer.HistoryBack{})
	require.True(t, n.CanNext())

	n.Apply(explorer.SetDirectory{Path: "docs"})
	assert.False(t, n.CanNext())
	assert.Equal(t, []string{root}, n.History().Back)
}

func TestHistoryBackToVanishedDirectory(t *testing.T) {
	t.Parallel()

	root := tree(t)
	n := explorer.New(root)
	n.Apply(explorer.SetDirectory{Path: "a"})
	n.Apply(explorer.SetDirectory{Path: "b"})

	require.NoError(t, os.MkdirAll(filepath.Join(root, "x"), 0o755))
	// Remove the directory we would go back to.
	require.NoError(t, os.RemoveAll(filepath.Join(root, "a", "b", "c")))
	require.NoError(t, os.Rename(filepath.Join(root, "a", "b"), filepath.Join(root, "x", "b")))

	// The current directory moved away; going back to "a" still works.
	events := n.Apply(explorer.HistoryBack{})
	require.Len(t, events, 1)
	assert.Equal(t, filepath.Join(root, "a"), n.Current())

	// Next points at the moved directory: it fails and is dropped.
	events = n.Apply(explorer.HistoryNext{})
	require.Len(t, events, 1)
	_, failed := events[0].(explorer.NavigationFailed)
	assert.True(t, failed)
	assert.False(t, n.CanNext())
	assert.Equal(t, []string{root}, n.History().Back)
	assert.Equal(t, filepath.Join(root, "a"), n.Current())
}

func TestHistoryBackDrainsReplacedDirectory(t *testing.T) {
	t.Parallel()

	root := tree(t)
	n := explorer.New(root)
	n.Apply(explorer.SetDirectory{Path: "a"})
	n.Apply(explorer.SetDirectory{Path: "b"})
	require.Equal(t, []string{root, filepath.Join(root, "a")}, n.History().Back)

	// The directory we would go back to is now a regular file.
	prev := filepath.Join(root, "a")
	require.NoError(t, os.Rename(prev, filepath.Join(root, "moved")))
	require.NoError(t, os.WriteFile(prev, []byte("file"), 0o644))

	events := n.Apply(explorer.HistoryBack{})
	assert.Equal(t, []explorer.Event{explorer.PreviewChanged{Path: prev}}, events)
	assert.Equal(t, []string{root}, n.History().Back)
	assert.False(t, n.CanNext())

	// The entry was dropped, so the next step reaches older history.
	events = n.Apply(explorer.HistoryBack{})
	require.NotEmpty(t, events)
	_, changed := events[0].(explorer.DirectoryChanged)
	assert.True(t, changed)
	assert.Equal(t, root, n.Current())
	assert.False(t, n.CanBack())
	assert.Empty(t, n.Apply(explorer.HistoryBack{}))
}

func TestGotoParentAtRoot(t *testing.T) {
	t.Parallel()

	root := tree(t)
	fsRoot := filepath.VolumeName(root) + string(filepath.Separator)
	n := explorer.New(fsRoot)

	assert.Empty(t, n.Apply(explorer.GotoParent{}))
	assert.Equal(t, fsRoot, n.Current())
}

func TestSetPreview(t *testing.T) {
	t.Parallel()

	root := tree(t)
	n := explorer.New(root)

	events := n.Apply(explorer.SetPreview{Path: filepath.Join("docs", "readme.md")})
	want := filepath.Join(root, "docs", "readme.md")
	assert.Equal(t, []explorer.Event{explorer.PreviewChanged{Path: want}}, events)
	assert.Equal(t, want, n.Preview())

	events = n.Apply(explorer.SetPreview{Path: "missing.txt"})
	assert.Equal(t, []explorer.Event{explorer.PreviewChanged{}}, events)
	assert.Empty(t, n.Preview())

	n.Apply(explorer.SetPreview{Path: want})
	n.Apply(explorer.SetPreview{})
	assert.Empty(t, n.Preview())
}

func TestReload(t *testing.T) {
	t.Parallel()

	root := tree(t)
	n := explorer.New(root)

	assert.Equal(t, []explorer.Event{explorer.ReloadRequested{Path: root}}, n.Apply(explorer.Reload{}))
}

func TestHistoryIsCopied(t *testing.T) {
	t.Parallel()

	root := tree(t)
	n := explorer.New(root)
	n.Apply(explorer.SetDirectory{Path: "a"})

	h := n.History()
	h.Back[0] = "tampered"
	assert.Equal(t, []string{root}, n.History().Back)
}
