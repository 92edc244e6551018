// Package explorer holds the navigation state of the file explorer: the
// current directory, back/next history and the preview path.
package explorer

import "fmt"

// Command is a request from the UI. It is one of Reload, SetPreview,
// SetDirectory, HistoryBack, HistoryNext or GotoParent.
type Command interface {
	command()
}

// Reload re-reads the current directory.
type Reload struct{}

// SetPreview selects a file for preview. An empty Path clears the preview.
type SetPreview struct{ Path string }

// SetDirectory navigates to Path, relative to the current directory unless
// absolute.
type SetDirectory struct{ Path string }

// HistoryBack returns to the previously visited directory.
type HistoryBack struct{}

// HistoryNext undoes a HistoryBack.
type HistoryNext struct{}

// GotoParent navigates to the parent of the current directory.
type GotoParent struct{}

func (Reload) command()       {}
func (SetPreview) command()   {}
func (SetDirectory) command() {}
func (HistoryBack) command()  {}
func (HistoryNext) command()  {}
func (GotoParent) command()   {}

func (Reload) String() string         { return "Reload" }
func (c SetPreview) String() string   { return fmt.Sprintf("SetPreview(%q)", c.Path) }
func (c SetDirectory) String() string { return fmt.Sprintf("SetDirectory(%q)", c.Path) }
func (HistoryBack) String() string    { return "HistoryBack" }
func (HistoryNext) String() string    { return "HistoryNext" }
func (GotoParent) String() string     { return "GotoParent" }

// Event reports a state change caused by a Command.
type Event interface {
	event()
}

// DirectoryChanged is emitted after the current directory moved.
type DirectoryChanged struct {
	From string
	To   string
}

// PreviewChanged is emitted whenever the preview path is set or cleared.
type PreviewChanged struct{ Path string }

// ReloadRequested asks the owner to re-read Path.
type ReloadRequested struct{ Path string }

// NavigationFailed reports a rejected navigation. State is unchanged.
type NavigationFailed struct {
	Path string
	Err  error
}

func (DirectoryChanged) event() {}
func (PreviewChanged) event()   {}
func (ReloadRequested) event()  {}
func (NavigationFailed) event() {}
