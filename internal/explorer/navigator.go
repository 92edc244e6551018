package explorer

import (
	"errors"
	"os"
	"slices"

	"go.uber.org/zap"

	"fexplorer/internal/fsio"
)

// History holds the back and next stacks. The last element of each slice is
// the top of the stack.
type History struct {
	Back []string
	Next []string
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the logger used for navigation warnings.
func WithLogger(log *zap.Logger) Option {
	return func(n *Navigator) { n.log = log }
}

// WithChdir makes every accepted navigation also change the process working
// directory.
func WithChdir(enabled bool) Option {
	return func(n *Navigator) { n.chdir = enabled }
}

// Navigator is the explorer's navigation state machine. It is not safe for
// concurrent use; the UI loop owns it.
type Navigator struct {
	current string
	preview string
	history History

	log   *zap.Logger
	chdir bool
}

type outcome int

const (
	moved outcome = iota
	unchanged
	rejected
)

// New creates a Navigator at start. A start path that does not exist falls
// back to its closest existing ancestor. A start path that is a file opens
// its directory with the file previewed.
func New(start string, opts ...Option) *Navigator {
	n := &Navigator{log: zap.NewNop()}
	for _, opt := range opts {
		opt(n)
	}

	dir := fsio.ResolveStartDirectory(start)
	if canonical, err := fsio.Canonicalize("", dir); err == nil {
		dir = canonical
	}
	if err := fsio.CheckDirectory(dir); errors.Is(err, fsio.ErrNotDirectory) {
		if parent, ok := fsio.Parent(dir); ok {
			n.log.Info("start path is not a directory, opening as preview", zap.String("path", dir))
			n.preview = dir
			dir = parent
		}
	}
	n.current = dir

	if n.chdir {
		if err := os.Chdir(dir); err != nil {
			n.log.Warn("initial chdir failed", zap.String("path", dir), zap.Error(err))
		}
	}

	return n
}

// Current is the directory being displayed.
func (n *Navigator) Current() string { return n.current }

// Preview is the selected preview path, or "" when nothing is selected.
func (n *Navigator) Preview() string { return n.preview }

// History returns a copy of the navigation history.
func (n *Navigator) History() History {
	return History{Back: slices.Clone(n.history.Back), Next: slices.Clone(n.history.Next)}
}

// CanBack reports whether HistoryBack has somewhere to go.
func (n *Navigator) CanBack() bool { return len(n.history.Back) > 0 }

// CanNext reports whether HistoryNext has somewhere to go.
func (n *Navigator) CanNext() bool { return len(n.history.Next) > 0 }

// Apply executes cmd and returns the resulting events in order.
func (n *Navigator) Apply(cmd Command) []Event {
	n.log.Debug("explorer command", zap.Any("command", cmd))

	switch c := cmd.(type) {
	case Reload:
		return []Event{ReloadRequested{Path: n.current}}

	case SetPreview:
		return n.setPreview(c.Path)

	case SetDirectory:
		return n.navigate(c.Path)

	case GotoParent:
		parent, ok := fsio.Parent(n.current)
		if !ok {
			return nil
		}
		return n.navigate(parent)

	case HistoryBack:
		if len(n.history.Back) == 0 {
			return nil
		}
		from := n.current
		target := n.history.Back[len(n.history.Back)-1]
		n.history.Back = n.history.Back[:len(n.history.Back)-1]
		events, out := n.move(target)
		if out == moved {
			n.history.Next = append(n.history.Next, from)
		}
		return events

	case HistoryNext:
		if len(n.history.Next) == 0 {
			return nil
		}
		from := n.current
		target := n.history.Next[len(n.history.Next)-1]
		n.history.Next = n.history.Next[:len(n.history.Next)-1]
		events, out := n.move(target)
		if out == moved {
			n.history.Back = append(n.history.Back, from)
		}
		return events

	default:
		n.log.Warn("unknown explorer command", zap.Any("command", cmd))
		return nil
	}
}

// navigate is a fresh navigation: it records the previous directory and
// drops the forward history.
func (n *Navigator) navigate(path string) []Event {
	from := n.current
	events, out := n.move(path)
	if out == moved {
		n.history.Back = append(n.history.Back, from)
		n.history.Next = nil
	}
	return events
}

// move resolves path against the current directory and enters it. A path
// that is not a directory turns into a preview request.
func (n *Navigator) move(path string) ([]Event, outcome) {
	target, err := fsio.Canonicalize(n.current, path)
	if err != nil {
		n.log.Warn("cannot resolve directory", zap.String("path", path), zap.Error(err))
		return []Event{NavigationFailed{Path: path, Err: err}}, rejected
	}
	if target == n.current {
		return nil, unchanged
	}

	if err := n.enter(target); err != nil {
		if errors.Is(err, fsio.ErrNotDirectory) {
			n.log.Info("not a directory, opening as preview", zap.String("path", target))
			return n.setPreview(target), rejected
		}
		n.log.Warn("set directory failed", zap.String("path", target), zap.Error(err))
		return []Event{NavigationFailed{Path: target, Err: err}}, rejected
	}

	n.log.Info("directory changed", zap.String("from", n.current), zap.String("to", target))

	events := []Event{DirectoryChanged{From: n.current, To: target}}
	n.current = target
	if n.preview != "" {
		n.preview = ""
		events = append(events, PreviewChanged{})
	}
	return events, moved
}

func (n *Navigator) enter(dir string) error {
	if err := fsio.CheckDirectory(dir); err != nil {
		return err
	}
	if n.chdir {
		return os.Chdir(dir)
	}
	return nil
}

func (n *Navigator) setPreview(path string) []Event {
	if path == "" {
		n.preview = ""
		return []Event{PreviewChanged{}}
	}

	canonical, err := fsio.Canonicalize(n.current, path)
	if err != nil {
		n.log.Warn("cannot resolve preview path", zap.String("path", path), zap.Error(err))
		canonical = ""
	}
	n.preview = canonical
	return []Event{PreviewChanged{Path: canonical}}
}
