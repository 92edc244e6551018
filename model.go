package main

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"fexplorer/internal/config"
	"fexplorer/internal/explorer"
	"fexplorer/internal/fsio"
	"fexplorer/internal/preview"
	"fexplorer/internal/store"
)

type appTab int

const (
	tabMain appTab = iota
	tabSettings
)

type focusArea int

const (
	focusList focusArea = iota
	focusLocation
	focusFilter
)

// One poll of the pending directory read per frame.
const frameInterval = 16 * time.Millisecond

const maxRecent = 9

type model struct {
	ctx   context.Context
	cfg   *config.Config
	saved *config.Config
	nav   *explorer.Navigator
	store *store.Store
	log   *zap.Logger
	icons iconConfig
	keys  keyMap

	tab      appTab
	focus    focusArea
	showHelp bool

	// Directory listing
	listing  fsio.Listing
	entries  []fsio.Entry
	selected int
	task     *fsio.Task
	taskGen  int
	loadErr  string

	// Location bar
	location        textinput.Model
	completions     []string
	completionIndex int
	suggestion      string
	selection       *locationSelection

	// Filter
	filter textinput.Model

	// Preview pane
	preview        preview.Result
	previewLoading bool
	previewVP      viewport.Model

	// Recent locations overlay
	recent     []store.Location
	showRecent bool

	settingsIndex int

	status     string
	statusErr  bool
	spin       spinner.Model
	help       help.Model
	windowSize tea.WindowSizeMsg
	started    time.Time
	firstLoad  time.Duration
}

type pollMsg struct{ gen int }

type previewMsg struct{ result preview.Result }

type recentMsg struct {
	locations []store.Location
	err       error
}

// newModel builds the UI. cfg is what the session runs with; saved is the
// settings file, which only changes through the Settings tab.
func newModel(ctx context.Context, cfg, saved *config.Config, nav *explorer.Navigator, st *store.Store, log *zap.Logger) model {
	location := textinput.New()
	location.Prompt = ""
	location.Placeholder = "path"
	location.SetValue(nav.Current())

	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter"

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := model{
		ctx:       ctx,
		cfg:       cfg,
		saved:     saved,
		nav:       nav,
		store:     st,
		log:       log,
		icons:     iconsFor(cfg.Icons),
		keys:      defaultKeyMap(),
		location:  location,
		filter:    filter,
		previewVP: viewport.New(40, 10),
		spin:      s,
		help:      help.New(),
		started:   time.Now(),
	}

	// The first read starts right away; the UI does not wait for it.
	m.startRead(nav.Current())
	if p := nav.Preview(); p != "" {
		m.previewLoading = true
		m.preview = preview.Result{Path: p}
	}
	return m
}

// INIT
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.pollCmd(), m.spin.Tick, m.loadRecent(), m.recordVisit(m.nav.Current())}
	if p := m.nav.Preview(); p != "" {
		cmds = append(cmds, m.setPreview(p))
	}
	return tea.Batch(cmds...)
}

// UPDATE
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowSize = msg
		m.resizePreview()
		return m, nil

	case pollMsg:
		return m.handlePoll(msg)

	case previewMsg:
		// Only the preview that is still selected is shown.
		if msg.result.Path != m.nav.Preview() {
			return m, nil
		}
		m.previewLoading = false
		m.preview = msg.result
		if msg.result.Err != nil {
			m.log.Warn("preview failed", zap.String("path", msg.result.Path), zap.Error(msg.result.Err))
		}
		m.previewVP.SetContent(msg.result.Body)
		m.previewVP.GotoTop()
		return m, nil

	case recentMsg:
		if msg.err != nil {
			m.log.Warn("loading recent locations failed", zap.Error(msg.err))
			return m, nil
		}
		m.recent = msg.locations
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		if m.tab == tabMain && !m.showHelp && !m.showRecent {
			return m.updateMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showHelp {
			// Any key exits help
			m.showHelp = false
			return m, nil
		}
		if m.showRecent {
			return m.updateRecent(msg)
		}
		switch m.tab {
		case tabSettings:
			return m.updateSettings(msg)
		default:
			return m.updateMain(msg)
		}
	}
	return m, nil
}

// dispatch runs an explorer command and reacts to its events.
func (m model) dispatch(cmd explorer.Command) (model, tea.Cmd) {
	var cmds []tea.Cmd

	for _, ev := range m.nav.Apply(cmd) {
		switch ev := ev.(type) {
		case explorer.DirectoryChanged:
			m.status = ""
			m.location.SetValue(ev.To)
			m.selection = nil
			m.filter.SetValue("")
			m.completions = nil
			m.suggestion = ""
			m.selected = 0
			cmds = append(cmds, m.startRead(ev.To), m.recordVisit(ev.To))

		case explorer.ReloadRequested:
			cmds = append(cmds, m.startRead(ev.Path))

		case explorer.PreviewChanged:
			cmds = append(cmds, m.setPreview(ev.Path))

		case explorer.NavigationFailed:
			m.setStatus(ev.Err.Error(), true)
		}
	}

	return m, tea.Batch(cmds...)
}

// startRead cancels the pending read, if any, and reads path. Results of the
// cancelled read are never applied.
func (m *model) startRead(path string) tea.Cmd {
	if m.task != nil {
		m.task.Cancel()
	}
	m.taskGen++
	m.task = fsio.StartRead(m.ctx, path)
	m.loadErr = ""
	return tea.Batch(m.pollCmd(), m.spin.Tick)
}

func (m model) pollCmd() tea.Cmd {
	gen := m.taskGen
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return pollMsg{gen: gen} })
}

func (m model) handlePoll(msg pollMsg) (tea.Model, tea.Cmd) {
	if m.task == nil || msg.gen != m.taskGen {
		return m, nil
	}

	res, done := m.task.Poll()
	if !done {
		return m, m.pollCmd()
	}

	task := m.task
	m.task = nil

	if res.Err != nil {
		if !errors.Is(res.Err, context.Canceled) {
			m.log.Error("loader error", zap.String("path", task.Path()), zap.Error(res.Err))
			m.loadErr = res.Err.Error()
		}
		return m, nil
	}
	if task.Path() != m.nav.Current() {
		return m, nil
	}

	m.log.Debug("read_dir done",
		zap.String("path", task.Path()),
		zap.Int("entries", len(res.Listing.Entries)),
		zap.Duration("elapsed", res.Elapsed))

	if m.firstLoad == 0 {
		m.firstLoad = time.Since(m.started)
	}
	m.setListing(res.Listing)
	return m, nil
}

// setListing replaces the listing and keeps the cursor on the same entry
// when it is still there.
func (m *model) setListing(l fsio.Listing) {
	var current string
	if m.selected < len(m.entries) {
		current = m.entries[m.selected].Path
	}

	m.listing = l
	m.applyFilter()

	m.selected = 0
	for i, e := range m.entries {
		if e.Path == current {
			m.selected = i
			break
		}
	}
}

// applyFilter recomputes the visible entries from the listing, the hidden
// setting and the fuzzy filter.
func (m *model) applyFilter() {
	visible := m.listing.Visible(m.cfg.ShowHidden)

	query := m.filter.Value()
	if query == "" {
		m.entries = visible
	} else {
		names := make([]string, len(visible))
		for i, e := range visible {
			names[i] = e.Name
		}
		matches := fuzzy.Find(query, names)
		m.entries = make([]fsio.Entry, 0, len(matches))
		for _, match := range matches {
			m.entries = append(m.entries, visible[match.Index])
		}
	}

	if m.selected >= len(m.entries) {
		m.selected = max(0, len(m.entries)-1)
	}
}

func (m *model) setPreview(path string) tea.Cmd {
	if path == "" {
		m.preview = preview.Result{}
		m.previewLoading = false
		m.previewVP.SetContent("")
		return nil
	}

	m.previewLoading = true
	m.preview = preview.Result{Path: path}
	opts := preview.Options{
		MaxBytes: m.cfg.Preview.MaxBytes,
		Style:    m.cfg.Preview.Style,
		Hash:     m.cfg.Preview.Hash,
		Width:    m.previewVP.Width,
		Height:   m.previewVP.Height,
	}
	return func() tea.Msg {
		return previewMsg{result: preview.Render(path, opts)}
	}
}

func (m *model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// activate opens the selected entry: files are previewed, directories and
// links are entered.
func (m model) activate() (model, tea.Cmd) {
	if m.selected >= len(m.entries) {
		return m, nil
	}
	entry := m.entries[m.selected]

	switch entry.Type {
	case fsio.File:
		return m.dispatch(explorer.SetPreview{Path: entry.Path})
	case fsio.Directory, fsio.Symlink:
		return m.dispatch(explorer.SetDirectory{Path: entry.Path})
	default:
		return m, nil
	}
}

// rebuild drops every view cache and reloads, keeping navigation state.
func (m model) rebuild() (model, tea.Cmd) {
	m.log.Debug("rebuild ui")

	m.icons = iconsFor(m.cfg.Icons)
	m.showHelp = false
	m.showRecent = false
	m.focus = focusList
	m.location.Blur()
	m.location.SetValue(m.nav.Current())
	m.filter.Blur()
	m.filter.SetValue("")
	m.completions = nil
	m.suggestion = ""
	m.selection = nil
	m.status = ""
	m.firstLoad = 0
	m.started = time.Now()
	m.resizePreview()

	cmds := []tea.Cmd{m.startRead(m.nav.Current()), m.loadRecent()}
	if p := m.nav.Preview(); p != "" {
		cmds = append(cmds, m.setPreview(p))
	}
	return m, tea.Batch(cmds...)
}

func (m model) loadRecent() tea.Cmd {
	if m.store == nil {
		return nil
	}
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		locs, err := st.Recent(ctx, maxRecent)
		return recentMsg{locations: locs, err: err}
	}
}

func (m model) recordVisit(path string) tea.Cmd {
	if m.store == nil {
		return nil
	}
	st, ctx, log := m.store, m.ctx, m.log
	return func() tea.Msg {
		if err := st.RecordVisit(ctx, path, time.Now()); err != nil {
			log.Warn("record visit failed", zap.Error(err))
			return nil
		}
		locs, err := st.Recent(ctx, maxRecent)
		return recentMsg{locations: locs, err: err}
	}
}

// Responsive layout helpers
func (m model) getWidth() int {
	if m.windowSize.Width > 0 {
		return m.windowSize.Width
	}
	return 100 // default width
}

func (m model) getHeight() int {
	if m.windowSize.Height > 0 {
		return m.windowSize.Height
	}
	return 30 // default height
}

func (m model) horizontal() bool {
	switch m.cfg.PanelLayout {
	case config.LayoutHorizontal:
		return true
	case config.LayoutVertical:
		return false
	default:
		return m.getWidth() >= 100
	}
}

// Rows used by the tab bar, navigation bar and the line under it, and by
// the footer.
const (
	headerLines = 3
	footerLines = 2
)

type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// panes returns the outer rectangles of the list and preview panels.
func (m model) panes() (list, prev rect) {
	width := m.getWidth()
	height := max(6, m.getHeight()-headerLines-footerLines)

	if m.horizontal() {
		lw := max(20, width*2/5)
		return rect{0, headerLines, lw, height}, rect{lw, headerLines, max(10, width-lw), height}
	}
	lh := max(3, height/2)
	return rect{0, headerLines, width, lh}, rect{0, headerLines + lh, width, max(3, height-lh)}
}

func (m *model) resizePreview() {
	_, p := m.panes()
	// Border and title line.
	m.previewVP.Width = max(1, p.w-2)
	m.previewVP.Height = max(1, p.h-4)
}

// listRows is how many entries fit in the list panel.
func (m model) listRows() int {
	l, _ := m.panes()
	return max(1, l.h-3)
}

// listWindow returns the first visible entry index for the current
// selection.
func (m model) listWindow() int {
	rows := m.listRows()
	if m.selected >= rows {
		return m.selected - rows + 1
	}
	return 0
}

func (m model) selectedEntry() (fsio.Entry, bool) {
	if m.selected < len(m.entries) {
		return m.entries[m.selected], true
	}
	return fsio.Entry{}, false
}

func displayName(e fsio.Entry) string {
	switch {
	case e.Type == fsio.Directory:
		return e.Name + string(filepath.Separator)
	case e.LinkTarget != "":
		return e.Name + " -> " + e.LinkTarget
	default:
		return e.Name
	}
}
