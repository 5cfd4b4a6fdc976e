package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridmap/internal/config"
	"github.com/vovakirdan/gridmap/internal/core"
	"github.com/vovakirdan/gridmap/internal/editor"
	"github.com/vovakirdan/gridmap/internal/grid"
	"github.com/vovakirdan/gridmap/internal/mapview"
	"github.com/vovakirdan/gridmap/internal/pointer"
	"github.com/vovakirdan/gridmap/internal/watch"
)

// Mode selects what the arrow keys and the mouse do.
type Mode int

const (
	ModeEdit    Mode = iota // mouse drags draw walls, arrows move the lattice cursor
	ModeExplore             // arrows move the party
)

// String returns the mode name shown in the status bar.
func (m Mode) String() string {
	if m == ModeExplore {
		return "EXPLORE"
	}
	return "EDIT"
}

// Options configures a Model.
type Options struct {
	Config config.Config
	Mode   Mode
	// ReadOnly disables editing, saving and mode switching.
	ReadOnly bool
	// Watcher, when set, reloads the session's file on change.
	Watcher *watch.Watcher
	// Start is the explorer's first cell; it falls back to (0,0).
	Start   grid.Point
	Runtime core.RuntimeConfig
}

// Model is the Bubble Tea model of the map editor and explorer.
type Model struct {
	ctx        context.Context
	cfg        config.Config
	session    *editor.Session
	explorer   *editor.Explorer // walks a copy, so reveals never reach the file
	stale      bool             // session edited since the explorer's copy was taken
	tracker    *pointer.Tracker
	res        pointer.Resolver
	zooms      *config.ZoomCycler
	layout     mapview.Layout
	runtime    core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	mode       Mode
	readOnly   bool
	showHidden bool
	cursor     grid.Point  // lattice cursor for keyboard editing
	hover      *grid.Point // lattice point under a dragging pointer
	highlight  *grid.Edge  // segment under a right-button press
	status     string
	statusErr  bool
	statusSeq  int
	watcher    *watch.Watcher
	quitting   bool
}

// NewModel builds a model around session.
func NewModel(ctx context.Context, session *editor.Session, opts Options) (Model, error) {
	res, err := pointer.NewResolver(opts.Config.Pointer)
	if err != nil {
		return Model{}, err
	}

	start := opts.Start
	if !session.Map().Dims().ContainsCell(start) {
		start = grid.P(0, 0)
	}
	explorer, err := editor.NewExplorer(session.Map().Clone(), start)
	if err != nil {
		return Model{}, err
	}

	runtime := opts.Runtime
	if runtime.ScreenW <= 0 || runtime.ScreenH <= 0 {
		runtime = core.DefaultConfig()
	}

	keys := DefaultKeyMap()
	mode := opts.Mode
	if opts.ReadOnly {
		keys = ExploreKeyMap()
		mode = ModeExplore
	}

	m := Model{
		ctx:        ctx,
		cfg:        opts.Config,
		session:    session,
		explorer:   explorer,
		tracker:    pointer.NewTracker(res),
		res:        res,
		zooms:      config.NewZoomCycler(opts.Config.View.ZoomPresets, opts.Config.View.DefaultZoom),
		runtime:    runtime,
		keys:       keys,
		help:       help.New(),
		mode:       mode,
		readOnly:   opts.ReadOnly,
		showHidden: opts.Config.View.ShowHidden,
		watcher:    opts.Watcher,
	}
	m.help.Width = runtime.ScreenW
	m.relayout()
	return m, nil
}

// Init starts listening for file changes.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.watcher)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.runtime.ScreenW = msg.Width
		m.runtime.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.relayout()
		return m, nil

	case fileChangedMsg:
		cmd := m.reload()
		return m, tea.Batch(cmd, waitForChange(m.watcher))

	case watchErrMsg:
		cmd := m.setStatus("watch: "+msg.err.Error(), true)
		return m, tea.Batch(cmd, waitForChange(m.watcher))

	case clearStatusMsg:
		if int(msg) == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if dir, present, ok := m.keys.Chord(msg); ok {
		if m.mode != ModeEdit {
			return m, nil
		}
		return m, m.drawFromCursor(dir, present)
	}

	action := m.keys.Action(msg)
	if dir, ok := action.Direction(); ok {
		return m, m.move(dir)
	}

	var cmd tea.Cmd
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionUndo:
		if m.session.Undo() {
			m.stale = true
			cmd = m.setStatus("undo", false)
		} else {
			cmd = m.setStatus("nothing to undo", false)
		}

	case core.ActionRedo:
		if m.session.Redo() {
			m.stale = true
			cmd = m.setStatus("redo", false)
		} else {
			cmd = m.setStatus("nothing to redo", false)
		}

	case core.ActionSave:
		cmd = m.save()

	case core.ActionReload:
		cmd = m.reload()

	case core.ActionNew:
		cmd = m.newMap()

	case core.ActionZoomIn:
		m.zooms.Next()
		m.relayout()
		cmd = m.setStatus("zoom "+m.zooms.Current().Name, false)

	case core.ActionZoomOut:
		m.zooms.Prev()
		m.relayout()
		cmd = m.setStatus("zoom "+m.zooms.Current().Name, false)

	case core.ActionToggleHidden:
		m.showHidden = !m.showHidden

	case core.ActionToggleMode:
		if m.mode == ModeEdit {
			if m.stale {
				if err := m.rebindExplorer(); err != nil {
					return m, m.setStatus(err.Error(), true)
				}
			}
			m.mode = ModeExplore
		} else {
			m.mode = ModeEdit
		}
		m.tracker.Release()
		m.hover, m.highlight = nil, nil
		m.relayout()

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		m.relayout()
	}
	return m, cmd
}

// move steps the party or the lattice cursor.
func (m *Model) move(dir grid.Direction) tea.Cmd {
	if m.mode == ModeExplore {
		moved, err := m.explorer.Move(dir)
		if err != nil {
			return m.setStatus(err.Error(), true)
		}
		if moved {
			m.layout.Follow(m.explorer.Position(), m.mapArea())
		}
		return nil
	}

	next := m.cursor.Step(dir)
	if m.session.Map().Dims().ContainsLattice(next) {
		m.cursor = next
	}
	return nil
}

// stepToward moves the party into the clicked cell when it is a neighbour.
func (m *Model) stepToward(wx, wy, zoom float64) tea.Cmd {
	cell, err := m.res.NearestCell(wx, wy, zoom)
	if err != nil {
		return nil
	}
	party := m.explorer.Position()
	for _, d := range grid.Directions() {
		if party.Step(d) == cell {
			return m.move(d)
		}
	}
	return nil
}

// drawFromCursor places or clears the wall between the cursor and its
// neighbour in dir, then moves the cursor there.
func (m *Model) drawFromCursor(dir grid.Direction, present bool) tea.Cmd {
	e := grid.Edge{A: m.cursor, B: m.cursor.Step(dir)}
	return m.apply(pointer.Commit{Edge: e, Present: present}, func() { m.cursor = e.B })
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	zoom := m.cfg.Map.Zoom
	wx, wy := m.layout.World(m.res, zoom, msg.X, msg.Y)

	if m.mode == ModeExplore {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m, m.stepToward(wx, wy, zoom)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.tracker.Press(wx, wy, zoom) {
			anchor, _ := m.tracker.Anchor()
			if m.session.Map().Dims().ContainsLattice(anchor) {
				m.cursor = anchor
			}
			m.hover = &anchor
		}

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight:
		if c, ok := m.tracker.Erase(wx, wy, zoom); ok {
			e := c.Edge
			cmd = m.apply(c, func() { m.highlight = &e })
		}

	case msg.Action == tea.MouseActionMotion && m.tracker.Active():
		if c, ok := m.tracker.Drag(wx, wy, zoom); ok {
			cmd = m.apply(c, func() { m.cursor = c.Edge.B })
		}
		if snap, err := m.res.NearestLatticePoint(wx, wy, zoom); err == nil {
			p := snap.Point
			m.hover = &p
		}

	case msg.Action == tea.MouseActionRelease:
		m.tracker.Release()
		m.hover, m.highlight = nil, nil
	}
	return m, cmd
}

// apply routes a commit through the session. onValid runs when the edge
// lies on the map, whether or not it changed anything.
func (m *Model) apply(c pointer.Commit, onValid func()) tea.Cmd {
	changed, err := m.session.Apply(c)
	if err != nil {
		// Gestures off the map edge resolve to segments outside the lattice.
		log.Debug("tui: edit ignored", "edge", c.Edge, "err", err)
		return m.setStatus("no segment there", true)
	}
	if onValid != nil {
		onValid()
	}
	if !changed {
		return nil
	}
	m.stale = true
	if c.Present {
		return m.setStatus("wall "+c.Edge.String(), false)
	}
	return m.setStatus("removed "+c.Edge.String(), false)
}

func (m *Model) save() tea.Cmd {
	if err := m.session.SaveFile(m.ctx, ""); err != nil {
		if errors.Is(err, editor.ErrNoPath) {
			return m.setStatus("no file bound; start the editor with a path", true)
		}
		return m.setStatus(err.Error(), true)
	}
	return m.setStatus("saved "+m.session.Path(), false)
}

func (m *Model) reload() tea.Cmd {
	changed, err := m.session.Reload(m.ctx)
	switch {
	case errors.Is(err, editor.ErrUnsavedChanges):
		return m.setStatus("file changed on disk; keeping unsaved edits", true)
	case err != nil:
		return m.setStatus(err.Error(), true)
	case !changed:
		return nil
	}
	if err := m.rebindExplorer(); err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.clampCursor()
	m.relayout()
	return m.setStatus("reloaded "+m.session.Path(), false)
}

func (m *Model) newMap() tea.Cmd {
	if m.session.Dirty() {
		return m.setStatus("unsaved changes; save first", true)
	}
	if err := m.session.New(m.cfg.Map.Width, m.cfg.Map.Height); err != nil {
		return m.setStatus(err.Error(), true)
	}
	if err := m.rebindExplorer(); err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.clampCursor()
	m.relayout()
	d := m.session.Map().Dims()
	return m.setStatus(fmt.Sprintf("new %dx%d map", d.X, d.Y), false)
}

// rebindExplorer moves the party onto a fresh copy of the session's map.
func (m *Model) rebindExplorer() error {
	if err := m.explorer.Rebind(m.session.Map().Clone()); err != nil {
		return err
	}
	m.stale = false
	return nil
}

func (m *Model) clampCursor() {
	d := m.session.Map().Dims()
	m.cursor = grid.P(core.Clamp(m.cursor.X, 0, d.X), core.Clamp(m.cursor.Y, 0, d.Y))
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	return clearStatusCmd(m.statusSeq)
}

// chromeHeight is the number of rows below the map: status bar plus help.
func (m Model) chromeHeight() int {
	return 1 + lipgloss.Height(m.help.View(m.keys))
}

func (m Model) mapArea() core.Rect {
	return m.runtime.MapArea(m.chromeHeight())
}

func (m *Model) relayout() {
	area := m.mapArea()
	m.layout = mapview.NewLayout(m.session.Map().Dims(), m.zooms.Current(), area)
	if m.mode == ModeExplore {
		m.layout.Follow(m.explorer.Position(), area)
	} else {
		col, row := m.layout.LatticeToScreen(m.cursor)
		if !area.Contains(col, row) {
			m.layout.Follow(m.cursor, area)
		}
	}
}

// View renders the map, the status bar and the help line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	area := m.mapArea()
	screen := core.NewScreen(area.W, area.H)
	shown := m.session.Map()
	if m.mode == ModeExplore {
		shown = m.explorer.Map()
	}
	mapview.Draw(screen, shown, m.layout, m.drawOptions())

	var b strings.Builder
	b.WriteString(RenderScreen(screen))
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) drawOptions() mapview.Options {
	if m.mode == ModeExplore {
		party := m.explorer.Position()
		return mapview.Options{ShowHidden: m.showHidden, Party: &party}
	}
	opts := mapview.Options{ShowHidden: true, Highlight: m.highlight}
	cursor := m.cursor
	opts.Cursor = &cursor
	if m.hover != nil {
		opts.Cursor = m.hover
	}
	if anchor, ok := m.tracker.Anchor(); ok {
		opts.Anchor = &anchor
	}
	return opts
}

func (m Model) statusBar() string {
	name := "[new]"
	if p := m.session.Path(); p != "" {
		name = filepath.Base(p)
	}
	if m.session.Dirty() {
		name += " *"
	}
	if m.readOnly {
		name += " (read-only)"
	}
	d := m.session.Map().Dims()

	left := fmt.Sprintf(" %s  %s  %dx%d  %s", m.mode, name, d.X, d.Y, m.zooms.Current().Name)
	if m.mode == ModeExplore {
		left += fmt.Sprintf("  steps %d", m.explorer.Steps())
	} else {
		left += "  cursor " + m.cursor.String()
	}

	style := styleFor(core.ColorStatus)
	if m.statusErr {
		style = styleFor(core.ColorError)
	}
	right := style.Render(m.status)

	gap := m.runtime.ScreenW - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	bar := lipgloss.NewStyle().Reverse(true).Render(left)
	return bar + strings.Repeat(" ", gap) + right
}

// Session returns the session the model edits.
func (m Model) Session() *editor.Session {
	return m.session
}

// Run starts the Bubble Tea program for session.
func Run(ctx context.Context, session *editor.Session, opts Options) error {
	model, err := NewModel(ctx, session, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.session.Dirty() {
		log.Warn("quit with unsaved changes", "path", fm.session.Path())
	}
	return nil
}
