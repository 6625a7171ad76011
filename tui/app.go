// ABOUTME: Top-level Bubble Tea AppModel that watches a source file and shows its automaton.
// ABOUTME: Routes reloads into the viewer session and keys to toggles, history, export, and scrolling.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2389-research/automatizer/render"
	"github.com/2389-research/automatizer/viewer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultWatchInterval is how often the source file is polled for changes.
const DefaultWatchInterval = 500 * time.Millisecond

// FocusTarget indicates which panel currently has keyboard focus.
type FocusTarget int

const (
	FocusTable FocusTarget = iota
	FocusLog
)

// AppModel is the top-level Bubble Tea model.
type AppModel struct {
	graph     GraphPanelModel
	table     TablePanelModel
	log       LogPanelModel
	statusBar StatusBarModel

	session  *viewer.Session
	exporter render.ImageExporter
	path     string
	ctx      context.Context
	interval time.Duration

	modTime  time.Time
	watching bool
	regexp   string
	focus    FocusTarget
	width    int
	height   int
}

// NewAppModel creates an AppModel that displays path through session.
// exporter may be nil to export DOT only.
func NewAppModel(ctx context.Context, session *viewer.Session, path string, exporter render.ImageExporter) AppModel {
	m := AppModel{
		graph:     NewGraphPanelModel(),
		table:     NewTablePanelModel(),
		log:       NewLogPanelModel(200),
		statusBar: NewStatusBarModel(path),
		session:   session,
		exporter:  exporter,
		path:      path,
		ctx:       ctx,
		interval:  DefaultWatchInterval,
		focus:     FocusTable,
	}
	m.table.SetFocused(true)
	m.statusBar.SetOptions(session.Options())
	m.sync()
	return m
}

// Init implements tea.Model. The first load starts the watch loop.
func (m AppModel) Init() tea.Cmd {
	return LoadFileCmd(m.path)
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SourceLoadedMsg:
		return m.handleSourceLoaded(msg)

	case TickMsg:
		return m, WatchCmd(m.path, m.modTime, m.interval)

	case ExportedMsg:
		return m.handleExported(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// View implements tea.Model. Renders the full TUI layout with all panels.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	// Minimum terminal size guard to prevent layout overflow
	if m.width < 40 || m.height < 10 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 40x10.", m.width, m.height)
	}

	statusBarHeight := 1
	regexpHeight := 0
	if m.session.Options().ShowRegexp {
		regexpHeight = 1
	}
	graphHeight := max((m.height-statusBarHeight-regexpHeight)*35/100, 3)
	bottomHeight := max(m.height-statusBarHeight-regexpHeight-graphHeight, 3)

	tableWidth := max(m.width*55/100, 10)
	logWidth := max(m.width-tableWidth, 10)

	m.graph.SetWidth(m.width)
	m.table.SetSize(tableWidth, bottomHeight)
	m.log.SetSize(logWidth, bottomHeight)
	m.statusBar.SetWidth(m.width)

	var b strings.Builder
	b.WriteString(m.graph.View())
	b.WriteString("\n")
	if regexpHeight > 0 {
		b.WriteString(RegexpStyle.Render("regexp: " + m.regexp))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.table.View(), m.log.View()))
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	return b.String()
}

// handleSourceLoaded refreshes the session from new file contents. A failed
// refresh leaves the previous automaton on screen. Only one watch loop runs:
// it is started by the first load and continued by its own results.
func (m AppModel) handleSourceLoaded(msg SourceLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err == nil {
		m.modTime = msg.ModTime
	}
	var watch tea.Cmd
	if msg.FromWatch || !m.watching {
		m.watching = true
		watch = WatchCmd(m.path, m.modTime, m.interval)
	}

	if msg.Err != nil {
		m.log.Append(LogError, fmt.Sprintf("read %s: %v", msg.Path, msg.Err))
		m.statusBar.MarkReload(time.Now(), true)
		return m, watch
	}

	if err := m.session.Refresh(msg.Source); err != nil {
		m.log.Append(LogError, "refresh failed: "+err.Error())
		m.statusBar.MarkReload(time.Now(), true)
		return m, watch
	}
	m.statusBar.MarkReload(time.Now(), false)
	m.sync()
	m.log.Append(LogSuccess, fmt.Sprintf("loaded %s: %d states, %d edges", msg.Path, len(m.graph.model.Nodes), m.table.Len()))
	return m, watch
}

func (m AppModel) handleExported(msg ExportedMsg) (tea.Model, tea.Cmd) {
	for _, p := range msg.Paths {
		m.log.Append(LogSuccess, "wrote "+p)
	}
	if msg.Err != nil {
		m.log.Append(LogError, "export: "+msg.Err.Error())
	}
	return m, nil
}

// handleKeyMsg processes app-level shortcuts and forwards the rest to the focused panel.
func (m AppModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.log.Append(LogInfo, "reloading "+m.path)
		return m, LoadFileCmd(m.path)
	case "m":
		return m.toggle(func(o *viewer.Options) { o.Minimize = !o.Minimize }), nil
	case "s":
		return m.toggle(func(o *viewer.Options) { o.Streaming = !o.Streaming }), nil
	case "x":
		return m.toggle(func(o *viewer.Options) { o.ShowRegexp = !o.ShowRegexp }), nil
	case "u":
		return m.step("undo", m.session.Undo), nil
	case "U", "ctrl+r":
		return m.step("redo", m.session.Redo), nil
	case "e":
		snap, ok := m.session.Snapshot()
		if !ok {
			m.log.Append(LogError, "export: nothing loaded")
			return m, nil
		}
		m.log.Append(LogInfo, "exporting")
		return m, ExportCmd(m.ctx, m.exporter, snap, m.path)
	case "tab":
		m.focus = m.nextFocus()
		m.table.SetFocused(m.focus == FocusTable)
		m.log.SetFocused(m.focus == FocusLog)
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == FocusLog {
		m.log, cmd = m.log.Update(msg)
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// toggle flips one view option and rebuilds the session view.
func (m AppModel) toggle(flip func(*viewer.Options)) AppModel {
	opts := m.session.Options()
	flip(&opts)
	if err := m.session.SetOptions(opts); err != nil {
		m.log.Append(LogError, "options: "+err.Error())
		return m
	}
	m.statusBar.SetOptions(opts)
	m.sync()
	m.log.Append(LogInfo, fmt.Sprintf("options minimize=%t streaming=%t regexp=%t", opts.Minimize, opts.Streaming, opts.ShowRegexp))
	return m
}

// step runs undo or redo and rebuilds the panels.
func (m AppModel) step(name string, fn func() error) AppModel {
	if err := fn(); err != nil {
		level := LogError
		if errors.Is(err, viewer.ErrNothingToUndo) || errors.Is(err, viewer.ErrNothingToRedo) {
			level = LogInfo
		}
		m.log.Append(level, name+": "+err.Error())
		return m
	}
	m.sync()
	m.log.Append(LogInfo, name)
	return m
}

// sync copies the session's current snapshot into the panels.
func (m *AppModel) sync() {
	snap, ok := m.session.Snapshot()
	if !ok {
		return
	}
	m.graph.SetModel(snap.Model)
	m.table.SetModel(snap.Model)
	m.statusBar.SetCounts(len(snap.Model.Nodes), len(snap.Model.Edges))

	switch {
	case snap.RegexpErr != nil:
		m.regexp = "(" + snap.RegexpErr.Error() + ")"
	default:
		m.regexp = snap.Regexp
	}
}

// nextFocus cycles the focus target between table and log.
func (m AppModel) nextFocus() FocusTarget {
	if m.focus == FocusTable {
		return FocusLog
	}
	return FocusTable
}
