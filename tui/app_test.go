// ABOUTME: Tests for the top-level AppModel covering reloads, failure retention, toggles, history, and layout.
// ABOUTME: Messages are fed straight into Update; file commands run against temp files.
package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/2389-research/automatizer/viewer"
	tea "github.com/charmbracelet/bubbletea"
)

const testDOT = `digraph Automaton {
  initial -> 0;
  0 -> 1 [label="a-z"];
  1 -> 1 [label="0"];
  1 [shape=doublecircle];
}`

const secondDOT = `digraph Automaton {
  initial -> 0;
  0 -> 1 [label="x"];
  1 -> 2 [label="y"];
  2 [shape=doublecircle];
}`

func testAppModel(t *testing.T) AppModel {
	t.Helper()
	sess := viewer.NewSession("test", nil, viewer.Options{})
	return NewAppModel(context.Background(), sess, filepath.Join(t.TempDir(), "a.dot"), nil)
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T, want AppModel", next)
	}
	return am, cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, src string) AppModel {
	t.Helper()
	m := testAppModel(t)
	m, _ = update(t, m, SourceLoadedMsg{Path: m.path, Source: src, ModTime: time.Now()})
	return m
}

func TestNewAppModel(t *testing.T) {
	m := testAppModel(t)
	if m.focus != FocusTable || !m.table.IsFocused() {
		t.Error("table should start focused")
	}
	if !m.graph.empty {
		t.Error("graph should start empty")
	}
	if m.Init() == nil {
		t.Error("Init should load the file")
	}
}

func TestSourceLoaded_UpdatesPanels(t *testing.T) {
	m := loaded(t, testDOT)
	if len(m.graph.model.Nodes) != 2 || m.table.Len() != 2 {
		t.Errorf("panels not updated: %d nodes, %d edges", len(m.graph.model.Nodes), m.table.Len())
	}
	if e, _ := m.log.Last(); e.Level != LogSuccess {
		t.Errorf("expected success log, got %+v", e)
	}
	if !m.watching {
		t.Error("first load should start the watch loop")
	}
}

func TestSourceLoaded_FailureKeepsPreviousAutomaton(t *testing.T) {
	m := loaded(t, testDOT)
	m, _ = update(t, m, SourceLoadedMsg{Path: m.path, Source: `digraph A { initial -> 0; 0 -> 1 [label="abc"]; }`, ModTime: time.Now()})

	if m.table.Len() != 2 {
		t.Errorf("failed refresh should keep the previous transitions, got %d", m.table.Len())
	}
	e, _ := m.log.Last()
	if e.Level != LogError || !strings.Contains(e.Text, "InvalidEdgeLabel") {
		t.Errorf("expected error log with kind, got %+v", e)
	}
	if !m.statusBar.failing {
		t.Error("status bar should show the failure")
	}
}

func TestSourceLoaded_ReadError(t *testing.T) {
	m := testAppModel(t)
	m, cmd := update(t, m, SourceLoadedMsg{Path: m.path, Err: os.ErrNotExist})
	if e, _ := m.log.Last(); e.Level != LogError {
		t.Errorf("expected error log, got %+v", e)
	}
	if cmd == nil {
		t.Error("watch should start even when the first read fails")
	}
}

func TestSourceLoaded_ManualReloadDoesNotStartSecondWatch(t *testing.T) {
	m := loaded(t, testDOT)
	_, cmd := update(t, m, SourceLoadedMsg{Path: m.path, Source: testDOT, ModTime: time.Now()})
	if cmd != nil {
		t.Error("manual reload should not start another watch loop")
	}
	_, cmd = update(t, m, SourceLoadedMsg{Path: m.path, Source: testDOT, ModTime: time.Now(), FromWatch: true})
	if cmd == nil {
		t.Error("watch-driven reload should continue the loop")
	}
}

func TestToggleKeys(t *testing.T) {
	m := loaded(t, testDOT)
	m, _ = update(t, m, key("m"))
	m, _ = update(t, m, key("s"))
	m, _ = update(t, m, key("x"))

	opts := m.session.Options()
	if !opts.Minimize || !opts.Streaming || !opts.ShowRegexp {
		t.Errorf("expected all toggles on, got %+v", opts)
	}
	if m.statusBar.opts != opts {
		t.Error("status bar should mirror the options")
	}
	if !strings.Contains(m.regexp, "unavailable") {
		t.Errorf("expected builder-unavailable regexp note, got %q", m.regexp)
	}

	m, _ = update(t, m, key("m"))
	if m.session.Options().Minimize {
		t.Error("second press should turn minimize off")
	}
}

func TestUndoRedoKeys(t *testing.T) {
	m := loaded(t, testDOT)
	m, _ = update(t, m, SourceLoadedMsg{Path: m.path, Source: secondDOT, ModTime: time.Now()})
	if len(m.graph.model.Nodes) != 3 {
		t.Fatalf("expected 3 states, got %d", len(m.graph.model.Nodes))
	}

	m, _ = update(t, m, key("u"))
	if len(m.graph.model.Nodes) != 2 {
		t.Errorf("undo should restore 2 states, got %d", len(m.graph.model.Nodes))
	}
	m, _ = update(t, m, key("U"))
	if len(m.graph.model.Nodes) != 3 {
		t.Errorf("redo should restore 3 states, got %d", len(m.graph.model.Nodes))
	}
	m, _ = update(t, m, key("U"))
	if e, _ := m.log.Last(); e.Level != LogInfo || !strings.Contains(e.Text, "nothing to redo") {
		t.Errorf("expected nothing-to-redo note, got %+v", e)
	}
}

func TestReloadKey(t *testing.T) {
	m := testAppModel(t)
	if err := os.WriteFile(m.path, []byte(testDOT), 0o644); err != nil {
		t.Fatal(err)
	}
	_, cmd := update(t, m, key("r"))
	if cmd == nil {
		t.Fatal("r should return a load command")
	}
	msg, ok := cmd().(SourceLoadedMsg)
	if !ok || msg.Source != testDOT || msg.FromWatch {
		t.Errorf("unexpected load result %+v", msg)
	}
}

func TestExportKey(t *testing.T) {
	m := testAppModel(t)
	_, cmd := update(t, m, key("e"))
	if cmd != nil {
		t.Error("export with nothing loaded should not run")
	}

	m = loaded(t, testDOT)
	_, cmd = update(t, m, key("e"))
	if cmd == nil {
		t.Fatal("e should return an export command")
	}
	msg := cmd().(ExportedMsg)
	if msg.Err != nil || len(msg.Paths) != 1 {
		t.Fatalf("unexpected export result %+v", msg)
	}
	m, _ = update(t, m, msg)
	if e, _ := m.log.Last(); !strings.HasPrefix(e.Text, "wrote ") {
		t.Errorf("expected wrote log, got %+v", e)
	}
}

func TestTabCyclesFocus(t *testing.T) {
	m := testAppModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != FocusLog || !m.log.IsFocused() || m.table.IsFocused() {
		t.Error("tab should move focus to the log")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != FocusTable {
		t.Error("tab should cycle back to the table")
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := update(t, testAppModel(t), k)
		if cmd == nil {
			t.Fatalf("%v should quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v should return tea.Quit", k)
		}
	}
}

func TestView(t *testing.T) {
	m := testAppModel(t)
	if m.View() != "Initializing..." {
		t.Error("view before sizing should be the placeholder")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 5})
	if !strings.Contains(m.View(), "Terminal too small") {
		t.Error("expected too-small notice")
	}

	m = loaded(t, testDOT)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = update(t, m, key("x"))
	view := m.View()
	for _, want := range []string{"STATES", "TRANSITIONS", "ACTIVITY", "regexp:", "a.dot"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTickContinuesWatch(t *testing.T) {
	_, cmd := update(t, testAppModel(t), TickMsg{Time: time.Now()})
	if cmd == nil {
		t.Error("tick should schedule the next watch")
	}
}
