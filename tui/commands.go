// ABOUTME: tea.Cmd factories for loading and watching the source file and for exporting the current view.
// ABOUTME: All file I/O runs inside commands so Update stays pure.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2389-research/automatizer/codec"
	"github.com/2389-research/automatizer/render"
	"github.com/2389-research/automatizer/viewer"
	tea "github.com/charmbracelet/bubbletea"
)

// LoadFileCmd reads path and sends a SourceLoadedMsg.
func LoadFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return loadFile(path)
	}
}

func loadFile(path string) SourceLoadedMsg {
	info, err := os.Stat(path)
	if err != nil {
		return SourceLoadedMsg{Path: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return SourceLoadedMsg{Path: path, Err: err}
	}
	return SourceLoadedMsg{Path: path, Source: string(data), ModTime: info.ModTime()}
}

// WatchCmd waits for interval, then sends a SourceLoadedMsg if path was
// modified after since, or a TickMsg otherwise.
func WatchCmd(path string, since time.Time, interval time.Duration) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(interval)
		info, err := os.Stat(path)
		if err != nil || !info.ModTime().After(since) {
			return TickMsg{Time: time.Now()}
		}
		msg := loadFile(path)
		msg.FromWatch = true
		return msg
	}
}

// ExportCmd writes the snapshot next to base as <base>.export.dot and, when
// exporter is set, <base>.svg.
func ExportCmd(ctx context.Context, exporter render.ImageExporter, snap *viewer.Snapshot, base string) tea.Cmd {
	return func() tea.Msg {
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		var paths []string

		dotPath := stem + ".export.dot"
		text := codec.SerializeWithEpsilons(snap.Automaton, snap.Epsilons)
		if err := os.WriteFile(dotPath, []byte(text), 0o644); err != nil {
			return ExportedMsg{Err: fmt.Errorf("write %s: %w", dotPath, err)}
		}
		paths = append(paths, dotPath)

		if exporter != nil {
			svg, err := exporter.Export(ctx, render.ToDOT(snap.Model), "svg")
			if err != nil {
				return ExportedMsg{Paths: paths, Err: fmt.Errorf("render svg: %w", err)}
			}
			svgPath := stem + ".svg"
			if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
				return ExportedMsg{Paths: paths, Err: fmt.Errorf("write %s: %w", svgPath, err)}
			}
			paths = append(paths, svgPath)
		}
		return ExportedMsg{Paths: paths}
	}
}
