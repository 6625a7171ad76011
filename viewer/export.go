// ABOUTME: Converts a snapshot into any supported export format: DOT, styled DOT, images, YAML, Markdown, HTML.
// ABOUTME: Shared by the HTTP export routes and the one-shot CLI export.
package viewer

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/2389-research/automatizer/codec"
	"github.com/2389-research/automatizer/export"
	"github.com/2389-research/automatizer/render"
)

// ExportContentTypes maps each export format to its content type.
var ExportContentTypes = map[string]string{
	"dot":    "text/vnd.graphviz; charset=utf-8",
	"styled": "text/vnd.graphviz; charset=utf-8",
	"svg":    "image/svg+xml",
	"png":    "image/png",
	"yaml":   "application/yaml",
	"md":     "text/markdown; charset=utf-8",
	"html":   "text/html; charset=utf-8",
}

// ExportFormats returns the supported export format names, sorted.
func ExportFormats() []string {
	out := make([]string, 0, len(ExportContentTypes))
	for f := range ExportContentTypes {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Document converts a snapshot into an export document.
func Document(snap *Snapshot) export.Document {
	return export.Document{
		Name:        codec.GraphName,
		Source:      snap.Source,
		Automaton:   snap.Automaton,
		Epsilons:    snap.Epsilons,
		Regexp:      snap.Regexp,
		Diagnostics: snap.Diagnostics,
	}
}

// Export renders snap in format. "dot" is the plain DOT that Parse reads
// back; "styled" is the display DOT. Images go through exporter.
func Export(ctx context.Context, exporter render.ImageExporter, snap *Snapshot, format string) ([]byte, error) {
	switch format {
	case "dot":
		return []byte(codec.SerializeWithEpsilons(snap.Automaton, snap.Epsilons)), nil
	case "styled":
		return []byte(render.ToDOT(snap.Model)), nil
	case "svg", "png":
		if exporter == nil {
			return nil, fmt.Errorf("no image exporter configured for %s", format)
		}
		return exporter.Export(ctx, render.ToDOT(snap.Model), format)
	case "yaml":
		out, err := export.YAML(Document(snap))
		return []byte(out), err
	case "md":
		return []byte(export.Markdown(Document(snap))), nil
	case "html":
		return Report(ctx, exporter, snap)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Report builds the HTML report for snap. The embedded SVG is optional: when
// the exporter is missing or fails, the report is written without it.
func Report(ctx context.Context, exporter render.ImageExporter, snap *Snapshot) ([]byte, error) {
	var svg []byte
	if exporter != nil {
		var err error
		svg, err = exporter.Export(ctx, render.ToDOT(snap.Model), "svg")
		if err != nil {
			log.Printf("component=viewer action=report svg=unavailable err=%q", err)
			svg = nil
		}
	}
	return export.HTMLReport(Document(snap), svg)
}
