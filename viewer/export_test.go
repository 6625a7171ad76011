// ABOUTME: Tests for snapshot export dispatch and the HTML report fallback without an image exporter.
// ABOUTME: Snapshots come from Build with the Passthrough builder.
package viewer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/2389-research/automatizer/render"
)

func TestExportFormats(t *testing.T) {
	got := strings.Join(ExportFormats(), ",")
	if got != "dot,html,md,png,styled,svg,yaml" {
		t.Errorf("ExportFormats() = %s", got)
	}
}

func TestExportDispatch(t *testing.T) {
	snap, err := Build(Passthrough{}, testDOT, Options{})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := Export(ctx, nil, snap, "svg"); err == nil {
		t.Error("image export without an exporter should fail")
	}
	if _, err := Export(ctx, nil, snap, "gif"); err == nil {
		t.Error("unknown format should fail")
	}
	out, err := Export(ctx, stubExporter{}, snap, "png")
	if err != nil || string(out) != "<svg>png</svg>" {
		t.Errorf("png export = %q, %v", out, err)
	}
}

func TestReportWithoutImage(t *testing.T) {
	snap, err := Build(Passthrough{}, testDOT, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, exp := range []render.ImageExporter{nil, stubExporter{err: errors.New("no graphviz")}} {
		html, err := Report(context.Background(), exp, snap)
		if err != nil {
			t.Fatalf("Report: %v", err)
		}
		if strings.Contains(string(html), "<figure>") {
			t.Error("report without an image should have no figure")
		}
		if !strings.Contains(string(html), "<table>") {
			t.Error("report should include the state table")
		}
	}
}
