// ABOUTME: Converts render models to styled DOT text and rasterizes DOT via the graphviz dot command.
// ABOUTME: Provides ToDOT, Render, RenderDOTSource, and the Graphviz ImageExporter.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/2389-research/automatizer/automaton"
	"github.com/2389-research/automatizer/dot"
)

// ImageExporter turns DOT text into an image in the given format.
type ImageExporter interface {
	Export(ctx context.Context, dotText string, format string) ([]byte, error)
}

// Formats lists the output formats Render and RenderDOTSource accept.
var Formats = []string{"dot", "svg", "png"}

// startNode is the invisible node the initial-state arrow leaves from.
const startNode = "__start"

// nodeName is the DOT node ID for a render node. Numbers are only labels
// because unreachable states may share one.
func nodeName(n Node) string {
	return "s" + strconv.Itoa(int(n.ID))
}

// Graph builds a styled DOT graph from a render model: accepting states are
// filled light gray, the initial state gets an arrow from an invisible point,
// and epsilon edges are dashed.
func Graph(m Model) *dot.Graph {
	g := dot.NewGraph("Automaton")
	g.Attrs["rankdir"] = "LR"
	g.NodeDefaults["style"] = "filled"
	g.NodeDefaults["fontname"] = "Helvetica"
	g.EdgeDefaults["fontname"] = "Helvetica"

	for _, n := range m.Nodes {
		g.AddNode(&dot.Node{ID: nodeName(n), Attrs: map[string]string{
			"label":     n.Label,
			"shape":     n.Shape(),
			"fillcolor": n.FillColor(),
		}})
	}

	if initial, ok := m.Initial(); ok {
		g.AddNode(&dot.Node{ID: startNode, Attrs: map[string]string{"shape": "point", "style": "invis"}})
		g.AddEdge(&dot.Edge{From: startNode, To: nodeName(initial)})
	}

	for _, e := range m.Edges {
		attrs := map[string]string{"label": e.Label}
		if e.Epsilon {
			attrs["style"] = e.Style()
		}
		g.AddEdge(&dot.Edge{From: nodeName(e.From), To: nodeName(e.To), Attrs: attrs})
	}

	g.AssignEdgeIDs()
	return g
}

// ToDOT renders a model as styled DOT text for display.
func ToDOT(m Model) string {
	return dot.Serialize(Graph(m))
}

// Render projects a and produces output in the given format.
// Supported formats: "dot" (styled DOT text), "svg", "png" (via graphviz).
func Render(ctx context.Context, a *automaton.Automaton, format string) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("cannot render nil automaton")
	}
	return RenderDOTSource(ctx, ToDOT(Project(a)), format)
}

// GraphvizAvailable checks whether the graphviz dot command is installed and reachable.
func GraphvizAvailable() bool {
	_, err := exec.LookPath("dot")
	return err == nil
}

// RenderDOTSource takes raw DOT text and renders it to the specified format.
// For "dot" format, it returns the input text as-is.
func RenderDOTSource(ctx context.Context, dotText string, format string) ([]byte, error) {
	if dotText == "" {
		return nil, fmt.Errorf("cannot render empty DOT text")
	}

	switch strings.ToLower(format) {
	case "dot":
		return []byte(dotText), nil
	case "svg", "png":
		return renderWithGraphviz(ctx, dotText, strings.ToLower(format))
	default:
		return nil, fmt.Errorf("unsupported format %q: supported formats are %s", format, strings.Join(Formats, ", "))
	}
}

// Graphviz is the ImageExporter backed by the dot command.
type Graphviz struct{}

// Export implements ImageExporter.
func (Graphviz) Export(ctx context.Context, dotText string, format string) ([]byte, error) {
	return RenderDOTSource(ctx, dotText, format)
}

// renderWithGraphviz pipes DOT text to the graphviz dot command and returns the output.
func renderWithGraphviz(ctx context.Context, dotText string, format string) ([]byte, error) {
	if !GraphvizAvailable() {
		return nil, fmt.Errorf("graphviz dot command not found: install graphviz to render %s output", format)
	}

	cmd := exec.CommandContext(ctx, "dot", "-T"+format)
	cmd.Stdin = strings.NewReader(dotText)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("graphviz dot command failed: %w: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}
