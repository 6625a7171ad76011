// ABOUTME: Tests for the DOT serializer: quoting rules, natural node order, edge order, and round trips.
// ABOUTME: Verifies that escape sequences in labels survive Serialize followed by Parse.
package dot

import (
	"strings"
	"testing"
)

func TestQuoteValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{"circle", "circle"},
		{"LR", "LR"},
		{"42", "42"},
		{"-1.5", "-1.5"},
		{"a-z", `"a-z"`},
		{"has space", `"has space"`},
		{`say "hi"`, `"say \"hi\""`},
		{"line\nbreak", `"line\nbreak"`},
		{`\`, `"\\"`},
		{`a\nb`, `"a\\nb"`},
		{"\\u0041", "\"\\u0041\""},
		{`\\`, `"\\\\"`},
		{"3abc", `"3abc"`},
		{"é", `"é"`},
	}
	for _, tt := range tests {
		if got := quoteValue(tt.in); got != tt.want {
			t.Errorf("quoteValue(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestQuoteIDReservedWords(t *testing.T) {
	for _, id := range []string{"node", "Edge", "digraph", "strict"} {
		if got := quoteID(id); got != `"`+id+`"` {
			t.Errorf("quoteID(%q) = %s, want it quoted", id, got)
		}
	}
	if got := quoteID("initial"); got != "initial" {
		t.Errorf("quoteID(initial) = %s, want bare", got)
	}
}

func TestSerializeEmptyGraph(t *testing.T) {
	if got := Serialize(NewGraph("")); got != "digraph {\n}\n" {
		t.Errorf("Serialize(empty) = %q", got)
	}
	if got := Serialize(NewGraph("Automaton")); got != "digraph Automaton {\n}\n" {
		t.Errorf("Serialize(named) = %q", got)
	}
}

func TestSerializeLayout(t *testing.T) {
	g := NewGraph("Automaton")
	g.Attrs["rankdir"] = "LR"
	g.AddNode(&Node{ID: "10", Attrs: map[string]string{"shape": "circle"}})
	g.AddNode(&Node{ID: "2", Attrs: map[string]string{"shape": "doublecircle"}})
	g.AddNode(&Node{ID: "initial", Attrs: map[string]string{"shape": "plaintext", "label": ""}})
	g.AddEdge(&Edge{From: "initial", To: "2"})
	g.AddEdge(&Edge{From: "2", To: "10", Attrs: map[string]string{"label": "a-z"}})

	want := `digraph Automaton {
  graph [rankdir=LR]

  2 [shape=doublecircle]
  10 [shape=circle]
  initial [label="", shape=plaintext]

  initial -> 2
  2 -> 10 [label="a-z"]
}
`
	if got := Serialize(g); got != want {
		t.Errorf("Serialize() =\n%s\nwant:\n%s", got, want)
	}
}

func TestSerializeSubgraph(t *testing.T) {
	g := NewGraph("G")
	g.AddNode(&Node{ID: "1"})
	g.Subgraphs = append(g.Subgraphs, &Subgraph{
		Name:    "cluster_accept",
		Attrs:   map[string]string{"label": "Accepting"},
		NodeIDs: []string{"1"},
	})
	got := Serialize(g)
	for _, want := range []string{"subgraph cluster_accept {", "label=Accepting", "    1\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("Serialize() missing %q in:\n%s", want, got)
		}
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	labels := []string{"a", "a-z", "-", "--z", "[abc]", "\\u0000", "\\u005c", `"`, `\`, "\\u0022-\\u007f"}

	g := NewGraph("rt")
	g.AddNode(&Node{ID: "0"})
	g.AddNode(&Node{ID: "1", Attrs: map[string]string{"shape": "doublecircle"}})
	for _, l := range labels {
		g.AddEdge(&Edge{From: "0", To: "1", Attrs: map[string]string{"label": l}})
	}

	text := Serialize(g)
	back, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(Serialize()) error: %v\n%s", err, text)
	}
	if len(back.Edges) != len(labels) {
		t.Fatalf("edge count = %d, want %d", len(back.Edges), len(labels))
	}
	for i, l := range labels {
		if got := back.Edges[i].Attrs["label"]; got != l {
			t.Errorf("edge[%d] label = %q, want %q", i, got, l)
		}
	}
	if back.Nodes["1"].Attrs["shape"] != "doublecircle" {
		t.Errorf("node 1 shape lost: %v", back.Nodes["1"].Attrs)
	}
}
