// ABOUTME: AST types for the DOT front-end: Graph, Node, Edge, Subgraph, and lint Diagnostic.
// ABOUTME: Provides traversal helpers, deterministic node ordering, and stable edge ID assignment.
package dot

import (
	"fmt"
	"sort"
)

// Graph represents a parsed DOT digraph with its nodes, edges, attributes, and subgraphs.
// Edges keep source order; automaton construction depends on it.
type Graph struct {
	Name         string
	Nodes        map[string]*Node
	Edges        []*Edge
	Attrs        map[string]string // graph-level attributes
	NodeDefaults map[string]string // node [...] defaults
	EdgeDefaults map[string]string // edge [...] defaults
	Subgraphs    []*Subgraph
}

// Node represents a node in the graph with an ID and key-value attributes.
type Node struct {
	ID    string
	Attrs map[string]string
}

// Edge represents a directed edge from one node to another with an optional ID and attributes.
type Edge struct {
	ID    string
	From  string
	To    string
	Attrs map[string]string
	Line  int // source line of the edge statement, 0 when built in memory
}

// Subgraph represents a subgraph scope and the nodes first declared inside it.
type Subgraph struct {
	Name    string
	Attrs   map[string]string
	NodeIDs []string
}

// Diagnostic represents a lint finding associated with a node or edge.
type Diagnostic struct {
	Severity string // "error", "warning", "info"
	Message  string
	NodeID   string
	EdgeID   string
	Rule     string
}

// NewGraph returns an empty graph with every map initialized.
func NewGraph(name string) *Graph {
	return &Graph{
		Name:         name,
		Nodes:        make(map[string]*Node),
		Edges:        make([]*Edge, 0),
		Attrs:        make(map[string]string),
		NodeDefaults: make(map[string]string),
		EdgeDefaults: make(map[string]string),
	}
}

// Attr returns the attribute value for key, or "" when the node has none.
func (n *Node) Attr(key string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// Attr returns the attribute value for key and whether it was set at all.
// An explicitly empty label and a missing label mean the same thing to callers
// that only look at the value, but lint rules care about the difference.
func (e *Edge) Attr(key string) (string, bool) {
	if e == nil || e.Attrs == nil {
		return "", false
	}
	v, ok := e.Attrs[key]
	return v, ok
}

// AddNode adds a node to the graph, initializing the Nodes map if needed.
func (g *Graph) AddNode(n *Node) {
	if g.Nodes == nil {
		g.Nodes = make(map[string]*Node)
	}
	g.Nodes[n.ID] = n
}

// AddEdge appends an edge to the graph.
func (g *Graph) AddEdge(e *Edge) {
	g.Edges = append(g.Edges, e)
}

// FindNode returns the node with the given ID, or nil if not found.
func (g *Graph) FindNode(id string) *Node {
	if g.Nodes == nil {
		return nil
	}
	return g.Nodes[id]
}

// OutgoingEdges returns all edges originating from the given node ID, in source order.
func (g *Graph) OutgoingEdges(nodeID string) []*Edge {
	var result []*Edge
	for _, e := range g.Edges {
		if e.From == nodeID {
			result = append(result, e)
		}
	}
	return result
}

// IncomingEdges returns all edges terminating at the given node ID, in source order.
func (g *Graph) IncomingEdges(nodeID string) []*Edge {
	var result []*Edge
	for _, e := range g.Edges {
		if e.To == nodeID {
			result = append(result, e)
		}
	}
	return result
}

// NodeIDs returns all node IDs in sorted order for deterministic output.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StableID returns a deterministic identifier for an edge based on its endpoints.
// The format is "from->to", which is stable across parses of the same DOT source.
func (e *Edge) StableID() string {
	return e.From + "->" + e.To
}

// AssignEdgeIDs assigns a unique ID to each edge that does not already have one.
// Edges that already have a non-empty ID are left unchanged. For edges sharing the
// same From->To pair, a numeric suffix disambiguates them.
func (g *Graph) AssignEdgeIDs() {
	counts := make(map[string]int)
	for _, e := range g.Edges {
		if e.ID != "" {
			continue
		}
		key := e.StableID()
		counts[key]++
		if counts[key] == 1 {
			e.ID = key
		} else {
			e.ID = fmt.Sprintf("%s#%d", key, counts[key])
		}
	}
}
