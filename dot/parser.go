// ABOUTME: Recursive descent parser for the DOT subset that produces an in-memory Graph.
// ABOUTME: Supports numeric and quoted node IDs, defaults, subgraphs, and chained edge expansion.
package dot

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMultipleGraphs is returned when the source holds more than one graph.
var ErrMultipleGraphs = errors.New("multiple digraphs are not supported; only one digraph per file is allowed")

// parser holds the state of the recursive descent parser.
type parser struct {
	tokens       []Token
	pos          int
	graph        *Graph
	nodeDefaults map[string]string // current scope node defaults
	edgeDefaults map[string]string // current scope edge defaults
}

// Parse parses the given DOT source string into a Graph. Edge IDs are assigned
// before returning so lint diagnostics can refer to them.
func Parse(input string) (*Graph, error) {
	tokens, err := Lex(input)
	if err != nil {
		return nil, fmt.Errorf("lex error: %w", err)
	}

	p := &parser{
		tokens:       tokens,
		graph:        NewGraph(""),
		nodeDefaults: make(map[string]string),
		edgeDefaults: make(map[string]string),
	}

	if err := p.parseGraph(); err != nil {
		return nil, err
	}

	p.graph.AssignEdgeIDs()
	return p.graph, nil
}

func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) peek(offset int) Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[idx]
}

func (p *parser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

// errorf builds a SyntaxError positioned at tok.
func errorf(tok Token, format string, args ...any) error {
	return &SyntaxError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(typ TokenType) (Token, error) {
	tok := p.current()
	if tok.Type != typ {
		return tok, errorf(tok, "expected %v but got %v (%q)", typ, tok.Type, tok.Value)
	}
	p.advance()
	return tok, nil
}

func (p *parser) skipSemicolon() {
	if p.current().Type == TokenSemicolon {
		p.advance()
	}
}

// isID reports whether tok can name a node or graph.
func isID(tok Token) bool {
	return tok.Type == TokenIdentifier || tok.Type == TokenString || tok.Type == TokenNumber
}

// parseGraph parses: 'digraph' ID? '{' Statement* '}'
func (p *parser) parseGraph() error {
	if p.current().Type == TokenIdentifier && strings.EqualFold(p.current().Value, "strict") {
		return errorf(p.current(), "strict modifier is not supported")
	}

	if tok := p.current(); tok.Type != TokenDigraph {
		return errorf(tok, "expected 'digraph' but got %v (%q)", tok.Type, tok.Value)
	}
	p.advance()

	if isID(p.current()) {
		p.graph.Name = p.advance().Value
	}

	if _, err := p.expect(TokenLBrace); err != nil {
		return err
	}
	if err := p.parseStatements(); err != nil {
		return err
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return err
	}

	p.skipSemicolon()
	switch tok := p.current(); {
	case tok.Type == TokenDigraph || tok.Type == TokenGraph ||
		(tok.Type == TokenIdentifier && strings.EqualFold(tok.Value, "strict")):
		return fmt.Errorf("%w (second graph at line %d, col %d)", ErrMultipleGraphs, tok.Line, tok.Col)
	case tok.Type != TokenEOF:
		return errorf(tok, "unexpected %v (%q) after closing brace", tok.Type, tok.Value)
	}

	for k, v := range p.nodeDefaults {
		p.graph.NodeDefaults[k] = v
	}
	for k, v := range p.edgeDefaults {
		p.graph.EdgeDefaults[k] = v
	}
	return nil
}

func (p *parser) parseStatements() error {
	for p.current().Type != TokenRBrace && p.current().Type != TokenEOF {
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseStatement() error {
	tok := p.current()

	switch tok.Type {
	case TokenGraph:
		return p.parseDefaults(p.graph.Attrs)
	case TokenNode:
		return p.parseDefaults(p.nodeDefaults)
	case TokenEdge:
		return p.parseDefaults(p.edgeDefaults)
	case TokenSubgraph:
		return p.parseSubgraph()
	case TokenLBrace:
		// anonymous subgraph
		return p.parseSubgraph()
	case TokenIdentifier, TokenString, TokenNumber:
		return p.parseNodeOrEdgeStmt()
	case TokenSemicolon:
		p.advance()
		return nil
	default:
		return errorf(tok, "unexpected token %v (%q)", tok.Type, tok.Value)
	}
}

// parseDefaults parses: ('graph' | 'node' | 'edge') AttrBlock? ';'? and merges into dst.
func (p *parser) parseDefaults(dst map[string]string) error {
	p.advance()

	if p.current().Type == TokenLBracket {
		attrs, err := p.parseAttrBlock()
		if err != nil {
			return err
		}
		for k, v := range attrs {
			dst[k] = v
		}
	}

	p.skipSemicolon()
	return nil
}

// parseSubgraph parses: ('subgraph' ID?)? '{' Statement* '}'
// Node defaults declared inside are scoped to the subgraph body.
func (p *parser) parseSubgraph() error {
	sg := &Subgraph{Attrs: make(map[string]string)}

	if p.current().Type == TokenSubgraph {
		p.advance()
		if isID(p.current()) {
			sg.Name = p.advance().Value
		}
	}

	if _, err := p.expect(TokenLBrace); err != nil {
		return err
	}

	outerNodeDefaults := p.nodeDefaults
	p.nodeDefaults = make(map[string]string, len(outerNodeDefaults))
	for k, v := range outerNodeDefaults {
		p.nodeDefaults[k] = v
	}
	defer func() { p.nodeDefaults = outerNodeDefaults }()

	nodesBefore := make(map[string]bool, len(p.graph.Nodes))
	for id := range p.graph.Nodes {
		nodesBefore[id] = true
	}

	for p.current().Type != TokenRBrace && p.current().Type != TokenEOF {
		tok := p.current()
		if tok.Type == TokenIdentifier && p.peek(1).Type == TokenEquals {
			key := p.advance().Value
			p.advance()
			val, err := p.parseValue()
			if err != nil {
				return err
			}
			sg.Attrs[key] = val
			p.skipSemicolon()
			continue
		}
		if tok.Type == TokenGraph {
			if err := p.parseDefaults(sg.Attrs); err != nil {
				return err
			}
			continue
		}
		if err := p.parseStatement(); err != nil {
			return err
		}
	}

	if _, err := p.expect(TokenRBrace); err != nil {
		return err
	}

	for _, id := range p.graph.NodeIDs() {
		if !nodesBefore[id] {
			sg.NodeIDs = append(sg.NodeIDs, id)
		}
	}

	p.graph.Subgraphs = append(p.graph.Subgraphs, sg)
	p.skipSemicolon()
	return nil
}

// parseNodeOrEdgeStmt disambiguates a node statement, an edge statement, and a
// top-level key=value graph attribute by looking one token ahead.
func (p *parser) parseNodeOrEdgeStmt() error {
	if next := p.peek(1); next.Type == TokenMinus {
		return errorf(next, "undirected edges (--) are not supported; use directed edges (->)")
	}

	if p.current().Type == TokenIdentifier && p.peek(1).Type == TokenEquals {
		key := p.advance().Value
		p.advance()
		val, err := p.parseValue()
		if err != nil {
			return err
		}
		p.graph.Attrs[key] = val
		p.skipSemicolon()
		return nil
	}

	first := p.advance()
	if p.current().Type == TokenArrow {
		return p.parseEdgeStmt(first)
	}
	return p.parseNodeStmt(first.Value)
}

// parseNodeStmt parses: ID AttrBlock? ';'?
func (p *parser) parseNodeStmt(id string) error {
	var attrs map[string]string
	if p.current().Type == TokenLBracket {
		var err error
		if attrs, err = p.parseAttrBlock(); err != nil {
			return err
		}
	}

	p.ensureNode(id, attrs)
	p.skipSemicolon()
	return nil
}

// parseEdgeStmt parses: ID ( '->' ID )+ AttrBlock? ';'?
// A chain a -> b -> c expands to the edges a->b and b->c in that order.
func (p *parser) parseEdgeStmt(first Token) error {
	nodeIDs := []string{first.Value}

	for p.current().Type == TokenArrow {
		p.advance()
		tok := p.current()
		if tok.Type == TokenMinus {
			return errorf(tok, "undirected edges (--) are not supported; use directed edges (->)")
		}
		if !isID(tok) {
			return errorf(tok, "expected node ID after -> but got %v (%q)", tok.Type, tok.Value)
		}
		nodeIDs = append(nodeIDs, tok.Value)
		p.advance()
		if next := p.current(); next.Type == TokenMinus {
			return errorf(next, "undirected edges (--) are not supported; use directed edges (->)")
		}
	}

	var attrs map[string]string
	if p.current().Type == TokenLBracket {
		var err error
		if attrs, err = p.parseAttrBlock(); err != nil {
			return err
		}
	}

	for _, id := range nodeIDs {
		p.ensureNode(id, nil)
	}

	for i := 0; i < len(nodeIDs)-1; i++ {
		edgeAttrs := make(map[string]string, len(p.edgeDefaults)+len(attrs))
		for k, v := range p.edgeDefaults {
			edgeAttrs[k] = v
		}
		for k, v := range attrs {
			edgeAttrs[k] = v
		}
		p.graph.AddEdge(&Edge{
			From:  nodeIDs[i],
			To:    nodeIDs[i+1],
			Attrs: edgeAttrs,
			Line:  first.Line,
		})
	}

	p.skipSemicolon()
	return nil
}

// ensureNode creates a node if it doesn't exist, then overlays explicit attributes.
// A node declared twice keeps the union, later values winning.
func (p *parser) ensureNode(id string, explicitAttrs map[string]string) {
	node, exists := p.graph.Nodes[id]
	if !exists {
		node = &Node{ID: id, Attrs: make(map[string]string)}
		for k, v := range p.nodeDefaults {
			node.Attrs[k] = v
		}
		p.graph.AddNode(node)
	}

	for k, v := range explicitAttrs {
		node.Attrs[k] = v
	}
}

// parseAttrBlock parses: '[' ( Attr ( [,;] Attr )* [,;]? )? ']'
func (p *parser) parseAttrBlock() (map[string]string, error) {
	if _, err := p.expect(TokenLBracket); err != nil {
		return nil, err
	}

	attrs := make(map[string]string)
	for p.current().Type != TokenRBracket {
		key, val, err := p.parseAttr()
		if err != nil {
			return nil, err
		}
		attrs[key] = val

		if t := p.current().Type; t == TokenComma || t == TokenSemicolon {
			p.advance()
		}
	}
	p.advance()

	return attrs, nil
}

// parseAttr parses: Key '=' Value
func (p *parser) parseAttr() (string, string, error) {
	tok := p.current()
	if tok.Type != TokenIdentifier && tok.Type != TokenString {
		return "", "", errorf(tok, "expected attribute key but got %v (%q)", tok.Type, tok.Value)
	}
	p.advance()

	if _, err := p.expect(TokenEquals); err != nil {
		return "", "", err
	}

	val, err := p.parseValue()
	if err != nil {
		return "", "", err
	}
	return tok.Value, val, nil
}

// parseValue parses a value. All values are stored as strings in attribute maps.
func (p *parser) parseValue() (string, error) {
	tok := p.current()

	switch tok.Type {
	case TokenString, TokenNumber, TokenBoolean, TokenIdentifier:
		p.advance()
		return tok.Value, nil
	case TokenMinus:
		p.advance()
		return "-", nil
	default:
		return "", errorf(tok, "expected value but got %v (%q)", tok.Type, tok.Value)
	}
}
