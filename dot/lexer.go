// ABOUTME: Tokenizer for the DOT subset that turns source text into a positioned token stream.
// ABOUTME: Handles identifiers, keywords, quoted strings with escapes, numbers, comments, and punctuation.
package dot

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenEOF        TokenType = iota
	TokenDigraph              // digraph keyword
	TokenSubgraph             // subgraph keyword
	TokenGraph                // graph keyword
	TokenNode                 // node keyword
	TokenEdge                 // edge keyword
	TokenLBrace               // {
	TokenRBrace               // }
	TokenLBracket             // [
	TokenRBracket             // ]
	TokenArrow                // ->
	TokenEquals               // =
	TokenComma                // ,
	TokenSemicolon            // ;
	TokenIdentifier           // bare identifier
	TokenString               // double-quoted string
	TokenNumber               // integer or float literal
	TokenBoolean              // true or false
	TokenMinus                // - (standalone, not part of -> or number)
)

var tokenNames = [...]string{
	TokenEOF:        "EOF",
	TokenDigraph:    "DIGRAPH",
	TokenSubgraph:   "SUBGRAPH",
	TokenGraph:      "GRAPH",
	TokenNode:       "NODE",
	TokenEdge:       "EDGE",
	TokenLBrace:     "LBRACE",
	TokenRBrace:     "RBRACE",
	TokenLBracket:   "LBRACKET",
	TokenRBracket:   "RBRACKET",
	TokenArrow:      "ARROW",
	TokenEquals:     "EQUALS",
	TokenComma:      "COMMA",
	TokenSemicolon:  "SEMICOLON",
	TokenIdentifier: "IDENTIFIER",
	TokenString:     "STRING",
	TokenNumber:     "NUMBER",
	TokenBoolean:    "BOOLEAN",
	TokenMinus:      "MINUS",
}

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

var keywords = map[string]TokenType{
	"digraph":  TokenDigraph,
	"subgraph": TokenSubgraph,
	"graph":    TokenGraph,
	"node":     TokenNode,
	"edge":     TokenEdge,
	"true":     TokenBoolean,
	"false":    TokenBoolean,
}

var punctuation = map[rune]TokenType{
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
	'=': TokenEquals,
	',': TokenComma,
	';': TokenSemicolon,
}

// Token represents a single lexical token with its type, value, and source location.
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// SyntaxError reports a lexing or parsing failure at a source position.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d, col %d", e.Msg, e.Line, e.Col)
}

// lexer holds the state of the lexical scanner.
type lexer struct {
	input  []rune
	pos    int
	line   int
	col    int
	tokens []Token
}

// Lex tokenizes the given DOT source string into a slice of tokens ending in EOF.
func Lex(input string) ([]Token, error) {
	l := &lexer{
		input:  []rune(input),
		line:   1,
		col:    1,
		tokens: make([]Token, 0, len(input)/3+1),
	}
	if err := l.scan(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *lexer) peekRune(offset int) (rune, bool) {
	i := l.pos + offset
	if i >= len(l.input) {
		return 0, false
	}
	return l.input[i], true
}

func (l *lexer) scan() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		next, hasNext := l.peekRune(1)

		switch {
		case unicode.IsSpace(ch):
			l.advance()
		case ch == '/' && hasNext && next == '/':
			l.skipLineComment()
		case ch == '#' && l.col == 1:
			// C preprocessor style lines are comments in DOT.
			l.skipLineComment()
		case ch == '/' && hasNext && next == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		case ch == '"':
			if err := l.lexString(); err != nil {
				return err
			}
		case ch == '-' && hasNext && next == '>':
			l.emit(TokenArrow, "->")
			l.advance()
			l.advance()
		case ch == '-' && hasNext && (unicode.IsDigit(next) || next == '.'):
			l.lexNumber()
		case unicode.IsDigit(ch) || (ch == '.' && hasNext && unicode.IsDigit(next)):
			l.lexNumber()
		case ch == '-':
			// Two of these in a row are an undirected edge; the parser rejects it.
			l.emit(TokenMinus, "-")
			l.advance()
		case ch == '_' || unicode.IsLetter(ch):
			l.lexIdentifier()
		default:
			typ, ok := punctuation[ch]
			if !ok {
				return &SyntaxError{Line: l.line, Col: l.col, Msg: fmt.Sprintf("unexpected character %q", string(ch))}
			}
			l.emit(typ, string(ch))
			l.advance()
		}
	}

	l.tokens = append(l.tokens, Token{Type: TokenEOF, Line: l.line, Col: l.col})
	return nil
}

// advance moves the position forward by one character, tracking line and column.
func (l *lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

// emit adds a token at the current position.
func (l *lexer) emit(typ TokenType, value string) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Line: l.line, Col: l.col})
}

func (l *lexer) skipLineComment() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.advance()
	}
}

func (l *lexer) skipBlockComment() error {
	startLine, startCol := l.line, l.col
	l.advance()
	l.advance()
	for l.pos < len(l.input) {
		if next, ok := l.peekRune(1); ok && l.input[l.pos] == '*' && next == '/' {
			l.advance()
			l.advance()
			return nil
		}
		l.advance()
	}
	return &SyntaxError{Line: startLine, Col: startCol, Msg: "unterminated block comment"}
}

// lexString reads a double-quoted string. Only \" \\ \n and \t are folded;
// any other escape is kept verbatim so label escapes such as \u0041 reach the
// automaton layer untouched.
func (l *lexer) lexString() error {
	startLine, startCol := l.line, l.col
	l.advance()

	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]

		if ch == '\\' {
			l.advance()
			if l.pos >= len(l.input) {
				break
			}
			switch escaped := l.input[l.pos]; escaped {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\n':
				// line continuation
			default:
				sb.WriteByte('\\')
				sb.WriteRune(escaped)
			}
			l.advance()
			continue
		}

		if ch == '"' {
			l.advance()
			l.tokens = append(l.tokens, Token{Type: TokenString, Value: sb.String(), Line: startLine, Col: startCol})
			return nil
		}

		sb.WriteRune(ch)
		l.advance()
	}

	return &SyntaxError{Line: startLine, Col: startCol, Msg: "unterminated string"}
}

// lexNumber reads an integer or float literal with an optional leading minus.
func (l *lexer) lexNumber() {
	startLine, startCol := l.line, l.col
	var sb strings.Builder

	if l.input[l.pos] == '-' {
		sb.WriteByte('-')
		l.advance()
	}
	l.readDigits(&sb)
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		sb.WriteByte('.')
		l.advance()
		l.readDigits(&sb)
	}

	l.tokens = append(l.tokens, Token{Type: TokenNumber, Value: sb.String(), Line: startLine, Col: startCol})
}

func (l *lexer) readDigits(sb *strings.Builder) {
	for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
		sb.WriteRune(l.input[l.pos])
		l.advance()
	}
}

// lexIdentifier reads an identifier or keyword.
func (l *lexer) lexIdentifier() {
	startLine, startCol := l.line, l.col
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch != '_' && !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
			break
		}
		l.advance()
	}

	word := string(l.input[start:l.pos])
	typ, ok := keywords[word]
	if !ok {
		typ = TokenIdentifier
	}
	l.tokens = append(l.tokens, Token{Type: typ, Value: word, Line: startLine, Col: startCol})
}
