// ABOUTME: Tests for the DOT lexer: token kinds, keywords, strings and escapes, numbers, comments, and errors.
// ABOUTME: Also checks line/column tracking and the positioned SyntaxError type.
package dot

import (
	"errors"
	"strings"
	"testing"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestLexEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\t  "} {
		tokens, err := Lex(input)
		if err != nil {
			t.Fatalf("Lex(%q) error: %v", input, err)
		}
		if len(tokens) != 1 || tokens[0].Type != TokenEOF {
			t.Fatalf("Lex(%q) = %v, want just EOF", input, tokenTypes(tokens))
		}
	}
}

func TestLexSingleTokens(t *testing.T) {
	tests := []struct {
		input    string
		wantType TokenType
		wantVal  string
	}{
		{"{", TokenLBrace, "{"},
		{"}", TokenRBrace, "}"},
		{"[", TokenLBracket, "["},
		{"]", TokenRBracket, "]"},
		{"->", TokenArrow, "->"},
		{"=", TokenEquals, "="},
		{",", TokenComma, ","},
		{";", TokenSemicolon, ";"},
		{"- ", TokenMinus, "-"},
		{"q0", TokenIdentifier, "q0"},
		{"digraph", TokenDigraph, "digraph"},
		{"digraphs", TokenIdentifier, "digraphs"},
		{"node", TokenNode, "node"},
		{"edge", TokenEdge, "edge"},
		{"subgraph", TokenSubgraph, "subgraph"},
		{"graph", TokenGraph, "graph"},
		{"true", TokenBoolean, "true"},
		{"42", TokenNumber, "42"},
		{"-7", TokenNumber, "-7"},
		{"3.5", TokenNumber, "3.5"},
		{".5", TokenNumber, ".5"},
		{`"a b"`, TokenString, "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex(%q) error: %v", tt.input, err)
			}
			if len(tokens) != 2 {
				t.Fatalf("Lex(%q) produced %v, want one token and EOF", tt.input, tokenTypes(tokens))
			}
			if tokens[0].Type != tt.wantType {
				t.Errorf("Lex(%q)[0].Type = %v, want %v", tt.input, tokens[0].Type, tt.wantType)
			}
			if tokens[0].Value != tt.wantVal {
				t.Errorf("Lex(%q)[0].Value = %q, want %q", tt.input, tokens[0].Value, tt.wantVal)
			}
		})
	}
}

func TestLexStringEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"quote", `"say \"hi\""`, `say "hi"`},
		{"backslash", `"a\\b"`, `a\b`},
		{"newline", `"a\nb"`, "a\nb"},
		{"tab", `"a\tb"`, "a\tb"},
		{"unicode escape kept", "\"\\u0041\"", "\\u0041"},
		{"upper unicode escape kept", `"\U00e9"`, `\U00e9`},
		{"unknown escape kept", `"\l"`, `\l`},
		{"empty", `""`, ""},
		{"dash", `"-"`, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex(%q) error: %v", tt.input, err)
			}
			if tokens[0].Type != TokenString {
				t.Fatalf("Lex(%q)[0].Type = %v, want STRING", tt.input, tokens[0].Type)
			}
			if tokens[0].Value != tt.want {
				t.Errorf("Lex(%q)[0].Value = %q, want %q", tt.input, tokens[0].Value, tt.want)
			}
		})
	}
}

func TestLexComments(t *testing.T) {
	tokens, err := Lex("// line\n/* block\n spanning */ a\n# preprocessor\nb")
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}
	want := []TokenType{TokenIdentifier, TokenIdentifier, TokenEOF}
	got := tokenTypes(tokens)
	if len(got) != len(want) {
		t.Fatalf("types = %v, want %v", got, want)
	}
	if tokens[0].Value != "a" || tokens[1].Value != "b" {
		t.Errorf("values = %q, %q, want a, b", tokens[0].Value, tokens[1].Value)
	}
}

func TestLexArrowVsMinus(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenType
	}{
		{"0->1", []TokenType{TokenNumber, TokenArrow, TokenNumber, TokenEOF}},
		{"a -> b", []TokenType{TokenIdentifier, TokenArrow, TokenIdentifier, TokenEOF}},
		{"a -- b", []TokenType{TokenIdentifier, TokenMinus, TokenMinus, TokenIdentifier, TokenEOF}},
		{"a -1", []TokenType{TokenIdentifier, TokenNumber, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex(%q) error: %v", tt.input, err)
			}
			got := tokenTypes(tokens)
			if len(got) != len(tt.want) {
				t.Fatalf("Lex(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Lex(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMsg  string
		wantLine int
		wantCol  int
	}{
		{"unterminated string", "a\n  \"oops", "unterminated string", 2, 3},
		{"unterminated block comment", "/* never closed", "unterminated block comment", 1, 1},
		{"unexpected character", "a @ b", "unexpected character", 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.input)
			if err == nil {
				t.Fatalf("Lex(%q) succeeded, want error", tt.input)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Lex(%q) error %T is not *SyntaxError", tt.input, err)
			}
			if !strings.Contains(se.Msg, tt.wantMsg) {
				t.Errorf("Msg = %q, want it to contain %q", se.Msg, tt.wantMsg)
			}
			if se.Line != tt.wantLine || se.Col != tt.wantCol {
				t.Errorf("position = %d:%d, want %d:%d", se.Line, se.Col, tt.wantLine, tt.wantCol)
			}
			if !strings.Contains(err.Error(), "line") || !strings.Contains(err.Error(), "col") {
				t.Errorf("Error() = %q, want line and col", err.Error())
			}
		})
	}
}

func TestLexLineColumnTracking(t *testing.T) {
	tokens, err := Lex("digraph G {\n  0 -> 1\n}")
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}
	want := []struct {
		typ       TokenType
		line, col int
	}{
		{TokenDigraph, 1, 1},
		{TokenIdentifier, 1, 9},
		{TokenLBrace, 1, 11},
		{TokenNumber, 2, 3},
		{TokenArrow, 2, 5},
		{TokenNumber, 2, 8},
		{TokenRBrace, 3, 1},
		{TokenEOF, 3, 2},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %v, want %d tokens", tokenTypes(tokens), len(want))
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Type != w.typ || tok.Line != w.line || tok.Col != w.col {
			t.Errorf("token[%d] = %v@%d:%d, want %v@%d:%d", i, tok.Type, tok.Line, tok.Col, w.typ, w.line, w.col)
		}
	}
}

func TestTokenTypeString(t *testing.T) {
	if got := TokenArrow.String(); got != "ARROW" {
		t.Errorf("TokenArrow.String() = %q, want ARROW", got)
	}
	if got := TokenType(99).String(); got != "UNKNOWN(99)" {
		t.Errorf("TokenType(99).String() = %q, want UNKNOWN(99)", got)
	}
}
