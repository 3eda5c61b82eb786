// Package lexer turns source text into a stream of positioned tokens.
package lexer

import (
	"strings"

	"github.com/skx/c-compiler/diag"
	"github.com/skx/c-compiler/token"
)

// orderedTokens lists every fixed-text token, in the order the lexer
// tries them at a given position - the first prefix match wins. This
// is why "==" is tried before "=", and "<=" before "<".
var orderedTokens = []struct {
	literal string
	typ     token.Type
}{
	{"==", token.EQ},
	{"!=", token.NOT_EQ},
	{"<=", token.LT_EQ},
	{">=", token.GT_EQ},
	{"<", token.LT},
	{">", token.GT},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.ASTERISK},
	{"/", token.SLASH},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
	{",", token.COMMA},
	{";", token.SEMICOLON},
	{"&", token.AMPERSAND},
	{"=", token.ASSIGN},
}

// LexError reports that no token rule matched the input at Pos.
type LexError struct {
	Pos     int
	Message string
	source  string
}

func (e *LexError) Error() string {
	if e.source == "" {
		return e.Message
	}
	return diag.Render(e.source, e.Pos, e.Message)
}

// Lexer holds our object-state: the input, as runes, and our current
// scanning position.
type Lexer struct {
	characters []rune
	pos        int
}

// New builds a Lexer over input.
func New(input string) *Lexer {
	return &Lexer{characters: []rune(input)}
}

// NextToken returns the next token in the input, skipping whitespace.
// It returns token.EOF once the input is exhausted, and a *LexError
// when no rule matches the current character.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.characters) {
		return token.Token{Type: token.EOF, Pos: l.pos}, nil
	}

	start := l.pos

	for _, candidate := range orderedTokens {
		if l.hasPrefix(candidate.literal) {
			l.pos += len(candidate.literal)
			return token.Token{Type: candidate.typ, Literal: candidate.literal, Pos: start}, nil
		}
	}

	ch := l.characters[l.pos]

	switch {
	case isDigit(ch):
		lit := l.readWhile(isDigit)
		return token.Token{Type: token.NUMBER, Literal: lit, Pos: start}, nil

	case isLetter(ch):
		lit := l.readWhile(isIdentifierChar)
		return token.Token{Type: token.LookupIdentifier(lit), Literal: lit, Pos: start}, nil

	default:
		return token.Token{}, &LexError{
			Pos:     start,
			Message: "unexpected character '" + string(ch) + "'",
			source:  string(l.characters),
		}
	}
}

// hasPrefix reports whether literal matches the input starting at the
// current position.
func (l *Lexer) hasPrefix(literal string) bool {
	runes := []rune(literal)
	if l.pos+len(runes) > len(l.characters) {
		return false
	}
	return string(l.characters[l.pos:l.pos+len(runes)]) == literal
}

// readWhile consumes and returns characters for as long as accept
// returns true of the current character.
func (l *Lexer) readWhile(accept func(rune) bool) string {
	var b strings.Builder
	for l.pos < len(l.characters) && accept(l.characters[l.pos]) {
		b.WriteRune(l.characters[l.pos])
		l.pos++
	}
	return b.String()
}

// skipWhitespace advances past space, tab, carriage-return and newline
// characters.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.characters) && isWhitespace(l.characters[l.pos]) {
		l.pos++
	}
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch rune) bool {
	return ch >= 'a' && ch <= 'z'
}

func isIdentifierChar(ch rune) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}

// Tokenize fully drains a Lexer over input, returning every token up
// to and including EOF, or the first LexError encountered.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}
