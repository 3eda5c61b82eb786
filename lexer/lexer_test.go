package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skx/c-compiler/token"
)

// TestParsePunctuationAndOperators covers the full punctuation table,
// including the "longest match wins" disambiguation between "==" and
// "=", and "<=" / ">=" and their single-character counterparts.
func TestParsePunctuationAndOperators(t *testing.T) {
	input := `+ - * / ( ) { } [ ] , ; & == != <= < >= > =`

	expected := []token.Type{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET, token.COMMA, token.SEMICOLON,
		token.AMPERSAND,
		token.EQ, token.NOT_EQ, token.LT_EQ, token.LT, token.GT_EQ, token.GT,
		token.ASSIGN,
		token.EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok, err := l.NextToken()
		require.NoError(t, err)
		assert.Equalf(t, want, tok.Type, "token %d", i)
	}
}

// TestParseKeywords verifies keywords are recognized ahead of the
// generic identifier rule.
func TestParseKeywords(t *testing.T) {
	input := `if else while for return int extern sizeof num`

	expected := []token.Type{
		token.IF, token.ELSE, token.WHILE, token.FOR, token.RETURN,
		token.INT, token.EXTERN, token.SIZEOF,
		token.IDENT,
		token.EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok, err := l.NextToken()
		require.NoError(t, err)
		assert.Equalf(t, want, tok.Type, "token %d", i)
	}
}

// TestParseNumbers confirms decimal literals are read as a whole and
// that unary minus is NOT folded into the literal by the lexer (that
// happens later, in the parser's desugaring of unary '-').
func TestParseNumbers(t *testing.T) {
	input := `3 43 007 -5`

	l := New(input)

	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.Type(token.NUMBER), tok.Type)
	assert.Equal(t, "3", tok.Literal)

	tok, err = l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "43", tok.Literal)

	tok, err = l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "007", tok.Literal)

	tok, err = l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.Type(token.MINUS), tok.Type)

	tok, err = l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.Type(token.NUMBER), tok.Type)
	assert.Equal(t, "5", tok.Literal)
}

// TestPositionsAreByteOffsets verifies each token carries the byte
// offset of its first character.
func TestPositionsAreByteOffsets(t *testing.T) {
	input := `a = 12;`

	l := New(input)

	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, 0, tok.Pos)

	tok, err = l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, 2, tok.Pos)

	tok, err = l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, 4, tok.Pos)

	tok, err = l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, 6, tok.Pos)
}

// TestUnrecognizedCharacter confirms a LexError is produced, with the
// byte offset of the offending rune.
func TestUnrecognizedCharacter(t *testing.T) {
	l := New(`1 + $`)

	_, err := l.NextToken()
	require.NoError(t, err)
	_, err = l.NextToken()
	require.NoError(t, err)

	_, err = l.NextToken()
	require.Error(t, err)

	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 4, lexErr.Pos)
}

// TestTokenize exercises the convenience whole-input helper.
func TestTokenize(t *testing.T) {
	toks, err := Tokenize(`int main ( ) { return 0 ; }`)
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Type(token.EOF), toks[len(toks)-1].Type)
}

func TestTokenizeStopsAtFirstError(t *testing.T) {
	_, err := Tokenize(`1 + $ + 2`)
	require.Error(t, err)
}
