// Package parser implements a recursive-descent parser with standard C
// operator precedence, turning a token stream into the untyped ast.
package parser

import (
	"strconv"

	"github.com/skx/c-compiler/ast"
	"github.com/skx/c-compiler/lexer"
	"github.com/skx/c-compiler/token"
)

// Parser holds our object-state: every token of the program (lexed up
// front) plus our current position within it, and the raw source text
// for rendering diagnostics.
type Parser struct {
	tokens []token.Token
	pos    int
	source string
}

// New lexes source in full and returns a Parser ready to parse it, or
// the *lexer.LexError produced by the first unrecognized character.
func New(source string) (*Parser, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return &Parser{tokens: tokens, source: source}, nil
}

// ParseProgram consumes the whole token stream, returning the ordered
// list of top-level items, or the first *ParseError encountered.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	var items []*ast.TopLevel

	for p.cur().Type != token.EOF {
		item, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, p.errorf("a top-level declaration")
	}

	return &ast.Program{TopLevels: items}, nil
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(expected string) *ParseError {
	return &ParseError{Pos: p.cur().Pos, Expected: expected, Got: p.cur().Type, source: p.source}
}

// expect advances past the current token if it has kind typ, or
// returns a *ParseError describing the mismatch.
func (p *Parser) expect(typ token.Type, expected string) (token.Token, error) {
	if p.cur().Type != typ {
		return token.Token{}, p.errorf(expected)
	}
	return p.advance(), nil
}

// ----------------------------------------------------------------
// Top level: program := top_level+
//             top_level := "extern" func_sig ";" | func_sig "{" statement* "}"
// ----------------------------------------------------------------

func (p *Parser) parseTopLevel() (*ast.TopLevel, error) {
	if p.cur().Type == token.EXTERN {
		p.advance()

		name, params, ret, err := p.parseFuncSig()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
			return nil, err
		}
		return ast.NewExternalFunctionDeclaration(name, params, ret), nil
	}

	name, params, ret, err := p.parseFuncSig()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.LBRACE, "'{'"); err != nil {
		return nil, err
	}

	var body []*ast.Statement
	for p.cur().Type != token.RBRACE {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.advance() // consume '}'

	return ast.NewFunctionDefinition(name, params, ret, body), nil
}

// func_sig := type identifier "(" [ param ("," param)* ] ")"
func (p *Parser) parseFuncSig() (string, []ast.Param, ast.DeclaredType, error) {
	ret, err := p.parseType()
	if err != nil {
		return "", nil, ast.DeclaredType{}, err
	}

	nameTok, err := p.expect(token.IDENT, "function name")
	if err != nil {
		return "", nil, ast.DeclaredType{}, err
	}

	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return "", nil, ast.DeclaredType{}, err
	}

	var params []ast.Param
	if p.cur().Type != token.RPAREN {
		param, err := p.parseParam()
		if err != nil {
			return "", nil, ast.DeclaredType{}, err
		}
		params = append(params, param)

		for p.cur().Type == token.COMMA {
			p.advance()
			param, err := p.parseParam()
			if err != nil {
				return "", nil, ast.DeclaredType{}, err
			}
			params = append(params, param)
		}
	}

	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return "", nil, ast.DeclaredType{}, err
	}

	return nameTok.Literal, params, ret, nil
}

// param := type identifier [ "[" NUM "]" ]
func (p *Parser) parseParam() (ast.Param, error) {
	ty, err := p.parseType()
	if err != nil {
		return ast.Param{}, err
	}

	nameTok, err := p.expect(token.IDENT, "parameter name")
	if err != nil {
		return ast.Param{}, err
	}

	if p.cur().Type == token.LBRACKET {
		p.advance()
		n, err := p.expect(token.NUMBER, "array length")
		if err != nil {
			return ast.Param{}, err
		}
		if _, err := p.expect(token.RBRACKET, "']'"); err != nil {
			return ast.Param{}, err
		}
		length, convErr := strconv.Atoi(n.Literal)
		if convErr != nil {
			return ast.Param{}, &ParseError{Pos: n.Pos, Expected: "array length", Got: n.Type, source: p.source}
		}
		ty.ArrayLen = length
	}

	return ast.Param{Name: nameTok.Literal, Type: ty}, nil
}

// type := "int" "*"*
func (p *Parser) parseType() (ast.DeclaredType, error) {
	if _, err := p.expect(token.INT, "'int'"); err != nil {
		return ast.DeclaredType{}, err
	}

	depth := 0
	for p.cur().Type == token.ASTERISK {
		p.advance()
		depth++
	}

	return ast.DeclaredType{PointerDepth: depth, ArrayLen: -1}, nil
}

// ----------------------------------------------------------------
// Statements
// ----------------------------------------------------------------

func (p *Parser) parseStatement() (*ast.Statement, error) {
	switch p.cur().Type {
	case token.RETURN:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
			return nil, err
		}
		return ast.NewReturn(expr), nil

	case token.IF:
		p.advance()
		if _, err := p.expect(token.LPAREN, "'('"); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		then, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if p.cur().Type == token.ELSE {
			p.advance()
			els, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			return ast.NewIfElse(cond, then, els), nil
		}
		return ast.NewIf(cond, then), nil

	case token.WHILE:
		p.advance()
		if _, err := p.expect(token.LPAREN, "'('"); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return ast.NewWhile(cond, body), nil

	case token.FOR:
		p.advance()
		if _, err := p.expect(token.LPAREN, "'('"); err != nil {
			return nil, err
		}
		init, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
			return nil, err
		}
		update, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return ast.NewFor(init, cond, update, body), nil

	case token.LBRACE:
		p.advance()
		var stmts []*ast.Statement
		for p.cur().Type != token.RBRACE {
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		}
		p.advance() // consume '}'
		return ast.NewBlock(stmts), nil

	case token.INT:
		declPos := p.cur().Pos
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		nameTok, err := p.expect(token.IDENT, "variable name")
		if err != nil {
			return nil, err
		}
		if p.cur().Type == token.LBRACKET {
			p.advance()
			n, err := p.expect(token.NUMBER, "array length")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET, "']'"); err != nil {
				return nil, err
			}
			length, convErr := strconv.Atoi(n.Literal)
			if convErr != nil {
				return nil, &ParseError{Pos: n.Pos, Expected: "array length", Got: n.Type, source: p.source}
			}
			ty.ArrayLen = length
		}
		if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
			return nil, err
		}
		return ast.NewVarDecl(declPos, nameTok.Literal, ty), nil

	default:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
			return nil, err
		}
		return ast.NewExprStmt(expr), nil
	}
}

// ----------------------------------------------------------------
// Expressions, in increasing precedence order.
// ----------------------------------------------------------------

func (p *Parser) parseExpr() (*ast.Expr, error) {
	return p.parseAssign()
}

// assign := equality ( "=" assign )?     -- right-associative
func (p *Parser) parseAssign() (*ast.Expr, error) {
	pos := p.cur().Pos
	lhs, err := p.parseEquality()
	if err != nil {
		return nil, err
	}

	if p.cur().Type == token.ASSIGN {
		p.advance()
		rhs, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return ast.NewAssign(pos, lhs, rhs), nil
	}
	return lhs, nil
}

// equality := relational ( ("==" | "!=") relational )*
func (p *Parser) parseEquality() (*ast.Expr, error) {
	pos := p.cur().Pos
	lhs, err := p.parseRelational()
	if err != nil {
		return nil, err
	}

	for {
		switch p.cur().Type {
		case token.EQ:
			p.advance()
			rhs, err := p.parseRelational()
			if err != nil {
				return nil, err
			}
			lhs = ast.NewBinary(pos, ast.Eq, lhs, rhs)
		case token.NOT_EQ:
			p.advance()
			rhs, err := p.parseRelational()
			if err != nil {
				return nil, err
			}
			lhs = ast.NewBinary(pos, ast.NotEq, lhs, rhs)
		default:
			return lhs, nil
		}
	}
}

// relational := add ( ("<"|"<="|">"|">=") add )*
func (p *Parser) parseRelational() (*ast.Expr, error) {
	pos := p.cur().Pos
	lhs, err := p.parseAdd()
	if err != nil {
		return nil, err
	}

	for {
		var op ast.BinOp
		switch p.cur().Type {
		case token.LT:
			op = ast.Lt
		case token.LT_EQ:
			op = ast.LtEq
		case token.GT:
			op = ast.Gt
		case token.GT_EQ:
			op = ast.GtEq
		default:
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinary(pos, op, lhs, rhs)
	}
}

// add := mul ( ("+"|"-") mul )*
func (p *Parser) parseAdd() (*ast.Expr, error) {
	pos := p.cur().Pos
	lhs, err := p.parseMul()
	if err != nil {
		return nil, err
	}

	for {
		var op ast.BinOp
		switch p.cur().Type {
		case token.PLUS:
			op = ast.Add
		case token.MINUS:
			op = ast.Sub
		default:
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinary(pos, op, lhs, rhs)
	}
}

// mul := unary ( ("*"|"/") unary )*
func (p *Parser) parseMul() (*ast.Expr, error) {
	pos := p.cur().Pos
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		var op ast.BinOp
		switch p.cur().Type {
		case token.ASTERISK:
			op = ast.Mul
		case token.SLASH:
			op = ast.Div
		default:
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinary(pos, op, lhs, rhs)
	}
}

// unary := ("+"|"-"|"&"|"*") array_access | array_access
func (p *Parser) parseUnary() (*ast.Expr, error) {
	pos := p.cur().Pos

	switch p.cur().Type {
	case token.PLUS:
		p.advance()
		return p.parseArrayAccess()
	case token.MINUS:
		p.advance()
		operand, err := p.parseArrayAccess()
		if err != nil {
			return nil, err
		}
		// Unary '-x' desugars to '0 - x'.
		return ast.NewBinary(pos, ast.Sub, ast.NewNum(pos, 0), operand), nil
	case token.AMPERSAND:
		p.advance()
		operand, err := p.parseArrayAccess()
		if err != nil {
			return nil, err
		}
		return ast.NewAddress(pos, operand), nil
	case token.ASTERISK:
		p.advance()
		operand, err := p.parseArrayAccess()
		if err != nil {
			return nil, err
		}
		return ast.NewDereference(pos, operand), nil
	default:
		return p.parseArrayAccess()
	}
}

// array_access := primary ( "[" expr "]" )*    -- desugars to *(a+i)
func (p *Parser) parseArrayAccess() (*ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.cur().Type == token.LBRACKET {
		pos := p.cur().Pos
		p.advance()
		index, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET, "']'"); err != nil {
			return nil, err
		}
		expr = ast.NewDereference(pos, ast.NewBinary(pos, ast.Add, expr, index))
	}

	return expr, nil
}

// primary := NUM
//          | "sizeof" "(" expr ")"
//          | identifier "(" [ expr ("," expr)* ] ")"
//          | identifier
//          | "(" expr ")"
func (p *Parser) parsePrimary() (*ast.Expr, error) {
	pos := p.cur().Pos

	switch p.cur().Type {
	case token.NUMBER:
		tok := p.advance()
		n, err := strconv.Atoi(tok.Literal)
		if err != nil {
			return nil, &ParseError{Pos: tok.Pos, Expected: "integer literal", Got: tok.Type, source: p.source}
		}
		return ast.NewNum(pos, n), nil

	case token.SIZEOF:
		p.advance()
		if _, err := p.expect(token.LPAREN, "'('"); err != nil {
			return nil, err
		}
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return ast.NewSizeof(pos, operand), nil

	case token.IDENT:
		tok := p.advance()
		if p.cur().Type == token.LPAREN {
			p.advance()
			var args []*ast.Expr
			if p.cur().Type != token.RPAREN {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				for p.cur().Type == token.COMMA {
					p.advance()
					arg, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
				}
			}
			if _, err := p.expect(token.RPAREN, "')'"); err != nil {
				return nil, err
			}
			return ast.NewFunctionCall(pos, tok.Literal, args), nil
		}
		return ast.NewVariable(pos, tok.Literal), nil

	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, p.errorf("an expression")
	}
}
