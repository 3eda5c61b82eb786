package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skx/c-compiler/ast"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p, err := New(src)
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	return prog
}

func TestParseMinimalFunction(t *testing.T) {
	prog := parseProgram(t, `int main() { return 0; }`)

	require.Len(t, prog.TopLevels, 1)
	fn := prog.TopLevels[0]
	assert.Equal(t, ast.FunctionDefinition, fn.Kind)
	assert.Equal(t, "main", fn.Name)
	require.Len(t, fn.Body, 1)
	assert.Equal(t, ast.Return, fn.Body[0].Kind)
}

func TestParseExternDeclaration(t *testing.T) {
	prog := parseProgram(t, `extern int external_func(int a, int b); int main() { return external_func(1, 2); }`)

	require.Len(t, prog.TopLevels, 2)
	ext := prog.TopLevels[0]
	assert.Equal(t, ast.ExternalFunctionDeclaration, ext.Kind)
	assert.Equal(t, "external_func", ext.Name)
	require.Len(t, ext.Params, 2)
	assert.Nil(t, ext.Body)
}

func TestParseParamsAndArrayParam(t *testing.T) {
	prog := parseProgram(t, `int f(int *p, int a[5]) { return 0; }`)

	fn := prog.TopLevels[0]
	require.Len(t, fn.Params, 2)
	assert.Equal(t, 1, fn.Params[0].Type.PointerDepth)
	assert.Equal(t, -1, fn.Params[0].Type.ArrayLen)
	assert.Equal(t, 5, fn.Params[1].Type.ArrayLen)
}

func TestOperatorPrecedence(t *testing.T) {
	prog := parseProgram(t, `int main() { return 2 * (3 + 4); }`)

	ret := prog.TopLevels[0].Body[0]
	expr := ret.Expr
	require.Equal(t, ast.Binary, expr.Kind)
	assert.Equal(t, ast.Mul, expr.Op)
	assert.Equal(t, ast.Add, expr.RHS.Op)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	prog := parseProgram(t, `int main() { int a; int b; a = b = 3; return a; }`)

	stmt := prog.TopLevels[0].Body[2]
	require.Equal(t, ast.ExprStmt, stmt.Kind)
	require.Equal(t, ast.Assign, stmt.Expr.Kind)
	assert.Equal(t, "a", stmt.Expr.LHS.Name)
	require.Equal(t, ast.Assign, stmt.Expr.RHS.Kind)
	assert.Equal(t, "b", stmt.Expr.RHS.LHS.Name)
}

func TestUnaryMinusDesugarsToZeroMinusOperand(t *testing.T) {
	prog := parseProgram(t, `int main() { return -5; }`)

	expr := prog.TopLevels[0].Body[0].Expr
	require.Equal(t, ast.Binary, expr.Kind)
	assert.Equal(t, ast.Sub, expr.Op)
	assert.Equal(t, 0, expr.LHS.IntValue)
	assert.Equal(t, 5, expr.RHS.IntValue)
}

func TestArrayAccessDesugarsToDereferenceOfAddition(t *testing.T) {
	prog := parseProgram(t, `int main() { int a[2]; return a[1]; }`)

	expr := prog.TopLevels[0].Body[1].Expr
	require.Equal(t, ast.Dereference, expr.Kind)
	require.Equal(t, ast.Binary, expr.Operand.Kind)
	assert.Equal(t, ast.Add, expr.Operand.Op)
	assert.Equal(t, "a", expr.Operand.LHS.Name)
	assert.Equal(t, 1, expr.Operand.RHS.IntValue)
}

func TestIfElseChaining(t *testing.T) {
	prog := parseProgram(t, `int main() { if (1) return 2; else return 3; }`)

	stmt := prog.TopLevels[0].Body[0]
	assert.Equal(t, ast.IfElse, stmt.Kind)
}

func TestForLoopRequiresAllThreeClauses(t *testing.T) {
	prog := parseProgram(t, `int main() { int i; int sum; for (i = 0; i <= 10; i = i + 1) sum = sum + i; return sum; }`)

	forStmt := prog.TopLevels[0].Body[2]
	require.Equal(t, ast.For, forStmt.Kind)
	assert.NotNil(t, forStmt.Init)
	assert.NotNil(t, forStmt.Cond)
	assert.NotNil(t, forStmt.Update)
}

func TestSizeofParses(t *testing.T) {
	prog := parseProgram(t, `int main() { return sizeof(1); }`)

	expr := prog.TopLevels[0].Body[0].Expr
	assert.Equal(t, ast.Sizeof, expr.Kind)
}

func TestMissingSemicolonIsParseError(t *testing.T) {
	p, err := New(`int main() { return 0 }`)
	require.NoError(t, err)

	_, err = p.ParseProgram()
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "';'", parseErr.Expected)
}

func TestUnterminatedParenIsParseError(t *testing.T) {
	p, err := New(`int main() { return (1 + 2; }`)
	require.NoError(t, err)

	_, err = p.ParseProgram()
	require.Error(t, err)
}

func TestLexErrorPropagatesFromNew(t *testing.T) {
	_, err := New(`int main() { return $; }`)
	require.Error(t, err)
}
