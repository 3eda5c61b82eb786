package sema

import (
	"github.com/skx/c-compiler/ast"
	"github.com/skx/c-compiler/typedast"
	"github.com/skx/c-compiler/types"
)

// Elaborate runs the full type elaboration pass over program: it
// collects the global signature table, then elaborates every function
// definition's body against its own local variable environment.
// External declarations contribute only to the signature table - they
// generate no typedast.Function.
func Elaborate(source string, program *ast.Program) (*typedast.Program, error) {
	signatures := CollectSignatures(program)

	out := &typedast.Program{}

	for _, top := range program.TopLevels {
		if top.Kind != ast.FunctionDefinition {
			continue
		}

		env, err := CollectVariables(source, top.Params, top.Body)
		if err != nil {
			return nil, err
		}

		fe := &functionElaborator{
			source:     source,
			signatures: signatures,
			locals:     env,
			returnType: top.ReturnType.Resolve(),
		}

		typedBody, err := fe.elaborateStatements(top.Body)
		if err != nil {
			return nil, err
		}

		params := make([]typedast.Param, len(top.Params))
		for i, p := range top.Params {
			params[i] = typedast.Param{Name: p.Name, Type: p.Type.Resolve()}
		}

		out.Functions = append(out.Functions, &typedast.Function{
			Name:       top.Name,
			Params:     params,
			ReturnType: fe.returnType,
			Body:       typedBody,
			Locals:     env,
		})
	}

	return out, nil
}

// functionElaborator elaborates the body of a single function against
// its global signature table and its own local variable environment.
type functionElaborator struct {
	source     string
	signatures map[string]types.FunctionType
	locals     *typedast.Env
	returnType types.Type
}

func (fe *functionElaborator) errorf(kind ErrorKind, pos int, format string, args ...interface{}) *TypeError {
	return newTypeError(fe.source, kind, pos, format, args...)
}

// ----------------------------------------------------------------
// Statements
// ----------------------------------------------------------------

func (fe *functionElaborator) elaborateStatements(stmts []*ast.Statement) ([]*typedast.Statement, error) {
	out := make([]*typedast.Statement, 0, len(stmts))
	for _, s := range stmts {
		ts, err := fe.elaborateStatement(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, nil
}

func (fe *functionElaborator) elaborateStatement(s *ast.Statement) (*typedast.Statement, error) {
	switch s.Kind {
	case ast.ExprStmt:
		e, err := fe.elaborateExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		return &typedast.Statement{Kind: ast.ExprStmt, Expr: e}, nil

	case ast.Return:
		e, err := fe.elaborateExpr(s.Expr)
		if err != nil {
			return nil, err
		}
		if !e.Type.Equal(fe.returnType) {
			return nil, fe.errorf(ReturnTypeMismatch, s.Expr.Pos,
				"function returns %s but this statement returns %s", fe.returnType, e.Type)
		}
		return &typedast.Statement{Kind: ast.Return, Expr: e}, nil

	case ast.If:
		cond, err := fe.elaborateExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		then, err := fe.elaborateStatement(s.Then)
		if err != nil {
			return nil, err
		}
		return &typedast.Statement{Kind: ast.If, Cond: cond, Then: then}, nil

	case ast.IfElse:
		cond, err := fe.elaborateExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		then, err := fe.elaborateStatement(s.Then)
		if err != nil {
			return nil, err
		}
		els, err := fe.elaborateStatement(s.Else)
		if err != nil {
			return nil, err
		}
		return &typedast.Statement{Kind: ast.IfElse, Cond: cond, Then: then, Else: els}, nil

	case ast.While:
		cond, err := fe.elaborateExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		body, err := fe.elaborateStatement(s.Body)
		if err != nil {
			return nil, err
		}
		return &typedast.Statement{Kind: ast.While, Cond: cond, Body: body}, nil

	case ast.For:
		init, err := fe.elaborateExpr(s.Init)
		if err != nil {
			return nil, err
		}
		cond, err := fe.elaborateExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		update, err := fe.elaborateExpr(s.Update)
		if err != nil {
			return nil, err
		}
		body, err := fe.elaborateStatement(s.Body)
		if err != nil {
			return nil, err
		}
		return &typedast.Statement{Kind: ast.For, Init: init, Cond: cond, Update: update, Body: body}, nil

	case ast.Block:
		stmts, err := fe.elaborateStatements(s.Stmts)
		if err != nil {
			return nil, err
		}
		return &typedast.Statement{Kind: ast.Block, Stmts: stmts}, nil

	case ast.VarDecl:
		return &typedast.Statement{Kind: ast.VarDecl, Name: s.Name, Type: s.Type.Resolve()}, nil

	default:
		return nil, fe.errorf(InvalidLValue, s.Pos, "unknown statement kind")
	}
}

// ----------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------

func (fe *functionElaborator) elaborateExpr(e *ast.Expr) (*typedast.Expr, error) {
	switch e.Kind {
	case ast.Num:
		return &typedast.Expr{Kind: ast.Num, Type: types.IntType, IntValue: e.IntValue}, nil

	case ast.Variable:
		t, ok := fe.locals.Lookup(e.Name)
		if !ok {
			return nil, fe.errorf(UndefinedVariable, e.Pos, "undefined variable %q", e.Name)
		}
		return &typedast.Expr{Kind: ast.Variable, Type: t, Name: e.Name}, nil

	case ast.Binary:
		return fe.elaborateBinary(e)

	case ast.Assign:
		return fe.elaborateAssign(e)

	case ast.FunctionCall:
		return fe.elaborateCall(e)

	case ast.Address:
		return fe.elaborateAddress(e)

	case ast.Dereference:
		return fe.elaborateDereference(e)

	case ast.Sizeof:
		operand, err := fe.elaborateExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		return &typedast.Expr{Kind: ast.Sizeof, Type: types.IntType, Operand: operand}, nil

	default:
		return nil, fe.errorf(InvalidLValue, e.Pos, "unknown expression kind")
	}
}

// decay turns an Array(T,N)-typed expression into a Pointer(T)-typed
// one. An array's value in pointer context is the address of its first
// element, so the array expression is wrapped in an address-of node
// typed Pointer(T). It is a no-op for every other type.
func decay(e *typedast.Expr) *typedast.Expr {
	if !e.Type.IsArray() {
		return e
	}
	return &typedast.Expr{Kind: ast.Address, Type: e.Type.Decay(), Operand: e}
}

var comparisonOps = map[ast.BinOp]bool{
	ast.Lt: true, ast.LtEq: true, ast.Eq: true,
	ast.NotEq: true, ast.Gt: true, ast.GtEq: true,
}

func (fe *functionElaborator) elaborateBinary(e *ast.Expr) (*typedast.Expr, error) {
	lhs, err := fe.elaborateExpr(e.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := fe.elaborateExpr(e.RHS)
	if err != nil {
		return nil, err
	}
	lhs, rhs = decay(lhs), decay(rhs)

	if comparisonOps[e.Op] {
		if !lhs.Type.Equal(rhs.Type) {
			return nil, fe.errorf(OperandTypeMismatch, e.Pos,
				"comparison operands have different types: %s vs %s", lhs.Type, rhs.Type)
		}
		return &typedast.Expr{Kind: ast.Binary, Type: types.IntType, Op: e.Op, LHS: lhs, RHS: rhs}, nil
	}

	switch e.Op {
	case ast.Add, ast.Sub:
		resultType, err := fe.arithmeticResultType(e.Pos, lhs.Type, rhs.Type)
		if err != nil {
			return nil, err
		}
		return &typedast.Expr{Kind: ast.Binary, Type: resultType, Op: e.Op, LHS: lhs, RHS: rhs}, nil

	case ast.Mul, ast.Div:
		if !lhs.Type.IsInt() || !rhs.Type.IsInt() {
			return nil, fe.errorf(OperandTypeMismatch, e.Pos,
				"'*'/'/' require integer operands, got %s and %s", lhs.Type, rhs.Type)
		}
		return &typedast.Expr{Kind: ast.Binary, Type: types.IntType, Op: e.Op, LHS: lhs, RHS: rhs}, nil

	default:
		return nil, fe.errorf(OperandTypeMismatch, e.Pos, "unknown binary operator")
	}
}

// arithmeticResultType implements the '+'/'-' typing rule: the
// non-pointer type when both operands are integers, the pointer type
// when exactly one operand is a pointer, and a fatal error when both
// are pointers.
func (fe *functionElaborator) arithmeticResultType(pos int, lhs, rhs types.Type) (types.Type, error) {
	if lhs.IsPointer() && rhs.IsPointer() {
		return types.Type{}, fe.errorf(PointerPlusPointer, pos, "cannot combine two pointers with '+' or '-'")
	}
	if lhs.IsPointer() {
		return lhs, nil
	}
	if rhs.IsPointer() {
		return rhs, nil
	}
	return types.IntType, nil
}

func (fe *functionElaborator) elaborateAssign(e *ast.Expr) (*typedast.Expr, error) {
	lhs, err := fe.elaborateExpr(e.LHS)
	if err != nil {
		return nil, err
	}
	if lhs.Kind != ast.Variable && lhs.Kind != ast.Dereference {
		return nil, fe.errorf(InvalidLValue, e.Pos, "assignment target must be a variable or dereference")
	}
	if lhs.Type.IsArray() {
		return nil, fe.errorf(ArrayAsLValueTarget, e.Pos, "cannot assign to array-typed %q directly", lhs.Name)
	}

	rhs, err := fe.elaborateExpr(e.RHS)
	if err != nil {
		return nil, err
	}
	rhs = decay(rhs)

	return &typedast.Expr{Kind: ast.Assign, Type: lhs.Type, LHS: lhs, RHS: rhs}, nil
}

func (fe *functionElaborator) elaborateAddress(e *ast.Expr) (*typedast.Expr, error) {
	operand, err := fe.elaborateExpr(e.Operand)
	if err != nil {
		return nil, err
	}
	if operand.Kind != ast.Variable && operand.Kind != ast.Dereference {
		return nil, fe.errorf(InvalidLValue, e.Pos, "operand of '&' must be a variable or dereference")
	}
	return &typedast.Expr{Kind: ast.Address, Type: types.NewPointer(operand.Type), Operand: operand}, nil
}

func (fe *functionElaborator) elaborateDereference(e *ast.Expr) (*typedast.Expr, error) {
	operand, err := fe.elaborateExpr(e.Operand)
	if err != nil {
		return nil, err
	}
	operand = decay(operand)
	if !operand.Type.IsPointer() {
		return nil, fe.errorf(DereferenceNonPointer, e.Pos, "cannot dereference non-pointer type %s", operand.Type)
	}
	return &typedast.Expr{Kind: ast.Dereference, Type: *operand.Type.Elem, Operand: operand}, nil
}

func (fe *functionElaborator) elaborateCall(e *ast.Expr) (*typedast.Expr, error) {
	sig, ok := fe.signatures[e.FuncName]
	if !ok {
		return nil, fe.errorf(UndefinedFunction, e.Pos, "undefined function %q", e.FuncName)
	}
	if len(sig.Params) != len(e.Args) {
		return nil, fe.errorf(ArityMismatch, e.Pos,
			"%q expects %d argument(s), got %d", e.FuncName, len(sig.Params), len(e.Args))
	}

	args := make([]*typedast.Expr, len(e.Args))
	for i, a := range e.Args {
		typedArg, err := fe.elaborateExpr(a)
		if err != nil {
			return nil, err
		}
		typedArg = decay(typedArg)
		if !typedArg.Type.Equal(sig.Params[i]) {
			return nil, fe.errorf(ArgumentTypeMismatch, a.Pos,
				"argument %d of %q: expected %s, got %s", i+1, e.FuncName, sig.Params[i], typedArg.Type)
		}
		args[i] = typedArg
	}

	return &typedast.Expr{Kind: ast.FunctionCall, Type: sig.Return, FuncName: e.FuncName, Args: args}, nil
}
