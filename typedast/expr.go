// Package typedast is the AST after the type elaborator has annotated
// every expression node with its result type. It persists through code
// generation - unlike the untyped ast package, whose values die once
// elaboration completes.
package typedast

import (
	"github.com/skx/c-compiler/ast"
	"github.com/skx/c-compiler/types"
)

// Expr is a typed expression node. Its shape parallels ast.Expr, with
// a Type attached to every node (comparisons and Sizeof are always
// types.IntType).
type Expr struct {
	Kind ast.ExprKind
	Type types.Type

	// Num
	IntValue int

	// Binary, Assign
	Op  ast.BinOp
	LHS *Expr
	RHS *Expr

	// Variable
	Name string

	// FunctionCall
	FuncName string
	Args     []*Expr

	// Address, Dereference, Sizeof
	Operand *Expr
}
