// Package ast holds the untyped abstract syntax tree produced by the
// parser: expressions, statements and top-level declarations. Every
// node here is a plain, tree-owned value - there is no sharing and no
// cycles, so the tree can be walked and discarded without bookkeeping.
package ast

import "github.com/skx/c-compiler/types"

// BinOp identifies a binary operator.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Lt
	LtEq
	Eq
	NotEq
	Gt
	GtEq
)

// Expr is the untyped expression tree. Exactly one of its embedded
// fields should be populated, tagged by Kind.
type Expr struct {
	Kind ExprKind
	Pos  int

	// Num
	IntValue int

	// Binary (Add, Sub, ... and all comparisons) and Assign
	Op  BinOp
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

// ExprKind identifies which variant of Expr is populated.
type ExprKind int

const (
	Num ExprKind = iota
	Binary
	Assign
	Variable
	FunctionCall
	Address
	Dereference
	Sizeof
)

// NewNum builds an integer-literal expression.
func NewNum(pos int, v int) *Expr {
	return &Expr{Kind: Num, Pos: pos, IntValue: v}
}

// NewBinary builds a binary arithmetic or comparison expression.
func NewBinary(pos int, op BinOp, lhs, rhs *Expr) *Expr {
	return &Expr{Kind: Binary, Pos: pos, Op: op, LHS: lhs, RHS: rhs}
}

// NewAssign builds an assignment expression.
func NewAssign(pos int, lhs, rhs *Expr) *Expr {
	return &Expr{Kind: Assign, Pos: pos, LHS: lhs, RHS: rhs}
}

// NewVariable builds an identifier-reference expression.
func NewVariable(pos int, name string) *Expr {
	return &Expr{Kind: Variable, Pos: pos, Name: name}
}

// NewFunctionCall builds a function-call expression.
func NewFunctionCall(pos int, name string, args []*Expr) *Expr {
	return &Expr{Kind: FunctionCall, Pos: pos, FuncName: name, Args: args}
}

// NewAddress builds an address-of expression.
func NewAddress(pos int, operand *Expr) *Expr {
	return &Expr{Kind: Address, Pos: pos, Operand: operand}
}

// NewDereference builds a pointer-dereference expression.
func NewDereference(pos int, operand *Expr) *Expr {
	return &Expr{Kind: Dereference, Pos: pos, Operand: operand}
}

// NewSizeof builds a sizeof expression.
func NewSizeof(pos int, operand *Expr) *Expr {
	return &Expr{Kind: Sizeof, Pos: pos, Operand: operand}
}

// DeclaredType is the spelled-out type of a parameter or local
// variable declaration: a base int type plus a pointer depth, plus an
// optional array length (ArrayLen >= 0 means "this is an array").
type DeclaredType struct {
	PointerDepth int
	ArrayLen     int // -1 when the declaration is not an array
}

// Resolve turns a DeclaredType into a types.Type.
func (d DeclaredType) Resolve() types.Type {
	t := types.IntType
	for i := 0; i < d.PointerDepth; i++ {
		t = types.NewPointer(t)
	}
	if d.ArrayLen >= 0 {
		t = types.NewArray(t, d.ArrayLen)
	}
	return t
}
