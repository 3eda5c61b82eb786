package typedast

import (
	"github.com/skx/c-compiler/ast"
	"github.com/skx/c-compiler/types"
)

// Statement is a typed statement node; its shape parallels
// ast.Statement.
type Statement struct {
	Kind ast.StmtKind

	Expr *Expr

	Cond *Expr
	Then *Statement
	Else *Statement

	Init   *Expr
	Update *Expr
	Body   *Statement

	Stmts []*Statement

	Name string
	Type types.Type
}
