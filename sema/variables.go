package sema

import (
	"github.com/skx/c-compiler/ast"
	"github.com/skx/c-compiler/typedast"
)

// CollectVariables builds the local type environment for one function:
// its parameters, in signature order, followed by every
// VariableDeclaration statement reached under its body's nested
// blocks, in source-appearance (depth-first) order. A name declared
// twice is a fatal DuplicateLocal error.
func CollectVariables(source string, params []ast.Param, body []*ast.Statement) (*typedast.Env, error) {
	env := typedast.NewEnv()

	for _, param := range params {
		if !env.Declare(param.Name, param.Type.Resolve()) {
			return nil, newTypeError(source, DuplicateLocal, 0,
				"parameter %q is already defined", param.Name)
		}
	}

	if err := collectInStatements(source, env, body); err != nil {
		return nil, err
	}

	return env, nil
}

func collectInStatements(source string, env *typedast.Env, stmts []*ast.Statement) error {
	for _, s := range stmts {
		if err := collectInStatement(source, env, s); err != nil {
			return err
		}
	}
	return nil
}

func collectInStatement(source string, env *typedast.Env, s *ast.Statement) error {
	switch s.Kind {
	case ast.ExprStmt, ast.Return:
		return nil
	case ast.If:
		return collectInStatement(source, env, s.Then)
	case ast.IfElse:
		if err := collectInStatement(source, env, s.Then); err != nil {
			return err
		}
		return collectInStatement(source, env, s.Else)
	case ast.While, ast.For:
		return collectInStatement(source, env, s.Body)
	case ast.Block:
		return collectInStatements(source, env, s.Stmts)
	case ast.VarDecl:
		if !env.Declare(s.Name, s.Type.Resolve()) {
			return newTypeError(source, DuplicateLocal, s.Pos,
				"variable %q is already defined", s.Name)
		}
		return nil
	default:
		return nil
	}
}
