package sema

import (
	"github.com/skx/c-compiler/ast"
	"github.com/skx/c-compiler/types"
)

// CollectSignatures builds the global function-signature table: every
// function name in program, defined or externally declared, mapped to
// its (parameter types, return type). This must run before any
// function body is elaborated, since a call may appear before its
// callee in source order.
func CollectSignatures(program *ast.Program) map[string]types.FunctionType {
	signatures := make(map[string]types.FunctionType)

	for _, top := range program.TopLevels {
		paramTypes := make([]types.Type, len(top.Params))
		for i, param := range top.Params {
			paramTypes[i] = param.Type.Resolve()
		}
		signatures[top.Name] = types.FunctionType{
			Params: paramTypes,
			Return: top.ReturnType.Resolve(),
		}
	}

	return signatures
}
