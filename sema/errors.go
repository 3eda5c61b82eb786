// Package sema resolves the untyped AST into the typed AST: it
// collects the global function-signature table, the per-function
// local variable environment, and then walks each function body
// annotating every expression with its result type.
package sema

import (
	"fmt"

	"github.com/skx/c-compiler/diag"
)

// ErrorKind identifies which rule a TypeError violates.
type ErrorKind int

const (
	// UndefinedVariable: an identifier used as a variable does not
	// resolve to a declared local or parameter of the enclosing
	// function.
	UndefinedVariable ErrorKind = iota

	// UndefinedFunction: a call names a function absent from the
	// signature table.
	UndefinedFunction

	// ArityMismatch: a call's argument count does not match the
	// callee's declared parameter count.
	ArityMismatch

	// ArgumentTypeMismatch: a call argument's type, after decay,
	// does not equal the declared parameter type.
	ArgumentTypeMismatch

	// ReturnTypeMismatch: a return expression's type does not equal
	// the enclosing function's declared return type.
	ReturnTypeMismatch

	// PointerPlusPointer: both operands of '+' or '-' are pointers.
	PointerPlusPointer

	// DereferenceNonPointer: the operand of '*' is not, after decay,
	// a pointer type.
	DereferenceNonPointer

	// ArrayAsLValueTarget: an array-typed variable is used directly
	// as an assignment target.
	ArrayAsLValueTarget

	// DuplicateLocal: the same local name is declared twice within
	// one function.
	DuplicateLocal

	// InvalidLValue: an expression that is neither a variable nor a
	// dereference is used where an l-value is required (assignment
	// target, or the operand of address-of). Not part of the original
	// named kinds, but every such rejection needs a reportable value.
	InvalidLValue

	// OperandTypeMismatch: a comparison's operands do not agree in
	// type after decay, or a '*'/'/' operand is not an integer after
	// decay. Also an extension beyond the original named kinds.
	OperandTypeMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case UndefinedVariable:
		return "UndefinedVariable"
	case UndefinedFunction:
		return "UndefinedFunction"
	case ArityMismatch:
		return "ArityMismatch"
	case ArgumentTypeMismatch:
		return "ArgumentTypeMismatch"
	case ReturnTypeMismatch:
		return "ReturnTypeMismatch"
	case PointerPlusPointer:
		return "PointerPlusPointer"
	case DereferenceNonPointer:
		return "DereferenceNonPointer"
	case ArrayAsLValueTarget:
		return "ArrayAsLValueTarget"
	case DuplicateLocal:
		return "DuplicateLocal"
	case InvalidLValue:
		return "InvalidLValue"
	case OperandTypeMismatch:
		return "OperandTypeMismatch"
	default:
		return "UnknownTypeError"
	}
}

// TypeError reports a violation of one of the type elaborator's rules:
// an undefined name, a mismatched argument, return, or operand type,
// or an expression used where an l-value is required.
type TypeError struct {
	Kind    ErrorKind
	Pos     int
	Message string
	source  string
}

func (e *TypeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.source == "" {
		return msg
	}
	return diag.Render(e.source, e.Pos, msg)
}

func newTypeError(source string, kind ErrorKind, pos int, format string, args ...interface{}) *TypeError {
	return &TypeError{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...), source: source}
}
