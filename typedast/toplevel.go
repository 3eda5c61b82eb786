package typedast

import "github.com/skx/c-compiler/types"

// Param is a single (name, resolved type) pair in a typed function
// signature.
type Param struct {
	Name string
	Type types.Type
}

// Function is a fully typed function definition: its signature, its
// typed body, and the local type environment (parameters plus every
// declared local, keyed by name) that the code generator's frame
// layout is built from.
type Function struct {
	Name       string
	Params     []Param
	ReturnType types.Type
	Body       []*Statement
	Locals     *Env
}

// Program is the type elaborator's final output: every function
// definition in the translation unit, fully typed. External
// declarations contribute only to the signature table consulted
// during elaboration (sema.CollectSignatures) and do not appear here, since
// they generate no code.
type Program struct {
	Functions []*Function
}
