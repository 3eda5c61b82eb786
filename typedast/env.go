package typedast

import "github.com/skx/c-compiler/types"

// Env is a local variable type environment: a name -> type lookup
// plus the declaration order of those names.
//
// Go map iteration order is randomized, and the code generator's
// frame layout (the unexported frame built by buildFrame in
// codegen/frame.go) assigns stack offsets by walking an Env in order -
// so Env keeps an explicit ordered slice alongside the lookup map
// rather than relying on map iteration. This keeps generated assembly
// byte-stable across runs of the same program.
type Env struct {
	order []string
	types map[string]types.Type
}

// NewEnv returns an empty local type environment.
func NewEnv() *Env {
	return &Env{types: make(map[string]types.Type)}
}

// Declare adds name to the environment in declaration order. It
// reports false if name is already declared.
func (e *Env) Declare(name string, t types.Type) bool {
	if _, ok := e.types[name]; ok {
		return false
	}
	e.order = append(e.order, name)
	e.types[name] = t
	return true
}

// Lookup returns the declared type of name, and whether it was found.
func (e *Env) Lookup(name string) (types.Type, bool) {
	t, ok := e.types[name]
	return t, ok
}

// Names returns every declared name, in declaration order.
func (e *Env) Names() []string {
	return e.order
}

// Len returns the number of declared names.
func (e *Env) Len() int {
	return len(e.order)
}
