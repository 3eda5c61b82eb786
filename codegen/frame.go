package codegen

import "github.com/skx/c-compiler/typedast"

// frame is the stack-frame layout of one function: every local name's
// byte offset from rbp, and the total frame size to subtract from rsp
// in the prologue.
type frame struct {
	offsets map[string]int
	size    int
}

// roundUp8 rounds n up to the next multiple of 8.
func roundUp8(n int) int {
	if n%8 == 0 {
		return n
	}
	return n + (8 - n%8)
}

// buildFrame walks env in declaration order - parameters first, then
// every nested VarDecl in source-appearance order - assigning each
// name a distinct positive offset from rbp. Each slot is the
// variable's type size rounded up to a multiple of 8, and a name's
// offset is the sum of the rounded slot sizes up to and including its
// own (so a leading int or pointer sits at 8); the frame size is the
// sum of all the rounded slot sizes.
func buildFrame(env *typedast.Env) *frame {
	offsets := make(map[string]int, env.Len())
	offset := 0

	for _, name := range env.Names() {
		t, _ := env.Lookup(name)
		offset += roundUp8(t.Size())
		offsets[name] = offset
	}

	return &frame{offsets: offsets, size: offset}
}
