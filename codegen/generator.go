// Package codegen lowers a typed program into GNU-as Intel-syntax
// x86-64 assembly targeting the System V AMD64 calling convention.
//
// The evaluation model is a stack machine: every expression, once
// generated, leaves exactly one 8-byte word on top of the hardware
// stack. Statements consume and discard that word where the language
// calls for it (an expression statement, the init/update clauses of a
// for-loop).
package codegen

import (
	"fmt"
	"io"

	"github.com/skx/c-compiler/ast"
	"github.com/skx/c-compiler/typedast"
)

// systemVIntRegisters is the System V AMD64 integer parameter passing
// sequence, in order.
var systemVIntRegisters = []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}

// Generator walks a typed program once, emitting assembly to w. It
// carries a single fresh-label counter across every function, so
// every control-flow label in the output is globally unique.
type Generator struct {
	w            io.Writer
	labelCounter int
}

// New builds a Generator that writes to w.
func New(w io.Writer) *Generator {
	return &Generator{w: w}
}

// Generate emits the whole program: the entry prologue, then each
// function definition in order. It returns the first *CodegenError
// encountered - for a well-typed program, only a function with more
// than six parameters produces one.
func Generate(w io.Writer, program *typedast.Program) error {
	g := New(w)
	return g.Generate(program)
}

func (g *Generator) emit(format string, args ...interface{}) {
	fmt.Fprintf(g.w, format, args...)
}

// Generate emits the whole program onto g's writer.
func (g *Generator) Generate(program *typedast.Program) error {
	g.emit(".intel_syntax noprefix\n")
	g.genEntryPrologue()

	for _, fn := range program.Functions {
		if err := g.genFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

// genEntryPrologue emits the root sequence that establishes a base
// pointer, calls main, tears down, and returns. Entered like a called
// function, its push rbp and sub rsp, 8 leave rsp 8 bytes off a
// 16-byte boundary at the call, so main starts with rsp on the
// boundary. The sequence carries no label of its own, so nothing in
// the output transfers control to it; when the output is linked
// against a C runtime, the runtime calls main directly.
func (g *Generator) genEntryPrologue() {
	g.emit("  push rbp\n")
	g.emit("  mov rbp, rsp\n")
	g.emit("  sub rsp, 8\n")
	g.emit("  call main\n")
	g.emit("  add rsp, 8\n")
	g.emit("  mov rsp, rbp\n")
	g.emit("  pop rbp\n")
	g.emit("  ret\n")
}

func (g *Generator) freshLabelSuffix() int {
	g.labelCounter++
	return g.labelCounter
}

// genFunction emits one function's global symbol, prologue, body and
// epilogue.
func (g *Generator) genFunction(fn *typedast.Function) error {
	fr := buildFrame(fn.Locals)

	g.emit(".globl %s\n", fn.Name)
	g.emit("%s:\n", fn.Name)
	g.emit("  push rbp\n")
	g.emit("  mov rbp, rsp\n")
	g.emit("  sub rsp, %d\n", fr.size)

	for i, param := range fn.Params {
		if i >= len(systemVIntRegisters) {
			return &CodegenError{Kind: InvalidLValueForm,
				Message: fmt.Sprintf("function %q has more than six parameters", fn.Name)}
		}
		g.emit("  mov [rbp-%d], %s\n", fr.offsets[param.Name], systemVIntRegisters[i])
	}

	// Entered through an aligned call, rsp sits 8 bytes off a 16-byte
	// boundary; push rbp restores the boundary, so only the frame
	// itself offsets rsp from it.
	fe := &functionGenerator{Generator: g, frame: fr}
	if err := fe.genStatements(fn.Body, int64(fr.size)); err != nil {
		return err
	}

	g.emit("  mov rsp, rbp\n")
	g.emit("  pop rbp\n")
	g.emit("  ret\n")
	return nil
}

// functionGenerator carries per-function state (the frame layout)
// while reusing the parent Generator's shared label counter and
// output sink.
type functionGenerator struct {
	*Generator
	frame *frame
}

// ----------------------------------------------------------------
// Statements
// ----------------------------------------------------------------

func (fg *functionGenerator) genStatements(stmts []*typedast.Statement, rspOffset int64) error {
	for _, s := range stmts {
		if err := fg.genStatement(s, rspOffset); err != nil {
			return err
		}
	}
	return nil
}

func (fg *functionGenerator) genStatement(s *typedast.Statement, rspOffset int64) error {
	switch s.Kind {
	case ast.ExprStmt:
		if err := fg.genExpr(s.Expr, rspOffset); err != nil {
			return err
		}
		fg.emit("  pop rax\n")
		return nil

	case ast.Return:
		if err := fg.genExpr(s.Expr, rspOffset); err != nil {
			return err
		}
		fg.emit("  pop rax\n")
		fg.emit("  mov rsp, rbp\n")
		fg.emit("  pop rbp\n")
		fg.emit("  ret\n")
		return nil

	case ast.If:
		suffix := fg.freshLabelSuffix()
		if err := fg.genExpr(s.Cond, rspOffset); err != nil {
			return err
		}
		fg.emit("  pop rax\n")
		fg.emit("  cmp rax, 0\n")
		fg.emit("  je .Lend%d\n", suffix)
		if err := fg.genStatement(s.Then, rspOffset); err != nil {
			return err
		}
		fg.emit(".Lend%d:\n", suffix)
		return nil

	case ast.IfElse:
		suffix := fg.freshLabelSuffix()
		if err := fg.genExpr(s.Cond, rspOffset); err != nil {
			return err
		}
		fg.emit("  pop rax\n")
		fg.emit("  cmp rax, 0\n")
		fg.emit("  je .Lelse%d\n", suffix)
		if err := fg.genStatement(s.Then, rspOffset); err != nil {
			return err
		}
		fg.emit("  jmp .Lend%d\n", suffix)
		fg.emit(".Lelse%d:\n", suffix)
		if err := fg.genStatement(s.Else, rspOffset); err != nil {
			return err
		}
		fg.emit(".Lend%d:\n", suffix)
		return nil

	case ast.While:
		suffix := fg.freshLabelSuffix()
		fg.emit(".Lbegin%d:\n", suffix)
		if err := fg.genExpr(s.Cond, rspOffset); err != nil {
			return err
		}
		fg.emit("  pop rax\n")
		fg.emit("  cmp rax, 0\n")
		fg.emit("  je .Lend%d\n", suffix)
		if err := fg.genStatement(s.Body, rspOffset); err != nil {
			return err
		}
		fg.emit("  jmp .Lbegin%d\n", suffix)
		fg.emit(".Lend%d:\n", suffix)
		return nil

	case ast.For:
		suffix := fg.freshLabelSuffix()
		if err := fg.genExpr(s.Init, rspOffset); err != nil {
			return err
		}
		fg.emit("  pop rax\n")
		fg.emit(".Lbegin%d:\n", suffix)
		if err := fg.genExpr(s.Cond, rspOffset); err != nil {
			return err
		}
		fg.emit("  pop rax\n")
		fg.emit("  cmp rax, 0\n")
		fg.emit("  je .Lend%d\n", suffix)
		if err := fg.genStatement(s.Body, rspOffset); err != nil {
			return err
		}
		if err := fg.genExpr(s.Update, rspOffset); err != nil {
			return err
		}
		fg.emit("  pop rax\n")
		fg.emit("  jmp .Lbegin%d\n", suffix)
		fg.emit(".Lend%d:\n", suffix)
		return nil

	case ast.Block:
		return fg.genStatements(s.Stmts, rspOffset)

	case ast.VarDecl:
		// Slot already reserved by the function prologue.
		return nil

	default:
		return &CodegenError{Kind: InvalidLValueForm, Message: "unknown statement kind"}
	}
}

// ----------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------

// genExpr emits expr, leaving its value as the top 8-byte word on the
// stack. rspOffset tracks the current logical distance between rsp
// and a 16-byte aligned reference point, so call sites can realign.
func (fg *functionGenerator) genExpr(expr *typedast.Expr, rspOffset int64) error {
	switch expr.Kind {
	case ast.Num:
		fg.emit("  push %d\n", expr.IntValue)
		return nil

	case ast.Binary:
		return fg.genBinary(expr, rspOffset)

	case ast.Assign:
		return fg.genAssign(expr, rspOffset)

	case ast.Variable:
		if err := fg.genLValue(expr, rspOffset); err != nil {
			return err
		}
		fg.emit("  pop rax\n")
		fg.emitLoad(expr.Type.Size())
		fg.emit("  push rax\n")
		return nil

	case ast.FunctionCall:
		return fg.genCall(expr, rspOffset)

	case ast.Address:
		return fg.genLValue(expr.Operand, rspOffset)

	case ast.Dereference:
		if err := fg.genExpr(expr.Operand, rspOffset); err != nil {
			return err
		}
		fg.emit("  pop rax\n")
		fg.emit("  mov rax, [rax]\n")
		fg.emit("  push rax\n")
		return nil

	case ast.Sizeof:
		// The operand is elaborated only for its type; it is never
		// evaluated, so it generates no code here.
		fg.emit("  push %d\n", expr.Operand.Type.Size())
		return nil

	default:
		return &CodegenError{Kind: InvalidLValueForm, Message: "unknown expression kind"}
	}
}

// emitLoad moves [rax] into rax, sized by size: 4 bytes uses the
// 32-bit register form (which the processor zero-extends into rax),
// 8 bytes uses the full 64-bit form.
func (fg *functionGenerator) emitLoad(size int) {
	if size <= 4 {
		fg.emit("  mov eax, [rax]\n")
		return
	}
	fg.emit("  mov rax, [rax]\n")
}

var arithOps = map[ast.BinOp]string{
	ast.Add: "add",
	ast.Sub: "sub",
}

var comparisonSetcc = map[ast.BinOp]string{
	ast.Lt:    "setl",
	ast.LtEq:  "setle",
	ast.Eq:    "sete",
	ast.NotEq: "setne",
	ast.Gt:    "setg",
	ast.GtEq:  "setge",
}

func (fg *functionGenerator) genBinary(expr *typedast.Expr, rspOffset int64) error {
	if setcc, ok := comparisonSetcc[expr.Op]; ok {
		if err := fg.genOperandPair(expr.LHS, expr.RHS, rspOffset); err != nil {
			return err
		}
		fg.emit("  cmp rax, rdi\n")
		fg.emit("  %s al\n", setcc)
		fg.emit("  movzb rax, al\n")
		fg.emit("  push rax\n")
		return nil
	}

	switch expr.Op {
	case ast.Add, ast.Sub:
		if err := fg.genOperandPair(expr.LHS, expr.RHS, rspOffset); err != nil {
			return err
		}
		// Pointer arithmetic scales the integer operand by the
		// pointee's word size; this compiler hard-codes that scale
		// to 8 regardless of the pointee type.
		if expr.LHS.Type.IsPointer() {
			fg.emit("  imul rdi, 8\n")
		} else if expr.RHS.Type.IsPointer() {
			fg.emit("  imul rax, 8\n")
		}
		fg.emit("  %s rax, rdi\n", arithOps[expr.Op])
		fg.emit("  push rax\n")
		return nil

	case ast.Mul:
		if err := fg.genOperandPair(expr.LHS, expr.RHS, rspOffset); err != nil {
			return err
		}
		fg.emit("  imul rax, rdi\n")
		fg.emit("  push rax\n")
		return nil

	case ast.Div:
		if err := fg.genOperandPair(expr.LHS, expr.RHS, rspOffset); err != nil {
			return err
		}
		fg.emit("  cqo\n")
		fg.emit("  idiv rdi\n")
		fg.emit("  push rax\n")
		return nil

	default:
		return &CodegenError{Kind: InvalidLValueForm, Message: "unknown binary operator"}
	}
}

// genOperandPair emits lhs then rhs (each gen call advances the
// logical rsp offset by 8, since it leaves one more word pushed),
// then pops rhs into rdi and lhs into rax.
func (fg *functionGenerator) genOperandPair(lhs, rhs *typedast.Expr, rspOffset int64) error {
	if err := fg.genExpr(lhs, rspOffset); err != nil {
		return err
	}
	if err := fg.genExpr(rhs, rspOffset+8); err != nil {
		return err
	}
	fg.emit("  pop rdi\n")
	fg.emit("  pop rax\n")
	return nil
}

func (fg *functionGenerator) genAssign(expr *typedast.Expr, rspOffset int64) error {
	if err := fg.genLValue(expr.LHS, rspOffset); err != nil {
		return err
	}
	if err := fg.genExpr(expr.RHS, rspOffset+8); err != nil {
		return err
	}
	fg.emit("  pop rdi\n")
	fg.emit("  pop rax\n")
	if expr.RHS.Type.Size() <= 4 {
		fg.emit("  mov [rax], edi\n")
	} else {
		fg.emit("  mov [rax], rdi\n")
	}
	fg.emit("  push rdi\n")
	return nil
}

func (fg *functionGenerator) genCall(expr *typedast.Expr, rspOffset int64) error {
	for i, arg := range expr.Args {
		if err := fg.genExpr(arg, rspOffset+int64(i)*8); err != nil {
			return err
		}
	}
	for i := len(expr.Args) - 1; i >= 0; i-- {
		fg.emit("  pop %s\n", systemVIntRegisters[i])
	}

	misaligned := (rspOffset % 16) != 0
	if misaligned {
		fg.emit("  sub rsp, 8\n")
	}
	fg.emit("  call %s\n", expr.FuncName)
	if misaligned {
		fg.emit("  add rsp, 8\n")
	}
	fg.emit("  push rax\n")
	return nil
}

// genLValue emits the address of expr onto the stack. Only Variable
// and Dereference are valid l-value forms; anything else reaching
// here is a CodegenError, since the elaborator should have already
// rejected it.
func (fg *functionGenerator) genLValue(expr *typedast.Expr, rspOffset int64) error {
	switch expr.Kind {
	case ast.Variable:
		offset, ok := fg.frame.offsets[expr.Name]
		if !ok {
			return &CodegenError{Kind: InvalidLValueForm,
				Message: fmt.Sprintf("variable %q has no frame slot", expr.Name)}
		}
		fg.emit("  mov rax, rbp\n")
		fg.emit("  sub rax, %d\n", offset)
		fg.emit("  push rax\n")
		return nil

	case ast.Dereference:
		return fg.genExpr(expr.Operand, rspOffset)

	default:
		return &CodegenError{Kind: InvalidLValueForm,
			Message: "assignment target or address-of operand is not a variable or dereference"}
	}
}
