// Package compiler wires the lexer, parser, type elaborator and code
// generator into a single entry point: source text in, assembly text
// out.
package compiler

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/skx/c-compiler/codegen"
	"github.com/skx/c-compiler/parser"
	"github.com/skx/c-compiler/sema"
)

// Compiler holds our object-state: the source text under compilation,
// and whether diagnostic logging is enabled.
type Compiler struct {
	source string
	debug  bool
	log    *logrus.Logger
}

// New creates a new compiler for the given source text.
func New(source string) *Compiler {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return &Compiler{source: source, log: log}
}

// SetDebug enables verbose per-stage logging of the compilation
// pipeline.
func (c *Compiler) SetDebug(val bool) {
	c.debug = val
	if val {
		c.log.SetLevel(logrus.DebugLevel)
	} else {
		c.log.SetLevel(logrus.WarnLevel)
	}
}

// Compile runs the full pipeline - lex, parse, elaborate, generate -
// returning the generated assembly, or the first error any stage
// produced.
func (c *Compiler) Compile() (string, error) {
	c.log.Debug("parsing")

	p, err := parser.New(c.source)
	if err != nil {
		c.log.WithError(err).Debug("lexing failed")
		return "", err
	}

	program, err := p.ParseProgram()
	if err != nil {
		c.log.WithError(err).Debug("parsing failed")
		return "", err
	}

	c.log.WithField("functions", len(program.TopLevels)).Debug("elaborating types")

	typed, err := sema.Elaborate(c.source, program)
	if err != nil {
		c.log.WithError(err).Debug("type elaboration failed")
		return "", err
	}

	c.log.WithField("functions", len(typed.Functions)).Debug("generating assembly")

	var out strings.Builder
	if err := codegen.Generate(&out, typed); err != nil {
		c.log.WithError(err).Debug("code generation failed")
		return "", err
	}

	return out.String(), nil
}
