package parser

import (
	"fmt"

	"github.com/skx/c-compiler/diag"
	"github.com/skx/c-compiler/token"
)

// ParseError reports a token mismatch or a premature end of input.
type ParseError struct {
	Pos      int
	Expected string
	Got      token.Type
	source   string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("expected %s but got %s", e.Expected, e.Got)
	if e.source == "" {
		return msg
	}
	return diag.Render(e.source, e.Pos, msg)
}
