// Package diag renders compiler diagnostics the way the rest of this
// compiler's error types describe them: the offending source line,
// followed by a line of leading spaces and a caret pointing at the
// byte offset that provoked the error.
package diag

import (
	"fmt"
	"strings"
)

// Render returns the two-line diagnostic for message at byte offset
// pos within source: the line of source containing pos, then a caret
// under pos's column within that line.
//
//	<source line>
//	<leader spaces>^<message>
func Render(source string, pos int, message string) string {
	if pos < 0 {
		pos = 0
	}
	if pos > len(source) {
		pos = len(source)
	}
	start := strings.LastIndexByte(source[:pos], '\n') + 1
	line := source[start:]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}
	return fmt.Sprintf("%s\n%*s^%s", line, pos-start, "", message)
}
