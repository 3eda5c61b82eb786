package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	out := Render("1 + $", 4, "unexpected character '$'")
	lines := strings.Split(out, "\n")

	require := assert.New(t)
	require.Len(lines, 2)
	require.Equal("1 + $", lines[0])
	require.Equal(4, strings.Index(lines[1], "^"))
	require.Contains(lines[1], "unexpected character '$'")
}

func TestRenderClampsOutOfRangePositions(t *testing.T) {
	out := Render("x", 50, "boom")
	assert.Contains(t, out, "^boom")
}
