package compiler_test

import (
	"strings"
	"testing"

	"github.com/skx/c-compiler/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileValidPrograms(t *testing.T) {
	tests := []string{
		`int main() { return 0; }`,
		`int main() { return 1 + 2 * 3; }`,
		`
int add(int a, int b) { return a + b; }
int main() { return add(1, 2); }
`,
		`
int main() {
	int i;
	int sum;
	sum = 0;
	for (i = 0; i < 10; i = i + 1) {
		sum = sum + i;
	}
	return sum;
}
`,
		`
int main() {
	int a[5];
	a[0] = 1;
	a[1] = 2;
	return a[0] + a[1];
}
`,
		`
extern int putchar(int c);
int main() { return putchar(65); }
`,
	}

	for _, src := range tests {
		c := compiler.New(src)
		out, err := c.Compile()
		require.NoError(t, err, "source: %s", src)
		assert.Contains(t, out, ".intel_syntax noprefix")
		assert.Contains(t, out, ".globl main")
		assert.True(t, strings.Contains(out, "main:"))
	}
}

func TestCompileLexErrorPropagates(t *testing.T) {
	c := compiler.New(`int main() { return 1 $ 2; }`)
	_, err := c.Compile()
	require.Error(t, err)
}

func TestCompileParseErrorPropagates(t *testing.T) {
	c := compiler.New(`int main() { return 1 + ; }`)
	_, err := c.Compile()
	require.Error(t, err)
}

func TestCompileTypeErrorPropagates(t *testing.T) {
	c := compiler.New(`int main() { return undefined_variable; }`)
	_, err := c.Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UndefinedVariable")
}

func TestCompileDebugLoggingDoesNotAffectOutput(t *testing.T) {
	src := `int main() { return 1 + 1; }`

	plain := compiler.New(src)
	plainOut, err := plain.Compile()
	require.NoError(t, err)

	debug := compiler.New(src)
	debug.SetDebug(true)
	debugOut, err := debug.Compile()
	require.NoError(t, err)

	assert.Equal(t, plainOut, debugOut)
}
