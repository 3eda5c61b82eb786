//go:build integration

package compiler_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/skx/c-compiler/compiler"
	"github.com/stretchr/testify/require"
)

// runProgram compiles src, assembles it with gcc into a static binary
// under a fresh temp directory, runs it, and returns its exit code.
func runProgram(t *testing.T, src string) int {
	t.Helper()

	c := compiler.New(src)
	asm, err := c.Compile()
	require.NoError(t, err)

	dir := t.TempDir()
	binPath := filepath.Join(dir, "prog")

	gcc := exec.Command("gcc", "-static", "-o", binPath, "-x", "assembler", "-")
	var stdin bytes.Buffer
	stdin.WriteString(asm)
	gcc.Stdin = &stdin
	gcc.Stderr = os.Stderr
	require.NoError(t, gcc.Run())

	cmd := exec.Command(binPath)
	cmd.Stderr = os.Stderr
	err = cmd.Run()
	if err == nil {
		return 0
	}
	exitErr, ok := err.(*exec.ExitError)
	require.True(t, ok)
	return exitErr.ExitCode()
}

func TestIntegrationReturnExitCode(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"literal", `int main() { return 42; }`, 42},
		{"arithmetic", `int main() { return 2 + 3 * 4; }`, 14},
		{
			"function call",
			`
int add(int a, int b) { return a + b; }
int main() { return add(10, 32); }
`,
			42,
		},
		{
			"for loop accumulation",
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
			45,
		},
		{
			"pointer round trip",
			`
int main() {
	int n;
	int *p;
	n = 7;
	p = &n;
	*p = *p + 1;
	return n;
}
`,
			8,
		},
		{
			"array indexing",
			`
int main() {
	int a[3];
	a[0] = 1;
	a[1] = 2;
	a[2] = 3;
	return a[0] + a[1] + a[2];
}
`,
			6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runProgram(t, tt.src)
			require.Equal(t, tt.want, got)
		})
	}
}
