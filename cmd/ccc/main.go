// Command ccc is the compiler's driver: it reads a source file (or an
// inline expression), runs it through the compiler package, and
// either prints the generated assembly or hands it to gcc to produce
// a runnable binary.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skx/c-compiler/compiler"
)

var (
	output  string
	doBuild bool
	doRun   bool
	runtime string
	verbose bool
	expr    string
)

func main() {
	root := &cobra.Command{
		Use:   "ccc [file]",
		Short: "A small C-subset compiler, targeting x86-64 assembly.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}

	root.Flags().StringVarP(&output, "output", "o", "a.out", "The path to write the compiled binary to.")
	root.Flags().BoolVar(&doBuild, "compile", false, "Assemble the generated output via gcc.")
	root.Flags().BoolVar(&doRun, "run", false, "Assemble and run the resulting binary.")
	root.Flags().StringVar(&runtime, "runtime", "", "An additional object or source file to link in (e.g. a runtime support library).")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose compiler logging.")
	root.Flags().StringVar(&expr, "expr", "", "Compile this source text directly, instead of reading a file.")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if doRun {
		doBuild = true
	}

	source, err := readSource(args)
	if err != nil {
		return err
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	comp := compiler.New(source)
	comp.SetDebug(verbose)

	asm, err := comp.Compile()
	if err != nil {
		return fmt.Errorf("compiling: %w", err)
	}

	if !doBuild {
		fmt.Print(asm)
		return nil
	}

	if err := assemble(asm); err != nil {
		return err
	}

	if doRun {
		return runBinary()
	}
	return nil
}

// readSource returns the source text: from --expr if set, otherwise
// from the single positional file argument.
func readSource(args []string) (string, error) {
	if expr != "" {
		return expr, nil
	}
	if len(args) != 1 {
		return "", fmt.Errorf("expected a source file argument, or --expr")
	}
	source, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", args[0], err)
	}
	return string(source), nil
}

// assemble pipes the generated assembly into gcc, which both
// assembles and links it (and the optional runtime file) into output.
func assemble(asm string) error {
	gccArgs := []string{"-static", "-o", output, "-x", "assembler", "-"}
	if runtime != "" {
		// "-x none" ends the "-x assembler" above, so gcc picks the
		// runtime file's language from its suffix.
		gccArgs = append(gccArgs, "-x", "none", runtime)
	}

	gcc := exec.Command("gcc", gccArgs...)
	gcc.Stdout = os.Stdout
	gcc.Stderr = os.Stderr

	var stdin bytes.Buffer
	stdin.WriteString(asm)
	gcc.Stdin = &stdin

	logrus.WithField("output", output).Debug("invoking gcc")

	if err := gcc.Run(); err != nil {
		return fmt.Errorf("running gcc: %w", err)
	}
	return nil
}

// runBinary executes the compiled binary and propagates its exit code
// to the caller's own process: a nonzero exit is not an invocation
// failure, so it is reported via os.Exit rather than as an error
// flattened to exit code 1 by cobra.
func runBinary() error {
	path := output
	if filepath.Base(path) == path {
		// A bare name would be looked up in $PATH, not the current directory.
		path = "./" + path
	}
	exe := exec.Command(path)
	exe.Stdout = os.Stdout
	exe.Stderr = os.Stderr

	err := exe.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.ExitCode())
	}
	return fmt.Errorf("running %q: %w", output, err)
}
