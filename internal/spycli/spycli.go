// Package spycli is the thin command layer cmd/spy wraps, factored out so
// internal/e2e can drive the exact same command dispatch through
// testscript's "exec spy ..." support, which runs it in a re-executed
// copy of the test binary rather than a separately built spy binary.
package spycli

import (
	"fmt"
	"io"

	"spy/internal/ast"
	"spy/internal/object"
	"spy/internal/vm"
)

const Version = "0.1.0"

// Run dispatches one CLI invocation and returns the process exit code,
// matching the signature rogpeppe/go-internal/testscript.Main expects for
// a registered command.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	switch args[0] {
	case "--version", "-v", "version":
		fmt.Fprintln(stdout, "spy "+Version)
	case "--help", "-h", "help":
		usage(stdout)
	case "run":
		return runDemo(stdout, stderr, false)
	case "redshift":
		return runDemo(stdout, stderr, true)
	default:
		fmt.Fprintf(stderr, "spy: unknown command %q\n", args[0])
		usage(stderr)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `spy - the SPy compiler core smoke-test driver

Usage:
  spy run        interpret the built-in demo module and print its result
  spy redshift   redshift the built-in demo module and dump the residual AST
  spy version    print the build version`)
}

// runDemo builds the add(a, b) module from spec §8 scenario 2 and either
// interprets or redshifts it, exercising the exact path an embedder's
// driver would.
func runDemo(stdout, stderr io.Writer, redshift bool) int {
	cfg := vm.DefaultConfig()
	cfg.Stdout = stdout
	machine := vm.New(cfg)

	addDef := &ast.FuncDef{
		Name: "add",
		Params: []ast.Param{
			{Name: "a", Type: object.I32Type, Color: ast.Red},
			{Name: "b", Type: object.I32Type, Color: ast.Red},
		},
		ReturnType: object.I32Type,
		Body: []ast.Stmt{
			&ast.Return{Value: &ast.BinOp{Op: "+",
				Left:  ast.NewName("a", object.I32Type, ast.Red),
				Right: ast.NewName("b", object.I32Type, ast.Red),
			}},
		},
	}
	machine.LoadModule([]string{"demo"}, []*ast.FuncDef{addDef})

	if redshift {
		residual, err := machine.RedshiftByName([]string{"demo"}, "add")
		if err != nil {
			fmt.Fprintln(stderr, "spy:", machine.FormatError(err))
			return 1
		}
		fmt.Fprintln(stdout, ast.DebugDump(residual))
		return 0
	}

	result, err := machine.CallByName([]string{"demo"}, "add", object.I32{V: 3}, object.I32{V: 4})
	if err != nil {
		fmt.Fprintln(stderr, "spy:", machine.FormatError(err))
		return 1
	}
	fmt.Fprintf(stdout, "add(3, 4) = %s\n", vm.Stringify(result))
	return 0
}
