package e2e

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"spy/internal/spycli"
)

// TestMain registers the "spy" command so testdata/script/*.txtar scripts
// can `exec spy ...` as a subprocess that re-executes this test binary
// into spycli.Run, the same shape the teacher's scripted CLI
// tests use for its own cmd/sentra binary.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"spy": func() int { return spycli.Run(os.Args[1:], os.Stdout, os.Stderr) },
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
