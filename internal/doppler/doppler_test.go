// Package doppler holds structured golden-fixture tests for the redshift
// state machine (spec'd in internal/vm's Doppler) and the generic
// instantiation cache it shares with internal/funcval. These scenarios are
// one level too fine-grained for the testscript CLI harness in
// internal/e2e -- they assert on an in-process error string or cache
// behavior, not a subprocess's stdout -- so expectations live in txtar
// fixtures instead of being inlined as Go string literals.
package doppler

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"spy/internal/ast"
	"spy/internal/fqn"
	"spy/internal/funcval"
	"spy/internal/object"
)

func wantFile(t *testing.T, path string) string {
	t.Helper()
	a, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile(%s): %v", path, err)
	}
	for _, f := range a.Files {
		if f.Name == "want" {
			return strings.TrimRight(string(f.Data), "\n")
		}
	}
	t.Fatalf("%s: no \"want\" section", path)
	return ""
}

// TestResolvingCycleIsReportedNotLooped reproduces Matrix[T,R,C] calling
// back into its own not-yet-redshifted self: BeginResolving must refuse the
// re-entrant transition so the caller can report a cycle instead of
// recursing or reusing a half-built residual.
func TestResolvingCycleIsReportedNotLooped(t *testing.T) {
	name := fqn.New([]string{"mat"}, "Matrix").WithQualifiers(fqn.Qualifier{Key: "T", Value: "i32"})
	def := &ast.FuncDef{Name: name.String(), Params: []ast.Param{{Name: "self", Type: object.I32Type}}}
	fn := funcval.New(name, def, nil)

	if err := fn.BeginResolving(); err != nil {
		t.Fatalf("first BeginResolving: %v", err)
	}
	reentrant := fn.BeginResolving()
	if reentrant == nil {
		t.Fatal("expected an error on re-entrant BeginResolving")
	}

	got := fmt.Sprintf("StaticError: %s", reentrant.Error())
	want := wantFile(t, filepath.Join("testdata", "golden", "cycle.txtar"))
	if got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

// TestGenericInstantiationMemoizesByArgumentFQNs reproduces two blue.generic
// call sites instantiating the same specialization: compute must run
// exactly once and both callers must observe the identical cached value.
func TestGenericInstantiationMemoizesByArgumentFQNs(t *testing.T) {
	cache := funcval.NewGenericCache()
	callee := fqn.New([]string{"mat"}, "Matrix")
	argFQNs := []fqn.FQN{fqn.New([]string{"builtins"}, "i32")}
	key := funcval.Key(callee, argFQNs)

	computed := 0
	compute := func() (object.Value, error) {
		computed++
		return &object.Type{FQN: callee.WithQualifiers(fqn.Qualifier{Key: "arg0", Value: "builtins::i32"})}, nil
	}

	first, err := cache.GetOrCompute(key, compute)
	if err != nil {
		t.Fatalf("first GetOrCompute: %v", err)
	}
	second, err := cache.GetOrCompute(key, compute)
	if err != nil {
		t.Fatalf("second GetOrCompute: %v", err)
	}

	got := fmt.Sprintf("computed=%d same-instance=%v", computed, first == second)
	want := wantFile(t, filepath.Join("testdata", "golden", "memo.txtar"))
	if got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}
