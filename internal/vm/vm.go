// Package vm ties together the FQN registry, module loading, builtin
// registration, and frame evaluation into one embeddable compiler core.
// It implements astframe.Host and drives the redshift Doppler
// (doppler.go).
package vm

import (
	"fmt"
	"os"
	"strings"

	"spy/internal/ast"
	"spy/internal/astframe"
	"spy/internal/diag"
	"spy/internal/diagstream"
	"spy/internal/fqn"
	"spy/internal/funcval"
	"spy/internal/object"
	"spy/internal/vmconfig"
)

// DefaultConfig returns a vmconfig.Config ready to hand to New, with
// Stdout defaulted to os.Stdout (vmconfig itself has no notion of "the
// real process stdout" — that default belongs here, at the edge).
func DefaultConfig() vmconfig.Config {
	cfg := vmconfig.Default()
	cfg.Stdout = os.Stdout
	return cfg
}

// Module is one loaded SPy module: its FQN path and the typed top-level
// function definitions that LoadModule registers in the registry.
type Module struct {
	Path  []string
	Funcs []*ast.FuncDef
}

// VM is the embeddable compiler core: registry + module table + the
// evaluator wired as astframe.Host.
type VM struct {
	Config    vmconfig.Config
	Registry  *fqn.Registry
	Generics  *funcval.GenericCache
	Formatter *diag.Formatter
	modules   map[string]*Module
	sources   map[string][]string // file -> lines, for diag.Formatter
	doppler   *Doppler
	Stream    *diagstream.Hub // nil unless AttachStream is called
}

// AttachStream turns on the development event feed. Compilation behavior
// is identical whether or not this is ever called.
func (vm *VM) AttachStream(hub *diagstream.Hub) { vm.Stream = hub }

func (vm *VM) emit(e diagstream.Event) {
	if vm.Stream != nil {
		vm.Stream.Emit(e)
	}
}

func New(cfg vmconfig.Config) *VM {
	vm := &VM{
		Config:   cfg,
		Registry: fqn.NewRegistry(),
		Generics: funcval.NewGenericCache(),
		modules:  map[string]*Module{},
		sources:  map[string][]string{},
	}
	vm.Formatter = diag.NewFormatter(os.Stderr, vm.sourceLine)
	vm.doppler = NewDoppler(vm)
	registerBuiltinTypes(vm)
	return vm
}

func (vm *VM) sourceLine(file string, line int) (string, bool) {
	lines, ok := vm.sources[file]
	if !ok || line < 1 || line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

// SetSource registers a module's raw source text, used only so the
// diagnostic formatter can show the offending line under a caret range.
func (vm *VM) SetSource(file, text string) {
	vm.sources[file] = splitLines(text)
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// LoadModule registers a module's functions in the registry and returns
// the Module handle. Mirrors the teacher's module-loader cache pattern,
// simplified to the single responsibility this core needs: the module
// registry is write-only during initialization, read-only afterwards
// (spec §5).
func (vm *VM) LoadModule(path []string, funcs []*ast.FuncDef) *Module {
	mod := &Module{Path: path, Funcs: funcs}
	key := joinPath(path)
	vm.modules[key] = mod
	for _, fd := range funcs {
		name := fqn.New(path, fd.Name)
		fn := funcval.New(name, fd, nil)
		vm.Registry.Define(name, fn)
	}
	vm.emit(diagstream.Event{Kind: diagstream.EventModuleLoaded, Subject: key})
	return mod
}

func joinPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// --- astframe.Host ---

func (vm *VM) LookupGlobal(name fqn.FQN) (object.Value, bool) {
	v, ok := vm.Registry.Lookup(name)
	if !ok {
		return nil, false
	}
	val, ok := v.(object.Value)
	return val, ok
}

func (vm *VM) Print(v object.Value) {
	fmt.Fprintln(vm.Config.Stdout, printString(v))
}

// Stringify renders a W-object the same way Print does, for callers (the
// CLI, tests) that want the value's text form without sending it through
// the libspy print_<T> path.
func Stringify(v object.Value) string { return printString(v) }

func printString(v object.Value) string {
	switch x := v.(type) {
	case object.Str:
		return x.V
	case object.I32:
		return fmt.Sprintf("%d", x.V)
	case object.I8:
		return fmt.Sprintf("%d", x.V)
	case object.F64:
		return fmt.Sprintf("%g", x.V)
	case object.Bool:
		if x.V {
			return "true"
		}
		return "false"
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (vm *VM) GenericCache() *funcval.GenericCache { return vm.Generics }

func (vm *VM) CallFunction(caller *astframe.Frame, fn *funcval.Function, args []object.Value) (object.Value, error) {
	if len(args) != len(fn.Def.Params) {
		return nil, diag.New(diag.StaticError, fmt.Sprintf("%s expects %d arguments, got %d", fn.FQN, len(fn.Def.Params), len(args))).
			Annotate(diag.LevelError, fn.Def.Span(), "")
	}
	var parent *astframe.Frame
	if env, ok := fn.Closure.(*astframe.Frame); ok {
		parent = env
	}
	callee := astframe.NewInterpFrame(fn.FQN.String(), parent, fn.Def)
	for i, p := range fn.Def.Params {
		callee.Locals[p.Name] = args[i]
	}
	eval := astframe.New(vm, moduleOf(fn.FQN))
	result, err := eval.EvalBlock(callee, fn.Def.Body)
	if err != nil {
		if de, ok := err.(*diag.Error); ok {
			de.PushFrame(diag.Frame{FuncName: fn.FQN.String(), Span: fn.Def.Span()})
		}
		return nil, err
	}
	return result.ReturnValue, nil
}

func moduleOf(name fqn.FQN) []string { return name.Module }

func (vm *VM) Redshift(fn *funcval.Function) (*ast.FuncDef, error) {
	return vm.doppler.Resolve(fn)
}

// FormatError renders err through vm.Formatter when it carries the
// structured *diag.Error report (source excerpts, caret ranges, and the
// blue-call traceback per spec §4.6/§7); any other error falls back to its
// bare Error() text, e.g. a wrapped lookup failure from lookupFunc that
// never went through the diag package.
func (vm *VM) FormatError(err error) string {
	if de, ok := err.(*diag.Error); ok {
		return strings.TrimRight(vm.Formatter.Format(de), "\n")
	}
	return err.Error()
}

// --- convenience entry points for an embedder (or cmd/spy) that already
// knows a function's module path and name, without building an fqn.FQN
// or a *funcval.Function by hand. ---

func (vm *VM) lookupFunc(path []string, name string) (*funcval.Function, error) {
	v, ok := vm.Registry.Lookup(fqn.New(path, name))
	if !ok {
		return nil, fmt.Errorf("spy: %s not found", joinPath(append(append([]string(nil), path...), name)))
	}
	fn, ok := v.(*funcval.Function)
	if !ok {
		return nil, fmt.Errorf("spy: %s is not a function", joinPath(append(append([]string(nil), path...), name)))
	}
	return fn, nil
}

// CallByName interprets the named function against concrete arguments.
func (vm *VM) CallByName(path []string, name string, args ...object.Value) (object.Value, error) {
	fn, err := vm.lookupFunc(path, name)
	if err != nil {
		return nil, err
	}
	return vm.CallFunction(nil, fn, args)
}

// RedshiftByName produces the named function's residual body.
func (vm *VM) RedshiftByName(path []string, name string) (*ast.FuncDef, error) {
	fn, err := vm.lookupFunc(path, name)
	if err != nil {
		return nil, err
	}
	return vm.doppler.Resolve(fn)
}
