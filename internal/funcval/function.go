// Package funcval implements function values: closures over the typed
// AST, and the memoized-by-FQN cache that is the sole mechanism for
// monomorphizing generics during redshift (spec §4.4, §9).
package funcval

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"spy/internal/ast"
	"spy/internal/fqn"
	"spy/internal/object"
)

// Status is a FuncDef's position in the doppler state machine (spec
// §4.3): Unresolved -> Resolving -> Redshifted. Resolving -> Resolving
// for the same function is a blue-evaluation cycle and must be reported
// as a static error with the call stack, never silently looped.
type Status int

const (
	Unresolved Status = iota
	Resolving
	Redshifted
)

func (s Status) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	default:
		return "redshifted"
	}
}

// Function is a closure: a typed FuncDef paired with the frame it closed
// over (nil at module scope) and its FQN identity. Per function there is
// one doppler Status, guarded so re-entrant resolution during blue
// evaluation is caught rather than recursing forever.
type Function struct {
	FQN      fqn.FQN
	Def      *ast.FuncDef
	Closure  Environment // enclosing frame's locals, for free-variable capture
	mu       sync.Mutex
	status   Status
	residual *ast.FuncDef // set once Redshifted
}

// Environment is the minimal surface astframe.Frame exposes back to
// funcval, kept as an interface to avoid an import cycle between the two
// packages (astframe depends on funcval to call functions; funcval must
// not depend back on astframe's concrete Frame type).
type Environment interface {
	Get(name string) (object.Value, bool)
}

func New(name fqn.FQN, def *ast.FuncDef, closure Environment) *Function {
	return &Function{FQN: name, Def: def, Closure: closure}
}

func (f *Function) Type() *object.Type {
	return &object.Type{FQN: f.FQN, Kind: object.KindFunction, Caps: object.NewCapabilities()}
}

// Status returns the function's current doppler status.
func (f *Function) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// BeginResolving transitions Unresolved -> Resolving, returning an error
// if the function is already Resolving (a blue-evaluation cycle, e.g.
// Matrix[T] calling back into itself before its own body has been fully
// redshifted). An already Redshifted function returns nil and keeps its
// Redshifted status.
func (f *Function) BeginResolving() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.status {
	case Unresolved:
		f.status = Resolving
		return nil
	case Resolving:
		return fmt.Errorf("cycle detected resolving %s: already Resolving", f.FQN)
	default:
		return nil // already Redshifted; caller should prefer the cache
	}
}

// FinishResolving transitions Resolving -> Redshifted, recording the
// produced residual body.
func (f *Function) FinishResolving(residual *ast.FuncDef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = Redshifted
	f.residual = residual
}

// Residual returns the cached redshifted body, if any.
func (f *Function) Residual() (*ast.FuncDef, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.residual, f.residual != nil
}

// GenericCache memoizes blue.generic instantiations keyed by the blake2b
// digest of the tuple of argument FQNs (spec §4.4, §9). A
// singleflight.Group collapses concurrent requests for the same
// instantiation into one computation, which keeps the cache's "insertion
// is deterministic and idempotent" guarantee (spec §5) true even if a
// future embedder drives the VM from more than one goroutine; the core
// itself remains logically single-threaded per spec §5.
type GenericCache struct {
	mu    sync.RWMutex
	cache map[[16]byte]object.Value
	group singleflight.Group
}

func NewGenericCache() *GenericCache {
	return &GenericCache{cache: map[[16]byte]object.Value{}}
}

// Key derives the cache key for a generic call from the callee's FQN and
// its blue argument FQNs (types and, for non-type blue arguments, their
// canonical string form is the caller's responsibility to fold into
// argFQNs before calling Key).
func Key(callee fqn.FQN, argFQNs []fqn.FQN) [16]byte {
	name := callee
	qs := make([]fqn.Qualifier, len(argFQNs))
	for i, a := range argFQNs {
		qs[i] = fqn.Qualifier{Key: fmt.Sprintf("arg%d", i), Value: a.String()}
	}
	return fqn.CacheKey(name.WithQualifiers(qs...))
}

// GetOrCompute returns the cached instantiation for key, computing it
// with compute exactly once even under concurrent callers.
func (g *GenericCache) GetOrCompute(key [16]byte, compute func() (object.Value, error)) (object.Value, error) {
	g.mu.RLock()
	if v, ok := g.cache[key]; ok {
		g.mu.RUnlock()
		return v, nil
	}
	g.mu.RUnlock()

	keyStr := fmt.Sprintf("%x", key)
	v, err, _ := g.group.Do(keyStr, func() (interface{}, error) {
		g.mu.RLock()
		if v, ok := g.cache[key]; ok {
			g.mu.RUnlock()
			return v, nil
		}
		g.mu.RUnlock()
		result, err := compute()
		if err != nil {
			return nil, err
		}
		g.mu.Lock()
		g.cache[key] = result
		g.mu.Unlock()
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(object.Value), nil
}
