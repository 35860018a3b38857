package fqn

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/exp/slices"
)

// Registry is the process-wide FQN -> global value table. Per spec it is
// write-only during initialization and read-only afterwards; the mutex
// guards the initialization window (module loading, generic instantiation)
// and costs nothing once the VM has settled into steady-state lookups.
type Registry struct {
	mu     sync.RWMutex
	values map[string]interface{}
	order  []string // insertion order, for deterministic dumps
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{values: make(map[string]interface{})}
}

// Define installs v under name. Redefining an existing FQN is a programmer
// error in this VM (FQNs are supposed to be unique) and panics rather than
// silently overwriting, since a collision here means the naming scheme
// itself is broken.
func (r *Registry) Define(name FQN, v interface{}) {
	key := name.String()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.values[key]; exists {
		panic(fmt.Sprintf("fqn: %s already registered", key))
	}
	r.values[key] = v
	r.order = append(r.order, key)
}

// Lookup returns the value registered under name, if any.
func (r *Registry) Lookup(name FQN) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[name.String()]
	return v, ok
}

// Has reports whether name is already registered.
func (r *Registry) Has(name FQN) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns every registered FQN string in deterministic (sorted)
// order, used for reproducible dumps of the residual program and for
// tests that assert on the full set of defined globals.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]string(nil), r.order...)
	slices.Sort(out)
	return out
}

// CacheKey returns a collision-resistant 128-bit key for name, used by
// generic-instantiation caches (internal/funcval) that need a flat map
// keyed by "the tuple of argument FQNs" without building a tree of nested
// maps per qualifier.
func CacheKey(name FQN) [16]byte {
	sum := blake2b.Sum256([]byte(name.String()))
	var key [16]byte
	copy(key[:], sum[:16])
	return key
}
