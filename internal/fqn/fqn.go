// Package fqn implements the fully qualified name that identifies every
// global value in the VM: functions, types, constants, and modules.
package fqn

import (
	"fmt"
	"sort"
	"strings"
)

// Qualifier is one (key, value) pair attached to a generic instantiation,
// e.g. the "T" -> "i32" pair on stdlib::list[T=i32].
type Qualifier struct {
	Key   string
	Value string
}

// FQN is the identity of a global value. Equality is structural: two FQNs
// with the same module path, symbol, qualifiers (any order) and suffix are
// the same name.
type FQN struct {
	Module     []string
	Symbol     string
	Qualifiers []Qualifier
	Suffix     int // 0 means "no suffix"
}

// New builds an FQN with no qualifiers and no suffix.
func New(module []string, symbol string) FQN {
	return FQN{Module: append([]string(nil), module...), Symbol: symbol}
}

// WithQualifiers returns a copy of f carrying the given qualifiers,
// canonicalized by sorting on key so that Qualifiers order never affects
// equality or the canonical string form.
func (f FQN) WithQualifiers(qs ...Qualifier) FQN {
	g := f
	g.Qualifiers = append([]Qualifier(nil), qs...)
	sort.Slice(g.Qualifiers, func(i, j int) bool { return g.Qualifiers[i].Key < g.Qualifiers[j].Key })
	return g
}

// WithSuffix returns a copy of f disambiguated by a numeric suffix.
func (f FQN) WithSuffix(n int) FQN {
	g := f
	g.Suffix = n
	return g
}

// String renders the canonical form mod.a.b::sym[k=v,...]#n.
func (f FQN) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(f.Module, "."))
	sb.WriteString("::")
	sb.WriteString(f.Symbol)
	if len(f.Qualifiers) > 0 {
		sb.WriteByte('[')
		for i, q := range f.Qualifiers {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(q.Key)
			sb.WriteByte('=')
			sb.WriteString(q.Value)
		}
		sb.WriteByte(']')
	}
	if f.Suffix != 0 {
		fmt.Fprintf(&sb, "#%d", f.Suffix)
	}
	return sb.String()
}

// Equal reports structural equality (qualifier order does not matter
// because WithQualifiers already canonicalizes it, but Equal sorts
// defensively in case an FQN was built by hand).
func (f FQN) Equal(g FQN) bool {
	return f.WithQualifiers(f.Qualifiers...).String() == g.WithQualifiers(g.Qualifiers...).String()
}

