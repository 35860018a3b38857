package astframe

import "spy/internal/fqn"

// Evaluator is the frame walker itself: stateless beyond a Host handle
// and the module path used to resolve bare names to FQNs, so one
// Evaluator value is shared across every frame in a module (spec §9:
// "a single walker with a mode discriminant").
type Evaluator struct {
	Host       Host
	ModulePath []string
}

func New(host Host, modulePath []string) *Evaluator {
	return &Evaluator{Host: host, ModulePath: modulePath}
}

// GlobalFQN builds the FQN a bare global name resolves to within this
// evaluator's module.
func (e *Evaluator) GlobalFQN(name string) fqn.FQN {
	return fqn.New(e.ModulePath, name)
}
