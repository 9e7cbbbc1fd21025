// Package environ implements the CSE machine's environment: an immutable
// frame linking a name-to-value mapping to a parent frame, supporting
// hierarchical lookup with copy-out semantics (spec.md §3, §4.2).
package environ

import (
	"fmt"

	"github.com/rpalvm/cse/pkg/value"
)

// Env is a lexical environment frame. An Env is built up with Bind calls
// and then Seal-ed immediately before being handed to a lambda body; after
// sealing, an Env is never mutated again, so it may be shared freely by
// every closure that captures it (spec.md §4.2, §5).
type Env struct {
	parent   *Env
	bindings map[string]value.Value
	sealed   bool
}

// New returns a fresh, empty, unsealed frame whose parent is parent. Passing
// a nil parent creates the primordial frame described in spec.md §3.
func New(parent *Env) *Env {
	return &Env{parent: parent, bindings: make(map[string]value.Value)}
}

// IsEnvironment satisfies value.Environment so that *Env can be captured by
// a closure without introducing an import cycle between value and environ.
func (e *Env) IsEnvironment() bool { return true }

// Parent returns e's parent frame, or nil if e is the primordial frame.
func (e *Env) Parent() *Env { return e.parent }

// Bind adds a name-to-value binding to e. Bind returns an error if e has
// already been sealed; per spec.md §4.2, binding is only ever legal on a
// fresh frame immediately before it is exposed to evaluation.
func (e *Env) Bind(name string, v value.Value) error {
	if e.sealed {
		return fmt.Errorf("environ: cannot bind %q: frame is sealed", name)
	}
	if _, exists := e.bindings[name]; exists {
		return fmt.Errorf("environ: duplicate binding for %q in one frame", name)
	}
	e.bindings[name] = v
	return nil
}

// Seal marks e as immutable. Further calls to Bind return an error. Seal is
// idempotent.
func (e *Env) Seal() { e.sealed = true }

// Lookup walks the parent chain starting at e and returns a deep copy
// (value.Value.Copy) of the first binding found for name, so that later
// in-place mutation of the returned value (e.g. of a tuple's elements) can
// never leak into the environment (spec.md §4.2, §5). Lookup reports false if name is
// bound nowhere in the chain.
func (e *Env) Lookup(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.bindings[name]; ok {
			return v.Copy(), true
		}
	}
	return value.Value{}, false
}

// Len reports the number of bindings local to e (excluding ancestors).
func (e *Env) Len() int { return len(e.bindings) }
