// Package environment implements lexical scope: a chain of frames with
// define, lookup, and extend. Each let/call introduces a new frame
// rather than mutating the current one, preserving the non-sequential
// let semantics.
package environment

import (
	"sync"

	"github.com/sexpruntime/core/internal/errtax"
	"github.com/sexpruntime/core/internal/value"
)

// Env is a single lexical frame with an optional parent.
type Env struct {
	mu       sync.RWMutex
	bindings map[string]any
	parent   *Env
}

var _ value.Env = (*Env)(nil)

// New creates a root frame with the given initial bindings (may be nil).
func New(bindings map[string]any) *Env {
	b := make(map[string]any, len(bindings))
	for k, v := range bindings {
		b[k] = v
	}
	return &Env{bindings: b}
}

// Extend returns a new frame whose parent is e, seeded with bindings.
// Implements value.Env so closures can extend their captured
// environment without this package depending on the evaluator.
func (e *Env) Extend(bindings map[string]any) value.Env {
	b := make(map[string]any, len(bindings))
	for k, v := range bindings {
		b[k] = v
	}
	return &Env{bindings: b, parent: e}
}

// ExtendEnv is Extend with a concrete *Env return type, for callers
// (the evaluator) that need further *Env-specific operations.
func (e *Env) ExtendEnv(bindings map[string]any) *Env {
	b := make(map[string]any, len(bindings))
	for k, v := range bindings {
		b[k] = v
	}
	return &Env{bindings: b, parent: e}
}

// Define inserts name into the local frame only, overwriting any
// existing local binding of the same name. It never reaches through
// to a parent frame.
func (e *Env) Define(name string, val any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bindings[name] = val
}

// Lookup walks from e to the root frame, returning the first binding
// found. Lookup failure is reported via errtax.UndefinedSymbol.
func (e *Env) Lookup(name string) (any, *errtax.Error) {
	for frame := e; frame != nil; frame = frame.parent {
		frame.mu.RLock()
		v, ok := frame.bindings[name]
		frame.mu.RUnlock()
		if ok {
			return v, nil
		}
	}
	return nil, errtax.UndefinedSymbol(name, name)
}

// Has reports whether name is bound anywhere in the chain.
func (e *Env) Has(name string) bool {
	_, err := e.Lookup(name)
	return err == nil
}
