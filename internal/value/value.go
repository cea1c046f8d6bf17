// Package value defines the runtime value representation produced by
// evaluation, distinct from the unevaluated ast.Node tree. Numbers,
// strings, and bools flow through as plain Go int64/float64/string/bool;
// this package adds the value types that have no native Go counterpart:
// symbols-as-data (the result of `quote`), ordered sequences (the
// result of `list` or any evaluated list-of-values), and closures.
package value

import (
	"fmt"

	"github.com/sexpruntime/core/internal/ast"
	"github.com/sexpruntime/core/internal/errtax"
)

// Symbol is a symbol used as data, e.g. the result of (quote sym) or
// of evaluating a Quoted node wrapping a bare symbol.
type Symbol string

// Sequence is the runtime value produced by `list` and by argument
// evaluation — an ordered, heterogeneous collection of already-
// evaluated values. It is never confused with ast.Node's TagList,
// which holds unevaluated code.
type Sequence []any

// Env is the minimal environment contract value.Closure needs, kept
// here (rather than importing internal/environment) to avoid a cyclic
// dependency between value and environment.
type Env interface {
	Extend(bindings map[string]any) Env
}

// Closure is a first-class procedure: an ordered parameter list, a
// body of one or more AST nodes evaluated sequentially, and the
// environment captured at definition time.
type Closure struct {
	Params []string
	Body   []ast.Node
	Env    Env
	Name   string // best-effort, set by `define`+`lambda`, for error messages
}

func (c *Closure) String() string {
	if c.Name != "" {
		return fmt.Sprintf("#<closure %s/%d>", c.Name, len(c.Params))
	}
	return fmt.Sprintf("#<closure/%d>", len(c.Params))
}

// TaskHandle is the invocable value `defatom` binds its name to: a
// thin wrapper identifying a registered template by name, resolved
// against the Task Registry at invocation time rather than at bind
// time (templates may be replaced after binding — last-write-wins,
// Task Registry).
type TaskHandle struct {
	Name string
}

func (t *TaskHandle) String() string { return fmt.Sprintf("#<task %s>", t.Name) }

// Builtin is a primitive procedure implemented in Go rather than as a
// user-defined Closure (arithmetic, comparisons, make-result and its
// accessors). Builtins are looked up and applied exactly like
// Closures during invocation dispatch.
type Builtin struct {
	Name string
	Fn   func(args []any) (any, *errtax.Error)
}

func (b *Builtin) String() string { return fmt.Sprintf("#<builtin %s>", b.Name) }

// Pair is a cons cell, used to build alist-shaped mappings such as the
// validator result in the iterative-loop: (list (cons 'exit_code 0)).
type Pair struct {
	Car any
	Cdr any
}

func (p *Pair) String() string { return fmt.Sprintf("(%v . %v)", p.Car, p.Cdr) }

// AlistGet looks up key (compared by ==) in a Sequence of *Pair cons
// cells, returning (value, true) on the first match.
func AlistGet(seq Sequence, key any) (any, bool) {
	for _, item := range seq {
		if p, ok := item.(*Pair); ok && p.Car == key {
			return p.Cdr, true
		}
	}
	return nil, false
}
