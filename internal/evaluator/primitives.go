package evaluator

import (
	"github.com/sexpruntime/core/internal/environment"
	"github.com/sexpruntime/core/internal/errtax"
	"github.com/sexpruntime/core/internal/result"
	"github.com/sexpruntime/core/internal/value"
)

// NewGlobalEnv builds a root environment frame pre-populated with the
// builtin primitives: arithmetic, comparison, cons-cell and Result
// constructors/accessors. define and defatom bind names into the frame
// they are evaluated in (this root itself at top level); let and
// closure calls bind into child frames.
func NewGlobalEnv() *environment.Env {
	env := environment.New(nil)
	for _, b := range builtins() {
		env.Define(b.Name, b)
	}
	return env
}

func builtins() []*value.Builtin {
	return []*value.Builtin{
		arithBuiltin("+", func(a, b float64) float64 { return a + b }, 0),
		arithBuiltin("*", func(a, b float64) float64 { return a * b }, 1),
		subBuiltin(),
		divBuiltin(),
		cmpBuiltin(">", func(a, b float64) bool { return a > b }),
		cmpBuiltin("<", func(a, b float64) bool { return a < b }),
		cmpBuiltin(">=", func(a, b float64) bool { return a >= b }),
		cmpBuiltin("<=", func(a, b float64) bool { return a <= b }),
		cmpBuiltin("=", func(a, b float64) bool { return a == b }),
		consBuiltin(),
		carBuiltin(),
		cdrBuiltin(),
		makeResultBuiltin(),
		resultAccessor("result-status", func(r result.Result) any { return string(r.Status) }),
		resultAccessor("result-content", func(r result.Result) any { return r.Content }),
		resultAccessor("result-notes", func(r result.Result) any { return notesToAlist(r.Notes) }),
		resultAccessor("result-error", func(r result.Result) any {
			if r.Error == nil {
				return nil
			}
			return r.Error.Error()
		}),
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// numericResult preserves integer arithmetic when every operand and
// the accumulator stayed integral, matching the concrete scenario
// `(+ 3 4) → 7` rather than `7.0`.
func numericResult(args []any, acc float64) any {
	allInt := true
	for _, a := range args {
		if _, ok := a.(float64); ok {
			allInt = false
			break
		}
	}
	if allInt && acc == float64(int64(acc)) {
		return int64(acc)
	}
	return acc
}

func arithBuiltin(name string, op func(a, b float64) float64, identity float64) *value.Builtin {
	return &value.Builtin{Name: name, Fn: func(args []any) (any, *errtax.Error) {
		acc := identity
		for _, a := range args {
			f, ok := asFloat(a)
			if !ok {
				return nil, errtax.New(errtax.KindTypeError, "not_a_number", name+" requires numeric arguments")
			}
			acc = op(acc, f)
		}
		return numericResult(args, acc), nil
	}}
}

func subBuiltin() *value.Builtin {
	return &value.Builtin{Name: "-", Fn: func(args []any) (any, *errtax.Error) {
		if len(args) == 0 {
			return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", "- requires at least one argument")
		}
		first, ok := asFloat(args[0])
		if !ok {
			return nil, errtax.New(errtax.KindTypeError, "not_a_number", "- requires numeric arguments")
		}
		if len(args) == 1 {
			return numericResult(args, -first), nil
		}
		acc := first
		for _, a := range args[1:] {
			f, ok := asFloat(a)
			if !ok {
				return nil, errtax.New(errtax.KindTypeError, "not_a_number", "- requires numeric arguments")
			}
			acc -= f
		}
		return numericResult(args, acc), nil
	}}
}

func divBuiltin() *value.Builtin {
	return &value.Builtin{Name: "/", Fn: func(args []any) (any, *errtax.Error) {
		if len(args) < 2 {
			return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", "/ requires at least two arguments")
		}
		acc, ok := asFloat(args[0])
		if !ok {
			return nil, errtax.New(errtax.KindTypeError, "not_a_number", "/ requires numeric arguments")
		}
		for _, a := range args[1:] {
			f, ok := asFloat(a)
			if !ok {
				return nil, errtax.New(errtax.KindTypeError, "not_a_number", "/ requires numeric arguments")
			}
			if f == 0 {
				return nil, errtax.New(errtax.KindArgumentError, "division_by_zero", "/ division by zero")
			}
			acc /= f
		}
		return numericResult(args, acc), nil
	}}
}

func cmpBuiltin(name string, op func(a, b float64) bool) *value.Builtin {
	return &value.Builtin{Name: name, Fn: func(args []any) (any, *errtax.Error) {
		if len(args) != 2 {
			return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", name+" takes exactly two arguments")
		}
		a, ok1 := asFloat(args[0])
		b, ok2 := asFloat(args[1])
		if !ok1 || !ok2 {
			return nil, errtax.New(errtax.KindTypeError, "not_a_number", name+" requires numeric arguments")
		}
		return op(a, b), nil
	}}
}

func consBuiltin() *value.Builtin {
	return &value.Builtin{Name: "cons", Fn: func(args []any) (any, *errtax.Error) {
		if len(args) != 2 {
			return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", "cons takes exactly two arguments")
		}
		return &value.Pair{Car: args[0], Cdr: args[1]}, nil
	}}
}

func carBuiltin() *value.Builtin {
	return &value.Builtin{Name: "car", Fn: func(args []any) (any, *errtax.Error) {
		if len(args) != 1 {
			return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", "car takes exactly one argument")
		}
		switch v := args[0].(type) {
		case *value.Pair:
			return v.Car, nil
		case value.Sequence:
			if len(v) == 0 {
				return nil, errtax.New(errtax.KindTypeError, "empty_sequence", "car of an empty sequence")
			}
			return v[0], nil
		default:
			return nil, errtax.New(errtax.KindTypeError, "not_a_pair", "car requires a pair or sequence")
		}
	}}
}

func cdrBuiltin() *value.Builtin {
	return &value.Builtin{Name: "cdr", Fn: func(args []any) (any, *errtax.Error) {
		if len(args) != 1 {
			return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", "cdr takes exactly one argument")
		}
		switch v := args[0].(type) {
		case *value.Pair:
			return v.Cdr, nil
		case value.Sequence:
			if len(v) == 0 {
				return nil, errtax.New(errtax.KindTypeError, "empty_sequence", "cdr of an empty sequence")
			}
			return v[1:], nil
		default:
			return nil, errtax.New(errtax.KindTypeError, "not_a_pair", "cdr requires a pair or sequence")
		}
	}}
}

// makeResultBuiltin implements `make-result`, letting DSL code (loop
// phase functions in particular) build a Result value directly without
// invoking a task or tool.
func makeResultBuiltin() *value.Builtin {
	return &value.Builtin{Name: "make-result", Fn: func(args []any) (any, *errtax.Error) {
		if len(args) < 1 || len(args) > 2 {
			return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", "make-result takes (status content?)")
		}
		sym, ok := args[0].(value.Symbol)
		if !ok {
			return nil, errtax.New(errtax.KindTypeError, "not_a_symbol", "make-result status must be a quoted symbol")
		}
		var content any
		if len(args) == 2 {
			content = args[1]
		}
		switch result.Status(sym) {
		case result.StatusComplete:
			return result.Complete(content), nil
		case result.StatusContinuation:
			return result.Continuation(content), nil
		case result.StatusPartial:
			return result.Partial(content), nil
		case result.StatusFailed:
			return result.Failed(errtax.New(errtax.KindTaskFailure, "make_result_failed", "constructed via make-result")), nil
		default:
			return nil, errtax.New(errtax.KindArgumentError, "unknown_status", "make-result status must be one of COMPLETE/FAILED/CONTINUATION/PARTIAL")
		}
	}}
}

func resultAccessor(name string, get func(result.Result) any) *value.Builtin {
	return &value.Builtin{Name: name, Fn: func(args []any) (any, *errtax.Error) {
		if len(args) != 1 {
			return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", name+" takes exactly one argument")
		}
		r, ok := args[0].(result.Result)
		if !ok {
			return nil, errtax.New(errtax.KindTypeError, "not_a_result", name+" requires a Result value")
		}
		return get(r), nil
	}}
}

func notesToAlist(notes map[string]any) value.Sequence {
	seq := make(value.Sequence, 0, len(notes))
	for k, v := range notes {
		seq = append(seq, &value.Pair{Car: value.Symbol(k), Cdr: v})
	}
	return seq
}
