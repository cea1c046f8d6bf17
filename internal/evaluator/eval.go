// Package evaluator implements the core recursive interpreter: special
// forms, primitives, closure application, task/tool dispatch, and the
// two loop special forms, dispatching by the head symbol of each
// S-expression and making synchronous capability calls as it goes.
package evaluator

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/sexpruntime/core/internal/ast"
	"github.com/sexpruntime/core/internal/environment"
	"github.com/sexpruntime/core/internal/errtax"
	"github.com/sexpruntime/core/internal/logging"
	"github.com/sexpruntime/core/internal/metrics"
	"github.com/sexpruntime/core/internal/ports"
	"github.com/sexpruntime/core/internal/registry"
	"github.com/sexpruntime/core/internal/toolsurface"
	"github.com/sexpruntime/core/internal/tracing"
	"github.com/sexpruntime/core/internal/value"
)

// specialForms is the fixed set of head symbols that activate custom
// evaluation rules instead of ordinary invocation.
var specialForms = map[string]bool{
	"quote":                   true,
	"let":                     true,
	"if":                      true,
	"lambda":                  true,
	"define":                  true,
	"defatom":                 true,
	"list":                    true,
	"progn":                   true,
	"iterative-loop":          true,
	"director-evaluator-loop": true,
}

// Config wires an Evaluator to the rest of the runtime.
type Config struct {
	Registry *registry.Registry
	Tools    *toolsurface.Surface
	Memory   ports.MemoryFacade
	Logger   logging.Logger
	Metrics  *metrics.Registry
	Tracer   trace.Tracer
}

// Evaluator is the stateless recursive interpreter; all mutable state
// lives in the Environment chain and in the Registry/Tools it consults.
type Evaluator struct {
	registry *registry.Registry
	tools    *toolsurface.Surface
	memory   ports.MemoryFacade
	logger   logging.Logger
	metrics  *metrics.Registry
	tracer   trace.Tracer
}

// New constructs an Evaluator from cfg.
func New(cfg Config) *Evaluator {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = tracing.Noop()
	}
	return &Evaluator{
		registry: cfg.Registry,
		tools:    cfg.Tools,
		memory:   cfg.Memory,
		logger:   logging.OrNop(cfg.Logger),
		metrics:  cfg.Metrics,
		tracer:   tracer,
	}
}

// Eval evaluates a single AST node in env, returning a runtime value.
// The returned value may itself be a result.Result when produced by a
// task or tool invocation.
func (e *Evaluator) Eval(ctx context.Context, node ast.Node, env *environment.Env) (any, *errtax.Error) {
	if err := ctx.Err(); err != nil {
		return nil, errtax.New(errtax.KindTimeout, "deadline_exceeded", err.Error())
	}

	switch node.Tag {
	case ast.TagNumber:
		if node.IsFloat {
			return node.Float, nil
		}
		return node.Int, nil
	case ast.TagBool:
		return node.Bool, nil
	case ast.TagString:
		return node.Str, nil
	case ast.TagNil:
		return nil, nil
	case ast.TagSymbol:
		return env.Lookup(node.Sym)
	case ast.TagQuoted:
		return quoteToValue(*node.Quoted), nil
	case ast.TagList:
		return e.evalList(ctx, node, env)
	default:
		panic("evaluator: unknown ast tag")
	}
}

// EvalSequence evaluates each node in order, returning the last value
// (or nil if nodes is empty). Used for progn/let/lambda bodies.
func (e *Evaluator) EvalSequence(ctx context.Context, nodes []ast.Node, env *environment.Env) (any, *errtax.Error) {
	var last any
	var err *errtax.Error
	for _, n := range nodes {
		last, err = e.Eval(ctx, n, env)
		if err != nil {
			return nil, err
		}
	}
	return last, nil
}

func (e *Evaluator) evalList(ctx context.Context, node ast.Node, env *environment.Env) (any, *errtax.Error) {
	if len(node.Items) == 0 {
		return value.Sequence{}, nil
	}

	if name, ok := node.HeadSymbol(); ok && specialForms[name] {
		return e.evalSpecialForm(ctx, name, node, env)
	}

	return e.invoke(ctx, node, env)
}

// truthy implements the `if` truthiness rule: everything is
// truthy except the boolean false and nil.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}
