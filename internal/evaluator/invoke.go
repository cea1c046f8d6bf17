package evaluator

import (
	"context"
	"sort"

	"github.com/sexpruntime/core/internal/ast"
	"github.com/sexpruntime/core/internal/environment"
	"github.com/sexpruntime/core/internal/errtax"
	"github.com/sexpruntime/core/internal/ports"
	"github.com/sexpruntime/core/internal/result"
	"github.com/sexpruntime/core/internal/task"
	"github.com/sexpruntime/core/internal/value"
)

// invoke implements invocation dispatch for a list whose head is
// not a special form.
func (e *Evaluator) invoke(ctx context.Context, node ast.Node, env *environment.Env) (any, *errtax.Error) {
	argNodes := node.Items[1:]

	if name, ok := node.HeadSymbol(); ok {
		if env.Has(name) {
			fn, err := env.Lookup(name)
			if err != nil {
				return nil, err
			}
			return e.invokeResolved(ctx, fn, name, argNodes, env, node)
		}
		if e.registry != nil && e.registry.Has(name) {
			return e.invokeTaskByName(ctx, name, argNodes, env)
		}
		if e.tools != nil && e.tools.Has(name) {
			return e.invokeToolByName(ctx, name, argNodes, env)
		}
		return nil, errtax.UndefinedSymbol(name, ast.Print(node))
	}

	headVal, err := e.Eval(ctx, node.Items[0], env)
	if err != nil {
		return nil, err
	}
	return e.invokeResolved(ctx, headVal, "", argNodes, env, node)
}

// invokeResolved applies an already-resolved head value (closure,
// builtin, or task handle) to the unevaluated argument nodes.
func (e *Evaluator) invokeResolved(ctx context.Context, fn any, name string, argNodes []ast.Node, env *environment.Env, node ast.Node) (any, *errtax.Error) {
	switch f := fn.(type) {
	case *value.Closure:
		args, err := e.evalArgs(ctx, argNodes, env)
		if err != nil {
			return nil, err
		}
		return e.ApplyClosure(ctx, f, args)
	case *value.Builtin:
		args, err := e.evalArgs(ctx, argNodes, env)
		if err != nil {
			return nil, err
		}
		return f.Fn(args)
	case *value.TaskHandle:
		return e.invokeTaskByName(ctx, f.Name, argNodes, env)
	default:
		if name == "" {
			name = ast.Print(node)
		}
		return nil, errtax.New(errtax.KindTypeError, "not_callable",
			"value bound to "+name+" is not callable").WithExpression(ast.Print(node))
	}
}

// ApplyClosure implements closure application to already-evaluated
// argument values: arity check, new frame extending the closure's
// captured environment, sequential body evaluation.
func (e *Evaluator) ApplyClosure(ctx context.Context, c *value.Closure, args []any) (any, *errtax.Error) {
	if len(args) != len(c.Params) {
		return nil, errtax.ArityMismatch(len(c.Params), len(args))
	}
	bindings := make(map[string]any, len(args))
	for i, p := range c.Params {
		bindings[p] = args[i]
	}
	extended := c.Env.Extend(bindings)
	callEnv, ok := extended.(*environment.Env)
	if !ok {
		return nil, errtax.New(errtax.KindInternal, "bad_environment", "closure environment did not extend to a concrete frame")
	}
	return e.EvalSequence(ctx, c.Body, callEnv)
}

// Apply applies any callable runtime value (Closure, Builtin, or
// TaskHandle) to already-evaluated arguments. Used by the loop
// orchestrators to invoke phase functions.
func (e *Evaluator) Apply(ctx context.Context, fn any, args []any) (any, *errtax.Error) {
	switch f := fn.(type) {
	case *value.Closure:
		return e.ApplyClosure(ctx, f, args)
	case *value.Builtin:
		return f.Fn(args)
	case *value.TaskHandle:
		return e.invokeTaskWithValues(ctx, f.Name, args)
	default:
		return nil, errtax.New(errtax.KindTypeError, "not_callable", "value is not callable")
	}
}

// splitArgs separates positional argument nodes from key-value argument
// nodes. An argument node that is itself a two-element list headed by a
// symbol is a named binding `(k v)`; everything else is
// positional.
func (e *Evaluator) splitArgs(ctx context.Context, argNodes []ast.Node, env *environment.Env) (positional []any, named map[string]any, err *errtax.Error) {
	named = make(map[string]any)
	for _, n := range argNodes {
		if n.Tag == ast.TagList && len(n.Items) == 2 && n.Items[0].Tag == ast.TagSymbol {
			v, evalErr := e.Eval(ctx, n.Items[1], env)
			if evalErr != nil {
				return nil, nil, evalErr
			}
			named[n.Items[0].Sym] = v
			continue
		}
		v, evalErr := e.Eval(ctx, n, env)
		if evalErr != nil {
			return nil, nil, evalErr
		}
		positional = append(positional, v)
	}
	return positional, named, nil
}

// invokeTaskByName evaluates argument nodes (supporting both positional
// and key-value forms) against the named template's declared parameter
// order and delegates to the Task Registry.
func (e *Evaluator) invokeTaskByName(ctx context.Context, name string, argNodes []ast.Node, env *environment.Env) (any, *errtax.Error) {
	tmpl, ok := e.registry.Find(name)
	if !ok {
		return nil, errtax.TemplateNotFound(name)
	}
	positional, named, err := e.splitArgs(ctx, argNodes, env)
	if err != nil {
		return nil, err
	}
	params, err := bindPositionalAndNamed(tmpl.Parameters, positional, named)
	if err != nil {
		return nil, err
	}

	var tools []ports.ToolDefinition
	if e.tools != nil {
		tools = e.tools.ListActive()
	}

	ctx, span := e.tracer.Start(ctx, "task.execute")
	defer span.End()
	res := e.registry.Execute(ctx, name, params, tools, nil)
	return res, nil
}

// invokeTaskWithValues invokes a named template with already-evaluated
// positional values, for use by Apply when the applied value is a
// TaskHandle. Invoking a TaskHandle from an expression goes through
// invokeTaskByName instead.
func (e *Evaluator) invokeTaskWithValues(ctx context.Context, name string, values []any) (any, *errtax.Error) {
	tmpl, ok := e.registry.Find(name)
	if !ok {
		return nil, errtax.TemplateNotFound(name)
	}
	params, err := bindPositionalAndNamed(tmpl.Parameters, values, nil)
	if err != nil {
		return nil, err
	}
	var tools []ports.ToolDefinition
	if e.tools != nil {
		tools = e.tools.ListActive()
	}
	res := e.registry.Execute(ctx, name, params, tools, nil)
	return res, nil
}

// bindPositionalAndNamed maps positional values to the declared
// parameter order (skipping names already supplied by named) and
// merges in the named bindings. Mixing the two is permitted provided
// each declared parameter is supplied at most once.
func bindPositionalAndNamed(declared []task.Parameter, positional []any, named map[string]any) (map[string]any, *errtax.Error) {
	params := make(map[string]any, len(declared))
	for k, v := range named {
		params[k] = v
	}
	pos := 0
	for _, p := range declared {
		if _, already := params[p.Name]; already {
			continue
		}
		if pos >= len(positional) {
			continue
		}
		params[p.Name] = positional[pos]
		pos++
	}
	return params, nil
}

// invokeToolByName evaluates argument nodes and invokes the named
// direct tool. Positional arguments are assigned to the tool's
// declared properties in sorted-name order, the only deterministic
// order a JSON-Schema-shaped ParameterSchema offers.
func (e *Evaluator) invokeToolByName(ctx context.Context, name string, argNodes []ast.Node, env *environment.Env) (any, *errtax.Error) {
	positional, named, err := e.splitArgs(ctx, argNodes, env)
	if err != nil {
		return nil, err
	}
	args := make(map[string]any, len(named)+len(positional))
	for k, v := range named {
		args[k] = v
	}
	if len(positional) > 0 {
		var def ports.ToolDefinition
		for _, d := range e.tools.ListActive() {
			if d.Name == name {
				def = d
				break
			}
		}
		keys := make([]string, 0, len(def.Parameters.Properties))
		for k := range def.Parameters.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, v := range positional {
			if i >= len(keys) {
				break
			}
			if _, already := args[keys[i]]; already {
				continue
			}
			args[keys[i]] = v
		}
	}

	ctx, span := e.tracer.Start(ctx, "tool.invoke")
	defer span.End()
	if e.metrics != nil {
		e.metrics.ToolInvocations.WithLabelValues(name).Inc()
	}
	res, toolErr := e.tools.Invoke(ctx, name, args)
	if toolErr != nil {
		return result.Failed(toolErr), nil
	}
	r := result.Complete(res.Content)
	r.Notes = res.Metadata
	return r, nil
}

