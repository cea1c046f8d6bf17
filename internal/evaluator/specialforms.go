package evaluator

import (
	"context"
	"fmt"

	"github.com/sexpruntime/core/internal/ast"
	"github.com/sexpruntime/core/internal/environment"
	"github.com/sexpruntime/core/internal/errtax"
	"github.com/sexpruntime/core/internal/ports"
	"github.com/sexpruntime/core/internal/task"
	"github.com/sexpruntime/core/internal/value"
)

func (e *Evaluator) evalSpecialForm(ctx context.Context, name string, node ast.Node, env *environment.Env) (any, *errtax.Error) {
	switch name {
	case "quote":
		return e.evalQuote(node)
	case "if":
		return e.evalIf(ctx, node, env)
	case "let":
		return e.evalLet(ctx, node, env)
	case "lambda":
		return e.evalLambda(node, env)
	case "define":
		return e.evalDefine(ctx, node, env)
	case "defatom":
		return e.evalDefatom(node, env)
	case "list":
		return e.evalListForm(ctx, node, env)
	case "progn":
		return e.EvalSequence(ctx, node.Items[1:], env)
	case "iterative-loop":
		return e.evalIterativeLoop(ctx, node, env)
	case "director-evaluator-loop":
		return e.evalDirectorLoop(ctx, node, env)
	default:
		panic("evaluator: unregistered special form " + name)
	}
}

func (e *Evaluator) evalQuote(node ast.Node) (any, *errtax.Error) {
	if len(node.Items) != 2 {
		return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", "quote takes exactly one argument").
			WithExpression(ast.Print(node))
	}
	return quoteToValue(node.Items[1]), nil
}

func (e *Evaluator) evalIf(ctx context.Context, node ast.Node, env *environment.Env) (any, *errtax.Error) {
	if len(node.Items) < 3 || len(node.Items) > 4 {
		return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", "if takes (c t e?)").
			WithExpression(ast.Print(node))
	}
	cond, err := e.Eval(ctx, node.Items[1], env)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return e.Eval(ctx, node.Items[2], env)
	}
	if len(node.Items) == 4 {
		return e.Eval(ctx, node.Items[3], env)
	}
	return nil, nil
}

// evalLet implements non-sequential let: every
// binding's value expression is evaluated in the outer env before any
// binding name becomes visible.
func (e *Evaluator) evalLet(ctx context.Context, node ast.Node, env *environment.Env) (any, *errtax.Error) {
	if len(node.Items) < 2 {
		return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", "let requires a binding list").
			WithExpression(ast.Print(node))
	}
	bindingList := node.Items[1]
	if bindingList.Tag != ast.TagList {
		return nil, errtax.New(errtax.KindArgumentError, "malformed_bindings", "let bindings must be a list").
			WithExpression(ast.Print(node))
	}

	bindings := make(map[string]any, len(bindingList.Items))
	for _, b := range bindingList.Items {
		if b.Tag != ast.TagList || len(b.Items) != 2 {
			return nil, errtax.New(errtax.KindArgumentError, "malformed_binding", "each let binding must be (name value)").
				WithExpression(ast.Print(b))
		}
		nameNode := b.Items[0]
		if nameNode.Tag != ast.TagSymbol {
			return nil, errtax.New(errtax.KindArgumentError, "malformed_binding", "let binding name must be a symbol").
				WithExpression(ast.Print(b))
		}
		val, err := e.Eval(ctx, b.Items[1], env)
		if err != nil {
			return nil, err
		}
		bindings[nameNode.Sym] = val // last wins on duplicate names
	}

	letEnv := env.ExtendEnv(bindings)
	return e.EvalSequence(ctx, node.Items[2:], letEnv)
}

func (e *Evaluator) evalLambda(node ast.Node, env *environment.Env) (any, *errtax.Error) {
	if len(node.Items) < 2 {
		return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", "lambda requires a parameter list").
			WithExpression(ast.Print(node))
	}
	paramList := node.Items[1]
	if paramList.Tag != ast.TagList {
		return nil, errtax.New(errtax.KindArgumentError, "malformed_params", "lambda parameters must be a list").
			WithExpression(ast.Print(node))
	}
	params := make([]string, len(paramList.Items))
	for i, p := range paramList.Items {
		if p.Tag != ast.TagSymbol {
			return nil, errtax.New(errtax.KindArgumentError, "malformed_params", "lambda parameter must be a symbol").
				WithExpression(ast.Print(p))
		}
		params[i] = p.Sym
	}
	return &value.Closure{
		Params: params,
		Body:   node.Items[2:],
		Env:    env,
	}, nil
}

func (e *Evaluator) evalDefine(ctx context.Context, node ast.Node, env *environment.Env) (any, *errtax.Error) {
	if len(node.Items) != 3 {
		return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", "define takes (name value)").
			WithExpression(ast.Print(node))
	}
	nameNode := node.Items[1]
	if nameNode.Tag != ast.TagSymbol {
		return nil, errtax.New(errtax.KindArgumentError, "malformed_define", "define name must be a symbol").
			WithExpression(ast.Print(node))
	}
	val, err := e.Eval(ctx, node.Items[2], env)
	if err != nil {
		return nil, err
	}
	if closure, ok := val.(*value.Closure); ok && closure.Name == "" {
		closure.Name = nameNode.Sym
	}
	env.Define(nameNode.Sym, val)
	return value.Symbol(nameNode.Sym), nil
}

func (e *Evaluator) evalListForm(ctx context.Context, node ast.Node, env *environment.Env) (any, *errtax.Error) {
	args, err := e.evalArgs(ctx, node.Items[1:], env)
	if err != nil {
		return nil, err
	}
	return value.Sequence(args), nil
}

func (e *Evaluator) evalArgs(ctx context.Context, nodes []ast.Node, env *environment.Env) ([]any, *errtax.Error) {
	args := make([]any, len(nodes))
	for i, n := range nodes {
		v, err := e.Eval(ctx, n, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// evalDefatom implements (defatom name (instructions "…") clauses…):
// builds a Template, registers it with the Task Registry, and binds
// name in env to an invocable TaskHandle.
func (e *Evaluator) evalDefatom(node ast.Node, env *environment.Env) (any, *errtax.Error) {
	if len(node.Items) < 3 {
		return nil, errtax.New(errtax.KindArgumentError, "arity_mismatch", "defatom requires a name and instructions clause").
			WithExpression(ast.Print(node))
	}
	nameNode := node.Items[1]
	if nameNode.Tag != ast.TagSymbol {
		return nil, errtax.New(errtax.KindArgumentError, "malformed_defatom", "defatom name must be a symbol").
			WithExpression(ast.Print(node))
	}

	instrClause := node.Items[2]
	instrName, ok := instrClause.HeadSymbol()
	if !ok || instrName != "instructions" || len(instrClause.Items) != 2 || instrClause.Items[1].Tag != ast.TagString {
		return nil, errtax.New(errtax.KindArgumentError, "malformed_defatom",
			"defatom's first clause must be (instructions \"…\")").
			WithExpression(ast.Print(node))
	}

	tmpl := &task.Template{
		Name:         nameNode.Sym,
		Instructions: instrClause.Items[1].Str,
	}

	for _, clause := range node.Items[3:] {
		clauseName, ok := clause.HeadSymbol()
		if !ok {
			return nil, errtax.New(errtax.KindArgumentError, "malformed_defatom", "defatom clause must be headed by a symbol").
				WithExpression(ast.Print(clause))
		}
		switch clauseName {
		case "params":
			params, err := parseDefatomParams(clause)
			if err != nil {
				return nil, err
			}
			tmpl.Parameters = params
		case "output_format":
			of, err := parseDefatomOutputFormat(clause)
			if err != nil {
				return nil, err
			}
			tmpl.OutputFormat = of
		case "description":
			if len(clause.Items) != 2 || clause.Items[1].Tag != ast.TagString {
				return nil, errtax.New(errtax.KindArgumentError, "malformed_defatom", "description clause must be (description \"…\")").
					WithExpression(ast.Print(clause))
			}
			tmpl.Description = clause.Items[1].Str
		case "subtype":
			if len(clause.Items) != 2 || clause.Items[1].Tag != ast.TagString {
				return nil, errtax.New(errtax.KindArgumentError, "malformed_defatom", "subtype clause must be (subtype \"…\")").
					WithExpression(ast.Print(clause))
			}
			tmpl.Subtype = clause.Items[1].Str
		default:
			return nil, errtax.New(errtax.KindArgumentError, "malformed_defatom",
				fmt.Sprintf("unrecognized defatom clause %q", clauseName)).
				WithExpression(ast.Print(clause))
		}
	}

	for _, name := range task.ExtractPlaceholderNames(tmpl.Instructions) {
		if _, ok := tmpl.Parameter(name); !ok {
			return nil, errtax.UnresolvedPlaceholder(name)
		}
	}

	if e.registry != nil {
		e.registry.Register(tmpl)
	}
	handle := &value.TaskHandle{Name: tmpl.Name}
	env.Define(tmpl.Name, handle)
	return handle, nil
}

func parseDefatomParams(clause ast.Node) ([]task.Parameter, *errtax.Error) {
	params := make([]task.Parameter, 0, len(clause.Items)-1)
	for _, p := range clause.Items[1:] {
		if p.Tag != ast.TagList || len(p.Items) != 2 ||
			p.Items[0].Tag != ast.TagSymbol || p.Items[1].Tag != ast.TagSymbol {
			return nil, errtax.New(errtax.KindArgumentError, "malformed_defatom", "each param must be (name type)").
				WithExpression(ast.Print(p))
		}
		params = append(params, task.Parameter{
			Name: p.Items[0].Sym,
			Type: task.ParamType(p.Items[1].Sym),
		})
	}
	return params, nil
}

func parseDefatomOutputFormat(clause ast.Node) (*task.OutputFormat, *errtax.Error) {
	if len(clause.Items) != 2 || clause.Items[1].Tag != ast.TagList {
		return nil, errtax.New(errtax.KindArgumentError, "malformed_defatom",
			"output_format clause must wrap a single nested list").
			WithExpression(ast.Print(clause))
	}
	of := &task.OutputFormat{Type: task.OutputText}
	for _, field := range clause.Items[1].Items {
		fieldName, ok := field.HeadSymbol()
		if !ok || len(field.Items) != 2 || field.Items[1].Tag != ast.TagString {
			return nil, errtax.New(errtax.KindArgumentError, "malformed_defatom", "output_format field malformed").
				WithExpression(ast.Print(field))
		}
		switch fieldName {
		case "type":
			of.Type = task.OutputFormatType(field.Items[1].Str)
		case "schema":
			of.Schema = &ports.SchemaRef{Name: field.Items[1].Str}
		default:
			return nil, errtax.New(errtax.KindArgumentError, "malformed_defatom",
				fmt.Sprintf("unrecognized output_format field %q", fieldName)).
				WithExpression(ast.Print(field))
		}
	}
	return of, nil
}
