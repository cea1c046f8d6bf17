package evaluator

import (
	"context"

	"github.com/sexpruntime/core/internal/ast"
	"github.com/sexpruntime/core/internal/environment"
	"github.com/sexpruntime/core/internal/errtax"
	"github.com/sexpruntime/core/internal/value"
)

// hardIterationCeiling bounds runaway loops beyond whatever
// max-iterations the caller supplied — a safety guard, not part of the
// loop form's contract itself.
const hardIterationCeiling = 100000

// loopClauses extracts the named sub-forms of a loop special form into
// a map keyed by clause name, e.g. "max-iterations" -> its single
// argument node.
func loopClauses(node ast.Node) map[string]ast.Node {
	clauses := make(map[string]ast.Node, len(node.Items)-1)
	for _, item := range node.Items[1:] {
		name, ok := item.HeadSymbol()
		if !ok || len(item.Items) != 2 {
			continue
		}
		clauses[name] = item.Items[1]
	}
	return clauses
}

func asNonNegativeInt(v any) (int64, bool) {
	n, ok := asFloat(v)
	if !ok || n < 0 || n != float64(int64(n)) {
		return 0, false
	}
	return int64(n), true
}

func asClosure(v any, role string) (*value.Closure, *errtax.Error) {
	c, ok := v.(*value.Closure)
	if !ok {
		return nil, errtax.New(errtax.KindTypeError, "not_a_closure", role+" must resolve to a closure").
			WithDetail("role", role)
	}
	return c, nil
}

// asDecision validates the controller's two-element (continue v) /
// (stop v) shape.
func asDecision(v any) (stop bool, payload any, err *errtax.Error) {
	seq, ok := v.(value.Sequence)
	if !ok || len(seq) != 2 {
		return false, nil, errtax.MalformedControllerDecision()
	}
	sym, ok := seq[0].(value.Symbol)
	if !ok {
		return false, nil, errtax.MalformedControllerDecision()
	}
	switch sym {
	case "stop":
		return true, seq[1], nil
	case "continue":
		return false, seq[1], nil
	default:
		return false, nil, errtax.MalformedControllerDecision()
	}
}

// evalIterativeLoop implements the three-phase loop form:
// Executor -> Validator -> Controller.
func (e *Evaluator) evalIterativeLoop(ctx context.Context, node ast.Node, env *environment.Env) (any, *errtax.Error) {
	clauses := loopClauses(node)

	maxIterNode, ok := clauses["max-iterations"]
	if !ok {
		return nil, errtax.New(errtax.KindArgumentError, "missing_clause", "iterative-loop requires (max-iterations N)")
	}
	maxIterVal, err := e.Eval(ctx, maxIterNode, env)
	if err != nil {
		return nil, err
	}
	n, ok := asNonNegativeInt(maxIterVal)
	if !ok {
		return nil, errtax.New(errtax.KindArgumentError, "invalid_max_iterations", "max-iterations must be a non-negative integer")
	}
	if n > hardIterationCeiling {
		return nil, errtax.New(errtax.KindIterationLimit, "iteration_ceiling_exceeded", "max-iterations exceeds the runtime's safety ceiling").
			WithDetail("limit", hardIterationCeiling)
	}

	initNode, ok := clauses["initial-input"]
	if !ok {
		return nil, errtax.New(errtax.KindArgumentError, "missing_clause", "iterative-loop requires (initial-input E)")
	}
	currentInput, err := e.Eval(ctx, initNode, env)
	if err != nil {
		return nil, err
	}

	testCmdNode, ok := clauses["test-command"]
	if !ok {
		return nil, errtax.New(errtax.KindArgumentError, "missing_clause", "iterative-loop requires (test-command C)")
	}
	testCommand, err := e.Eval(ctx, testCmdNode, env)
	if err != nil {
		return nil, err
	}

	executorFn, err := e.resolvePhaseFn(ctx, clauses, "executor", env)
	if err != nil {
		return nil, err
	}
	validatorFn, err := e.resolvePhaseFn(ctx, clauses, "validator", env)
	if err != nil {
		return nil, err
	}
	controllerFn, err := e.resolvePhaseFn(ctx, clauses, "controller", env)
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return nil, nil
	}

	var loopResult any
	for iteration := int64(1); iteration <= n; iteration++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errtax.New(errtax.KindTimeout, "deadline_exceeded", ctxErr.Error())
		}
		if e.metrics != nil {
			e.metrics.LoopIterations.WithLabelValues("iterative-loop").Inc()
		}

		execRes, err := e.Apply(ctx, executorFn, []any{currentInput, iteration})
		if err != nil {
			return nil, err
		}
		valRes, err := e.Apply(ctx, validatorFn, []any{testCommand, iteration})
		if err != nil {
			return nil, err
		}
		decisionVal, err := e.Apply(ctx, controllerFn, []any{execRes, valRes, currentInput, iteration})
		if err != nil {
			return nil, err
		}
		stop, payload, err := asDecision(decisionVal)
		if err != nil {
			return nil, err
		}
		if stop {
			loopResult = payload
			break
		}
		loopResult = annotateInputDiff(execRes, currentInput, payload)
		currentInput = payload
	}

	return loopResult, nil
}

// resolvePhaseFn evaluates clause name's argument and requires it to be
// a closure.
func (e *Evaluator) resolvePhaseFn(ctx context.Context, clauses map[string]ast.Node, name string, env *environment.Env) (*value.Closure, *errtax.Error) {
	node, ok := clauses[name]
	if !ok {
		return nil, errtax.New(errtax.KindArgumentError, "missing_clause", "loop form requires a ("+name+" F) clause")
	}
	val, err := e.Eval(ctx, node, env)
	if err != nil {
		return nil, err
	}
	return asClosure(val, name)
}
