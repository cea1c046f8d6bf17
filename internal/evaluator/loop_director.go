package evaluator

import (
	"context"

	"github.com/sexpruntime/core/internal/ast"
	"github.com/sexpruntime/core/internal/environment"
	"github.com/sexpruntime/core/internal/errtax"
)

// evalDirectorLoop implements the four-phase loop form:
// Director -> Executor -> Evaluator -> Controller.
func (e *Evaluator) evalDirectorLoop(ctx context.Context, node ast.Node, env *environment.Env) (any, *errtax.Error) {
	clauses := loopClauses(node)

	maxIterNode, ok := clauses["max-iterations"]
	if !ok {
		return nil, errtax.New(errtax.KindArgumentError, "missing_clause", "director-evaluator-loop requires (max-iterations N)")
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

	initNode, ok := clauses["initial-director-input"]
	if !ok {
		return nil, errtax.New(errtax.KindArgumentError, "missing_clause", "director-evaluator-loop requires (initial-director-input E)")
	}
	currentDirectorInput, err := e.Eval(ctx, initNode, env)
	if err != nil {
		return nil, err
	}

	directorFn, err := e.resolvePhaseFn(ctx, clauses, "director", env)
	if err != nil {
		return nil, err
	}
	executorFn, err := e.resolvePhaseFn(ctx, clauses, "executor", env)
	if err != nil {
		return nil, err
	}
	evaluatorFn, err := e.resolvePhaseFn(ctx, clauses, "evaluator", env)
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
			e.metrics.LoopIterations.WithLabelValues("director-evaluator-loop").Inc()
		}

		plan, err := e.Apply(ctx, directorFn, []any{currentDirectorInput, iteration})
		if err != nil {
			return nil, err
		}
		work, err := e.Apply(ctx, executorFn, []any{plan, iteration})
		if err != nil {
			return nil, err
		}
		feedback, err := e.Apply(ctx, evaluatorFn, []any{work, plan, iteration})
		if err != nil {
			return nil, err
		}
		decisionVal, err := e.Apply(ctx, controllerFn, []any{feedback, plan, work, iteration})
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
		loopResult = annotateInputDiff(work, currentDirectorInput, payload)
		currentDirectorInput = payload
	}

	return loopResult, nil
}
