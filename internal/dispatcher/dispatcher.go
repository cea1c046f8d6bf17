// Package dispatcher implements the Dispatcher: the single entry
// point for user commands, routing to the Parser+Evaluator, the Task
// Registry, or the Tool Surface, and normalizing every outcome into a
// Result.
package dispatcher

import (
	"context"
	"strings"
	"time"

	"github.com/sexpruntime/core/internal/errtax"
	"github.com/sexpruntime/core/internal/evaluator"
	"github.com/sexpruntime/core/internal/logging"
	"github.com/sexpruntime/core/internal/metrics"
	"github.com/sexpruntime/core/internal/parser"
	"github.com/sexpruntime/core/internal/ports"
	"github.com/sexpruntime/core/internal/registry"
	"github.com/sexpruntime/core/internal/result"
	"github.com/sexpruntime/core/internal/task"
	"github.com/sexpruntime/core/internal/toolsurface"
)

// Flags carries the command-line flags recognized by the command
// surface. UseHistory asks the Dispatcher to forward the host-supplied
// History as LLM message history on task execution; the core itself
// stores no conversation state across calls.
type Flags struct {
	UseHistory bool
}

// Dispatcher is the runtime's single normalization boundary: every
// error raised beneath it becomes a FAILED Result rather than a Go
// panic or bubbled error value.
type Dispatcher struct {
	Evaluator *evaluator.Evaluator
	Registry  *registry.Registry
	Tools     *toolsurface.Surface
	Memory    ports.MemoryFacade
	Logger    logging.Logger
	Metrics   *metrics.Registry

	// History is prior conversation assembled by the embedding host,
	// forwarded to task execution only when Flags.UseHistory is set.
	History []ports.Message
}

// New constructs a Dispatcher from its collaborators.
func New(ev *evaluator.Evaluator, reg *registry.Registry, tools *toolsurface.Surface, memory ports.MemoryFacade, logger logging.Logger, m *metrics.Registry) *Dispatcher {
	return &Dispatcher{Evaluator: ev, Registry: reg, Tools: tools, Memory: memory, Logger: logging.OrNop(logger), Metrics: m}
}

// Dispatch routes identifier:
//  1. identifier begins with "(" -> parse and evaluate as an S-expression.
//  2. else if the Task Registry has identifier -> execute the template.
//  3. else if the Tool Surface has identifier -> invoke the tool.
//  4. else -> TemplateNotFound.
//
// callerNotes are merged over any notes the route itself produced,
// taking precedence on key collision.
func (d *Dispatcher) Dispatch(ctx context.Context, identifier string, params map[string]any, flags Flags, callerNotes map[string]any) (res result.Result) {
	start := time.Now()
	route := "not_found"
	defer func() {
		if rec := recover(); rec != nil {
			res = result.Failed(errtax.New(errtax.KindInternal, "panic_recovered", "dispatcher recovered from a panic")).
				WithNote("recovered", rec)
		}
		res = res.MergeNotes(callerNotes)
		if d.Metrics != nil {
			d.Metrics.DispatchDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			if res.Status == result.StatusFailed {
				d.Metrics.DispatchFailures.WithLabelValues(string(res.Error.Kind)).Inc()
			}
		}
	}()

	trimmed := strings.TrimSpace(identifier)
	switch {
	case strings.HasPrefix(trimmed, "("):
		route = "expression"
		return d.dispatchExpression(ctx, trimmed)
	case d.Registry != nil && d.Registry.Has(identifier):
		route = "task"
		return d.dispatchTask(ctx, identifier, params, flags)
	case d.Tools != nil && d.Tools.Has(identifier):
		route = "tool"
		return d.dispatchTool(ctx, identifier, params)
	default:
		return result.Failed(errtax.TemplateNotFound(identifier))
	}
}

func (d *Dispatcher) dispatchExpression(ctx context.Context, src string) result.Result {
	node, perr := parser.ParseOne(src)
	if perr != nil {
		return result.Failed(perr)
	}
	env := evaluator.NewGlobalEnv()
	v, eerr := d.Evaluator.Eval(ctx, node, env)
	if eerr != nil {
		return result.Failed(eerr)
	}
	return asResult(v)
}

// asResult lifts a raw evaluated value into a Result: an evaluation
// that already produced a Result (a task/tool invocation) passes
// through unchanged; any other value is wrapped COMPLETE.
func asResult(v any) result.Result {
	if r, ok := v.(result.Result); ok {
		return r
	}
	return result.Complete(v)
}

// dispatchTask executes the named template after applying the context
// selection precedence: an explicit file_context parameter wins, then
// the template's declared file_paths, then — only when the template
// opts in — an automatic Memory Facade lookup restricted to its
// context-relevant parameters.
func (d *Dispatcher) dispatchTask(ctx context.Context, identifier string, params map[string]any, flags Flags) result.Result {
	tmpl, ok := d.Registry.Find(identifier)
	if !ok {
		return result.Failed(errtax.TemplateNotFound(identifier))
	}

	var tools []ports.ToolDefinition
	if d.Tools != nil {
		tools = d.Tools.ListActive()
	}

	if _, hasExplicit := params["file_context"]; !hasExplicit {
		switch {
		case len(tmpl.FilePaths) > 0:
			params = mergeFileContext(params, strings.Join(tmpl.FilePaths, "\n"))
		case tmpl.AutoContext && d.Memory != nil:
			if ctxResult, ok := d.lookupMemoryContext(ctx, tmpl, params); ok && ctxResult.Summary != "" {
				params = mergeFileContext(params, ctxResult.Summary)
			}
		}
	}

	var history []ports.Message
	if flags.UseHistory {
		history = d.History
	}
	return d.Registry.Execute(ctx, identifier, params, tools, history)
}

// lookupMemoryContext queries the Memory Facade restricted to the
// template's context-relevant parameter subset.
func (d *Dispatcher) lookupMemoryContext(ctx context.Context, tmpl *task.Template, params map[string]any) (ports.ContextResult, bool) {
	relevant := tmpl.RelevantParameters()
	if len(relevant) == 0 {
		return ports.ContextResult{}, false
	}
	fragments := make(map[string]string, len(relevant))
	for _, name := range relevant {
		if v, ok := params[name]; ok {
			fragments[name] = stringifyParam(v)
		}
	}
	if len(fragments) == 0 {
		return ports.ContextResult{}, false
	}
	res, err := d.Memory.LookupContext(ctx, fragments, 0)
	if err != nil {
		d.Logger.Warn("memory facade lookup failed: %v", err)
		return ports.ContextResult{}, false
	}
	return res, true
}

func mergeFileContext(params map[string]any, summary string) map[string]any {
	merged := make(map[string]any, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	merged["file_context"] = summary
	return merged
}

func stringifyParam(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func (d *Dispatcher) dispatchTool(ctx context.Context, identifier string, params map[string]any) result.Result {
	if d.Metrics != nil {
		d.Metrics.ToolInvocations.WithLabelValues(identifier).Inc()
	}
	res, terr := d.Tools.Invoke(ctx, identifier, params)
	if terr != nil {
		return result.Failed(terr)
	}
	r := result.Complete(res.Content)
	r.Notes = res.Metadata
	return r
}
