// Package metrics provides in-process Prometheus counters for the
// runtime. They are exposed only through WriteText — no HTTP
// listener is started here, keeping the "no network protocol"
// Non-goal intact while still instrumenting every task execution, loop
// iteration, tool invocation, and dispatch.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Registry bundles the counters the Evaluator, Task Registry, and
// Dispatcher increment during a run.
type Registry struct {
	reg *prometheus.Registry

	TaskExecutions   *prometheus.CounterVec
	ToolInvocations  *prometheus.CounterVec
	LoopIterations   *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	DispatchFailures *prometheus.CounterVec
}

// New constructs and registers a fresh metrics Registry.
func New() *Registry {
	reg := prometheus.NewRegistry()

	m := &Registry{
		reg: reg,
		TaskExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sexprt_task_executions_total",
			Help: "Atomic task executions by template name.",
		}, []string{"template"}),
		ToolInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sexprt_tool_invocations_total",
			Help: "Direct tool invocations by tool name.",
		}, []string{"tool"}),
		LoopIterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sexprt_loop_iterations_total",
			Help: "Loop orchestrator iterations by loop form.",
		}, []string{"form"}),
		DispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sexprt_dispatch_duration_seconds",
			Help:    "Dispatcher call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		DispatchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sexprt_dispatch_failures_total",
			Help: "Dispatcher calls that returned a FAILED result, by error kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(m.TaskExecutions, m.ToolInvocations, m.LoopIterations, m.DispatchDuration, m.DispatchFailures)
	return m
}

// WriteText renders the current metric values in the Prometheus text
// exposition format to w — consumed by `sexprt metrics`, not by any
// network listener.
func (m *Registry) WriteText(w io.Writer) error {
	families, err := m.reg.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
