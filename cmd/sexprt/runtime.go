package main

import (
	"github.com/sexpruntime/core/internal/config"
	"github.com/sexpruntime/core/internal/dispatcher"
	"github.com/sexpruntime/core/internal/evaluator"
	"github.com/sexpruntime/core/internal/llmref"
	"github.com/sexpruntime/core/internal/logging"
	"github.com/sexpruntime/core/internal/memory"
	"github.com/sexpruntime/core/internal/metrics"
	"github.com/sexpruntime/core/internal/ports"
	"github.com/sexpruntime/core/internal/registry"
	"github.com/sexpruntime/core/internal/task"
	"github.com/sexpruntime/core/internal/toolsurface"
	"github.com/sexpruntime/core/internal/tracing"
)

// runtime bundles the collaborators a single sexprt invocation wires
// together: config, logging, metrics, the tool surface, task registry,
// evaluator, and dispatcher. Built fresh per process.
type runtime struct {
	Config     config.RuntimeConfig
	Logger     logging.Logger
	Metrics    *metrics.Registry
	Tracer     *tracing.Provider
	Tools      *toolsurface.Surface
	Registry   *registry.Registry
	Evaluator  *evaluator.Evaluator
	Dispatcher *dispatcher.Dispatcher
	Memory     ports.MemoryFacade
}

// buildRuntime wires every component the subcommands share, using the
// reference LLM client and builtin tools when no production capability
// is configured.
func buildRuntime(configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.NewComponentLogger(logging.Config{Component: "sexprt"})
	m := metrics.New()
	tp := tracing.NewProvider()

	tools := toolsurface.New()
	_ = tools.Register(&toolsurface.ReadFileTool{Reader: fsReader{}})
	_ = tools.Register(&toolsurface.NowTool{})

	store, err := memory.NewVectorStore(64, logger.With("memory"))
	if err != nil {
		return nil, err
	}

	llmClient := llmref.New(cfg.LLMModel, nil, logger.With("llmref"))
	executor := task.NewExecutor(llmClient, logger.With("task"))

	reg, err := registry.New(registry.Config{
		Executor: executor,
		Logger:   logger.With("registry"),
		Metrics:  m,
	})
	if err != nil {
		return nil, err
	}

	ev := evaluator.New(evaluator.Config{
		Registry: reg,
		Tools:    tools,
		Memory:   store,
		Logger:   logger.With("evaluator"),
		Metrics:  m,
		Tracer:   tp.Tracer("sexprt/evaluator"),
	})

	disp := dispatcher.New(ev, reg, tools, store, logger.With("dispatcher"), m)

	return &runtime{
		Config:     cfg,
		Logger:     logger,
		Metrics:    m,
		Tracer:     tp,
		Tools:      tools,
		Registry:   reg,
		Evaluator:  ev,
		Dispatcher: disp,
		Memory:     store,
	}, nil
}
