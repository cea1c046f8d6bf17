// Package registry implements the Task Registry: register,
// lookup, and invoke atomic-task templates by name or composite key.
package registry

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sexpruntime/core/internal/errtax"
	"github.com/sexpruntime/core/internal/logging"
	"github.com/sexpruntime/core/internal/metrics"
	"github.com/sexpruntime/core/internal/ports"
	"github.com/sexpruntime/core/internal/result"
	"github.com/sexpruntime/core/internal/task"
)

// Registry is a process-wide, append-only (last-write-wins) store of
// atomic task templates.
type Registry struct {
	mu        sync.RWMutex
	byName    map[string]*task.Template
	composite *lru.Cache[string, string] // "type:subtype" -> name

	executor *task.Executor
	logger   logging.Logger
	metrics  *metrics.Registry
}

// Config configures a new Registry.
type Config struct {
	Executor      *task.Executor
	Logger        logging.Logger
	Metrics       *metrics.Registry
	CompositeSize int // LRU capacity for the secondary "type:subtype" index; default 256
}

// New constructs an empty Registry.
func New(cfg Config) (*Registry, error) {
	size := cfg.CompositeSize
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Registry{
		byName:    make(map[string]*task.Template),
		composite: cache,
		executor:  cfg.Executor,
		logger:    logging.OrNop(cfg.Logger),
		metrics:   cfg.Metrics,
	}, nil
}

// Register adds or replaces a template. Re-registering the same name
// replaces the previous template (last-write-wins).
func (r *Registry) Register(tmpl *task.Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[tmpl.Name] = tmpl
	if key, ok := tmpl.CompositeKey(); ok {
		r.composite.Add(key, tmpl.Name)
	}
	r.logger.Debug("registered template %q", tmpl.Name)
}

// Find resolves an identifier by direct name first, then the
// composite "type:subtype" index.
func (r *Registry) Find(identifier string) (*task.Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if tmpl, ok := r.byName[identifier]; ok {
		return tmpl, true
	}
	if name, ok := r.composite.Get(identifier); ok {
		if tmpl, ok := r.byName[name]; ok {
			return tmpl, true
		}
	}
	return nil, false
}

// Has reports whether identifier resolves to a template.
func (r *Registry) Has(identifier string) bool {
	_, ok := r.Find(identifier)
	return ok
}

// Execute validates params against the resolved template's declared
// parameters, then delegates to the Executor.
func (r *Registry) Execute(ctx context.Context, identifier string, params map[string]any, tools []ports.ToolDefinition, history []ports.Message) result.Result {
	tmpl, ok := r.Find(identifier)
	if !ok {
		return result.Failed(errtax.TemplateNotFound(identifier))
	}

	normalized, verr := task.ValidateAndNormalize(tmpl, params)
	if verr != nil {
		return result.Failed(verr)
	}

	if r.metrics != nil {
		r.metrics.TaskExecutions.WithLabelValues(tmpl.Name).Inc()
	}

	if r.executor == nil {
		return result.Failed(errtax.New(errtax.KindInternal, "no_executor", "registry has no bound task executor"))
	}
	return r.executor.Execute(ctx, tmpl, normalized, tools, history)
}
