// Package toolsurface implements the Tool Surface: registration
// and invocation of direct tools, distinct from atomic task templates
// (internal/registry).
package toolsurface

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sexpruntime/core/internal/errtax"
	"github.com/sexpruntime/core/internal/ports"
)

// Surface holds the registered tools available to the Evaluator and
// the Dispatcher.
type Surface struct {
	mu    sync.RWMutex
	tools map[string]ports.ToolExecutor
}

// New constructs an empty Surface.
func New() *Surface {
	return &Surface{tools: make(map[string]ports.ToolExecutor)}
}

// Register adds a tool, rejecting names that violate the pattern.
func (s *Surface) Register(tool ports.ToolExecutor) error {
	name := tool.Definition().Name
	if !ports.ToolNamePattern.MatchString(name) {
		return fmt.Errorf("toolsurface: invalid tool name %q", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools[name] = tool
	return nil
}

// Has reports whether name is a registered tool.
func (s *Surface) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tools[name]
	return ok
}

// Invoke runs a registered tool by name.
func (s *Surface) Invoke(ctx context.Context, name string, args map[string]any) (*ports.ToolResult, *errtax.Error) {
	s.mu.RLock()
	tool, ok := s.tools[name]
	s.mu.RUnlock()
	if !ok {
		return nil, errtax.TemplateNotFound(name)
	}
	res, err := tool.Execute(ctx, ports.ToolCall{ID: uuid.NewString(), Name: name, Arguments: args})
	if err != nil {
		return nil, errtax.New(errtax.KindToolFailure, "tool_execution_failed", err.Error()).
			WithDetail("tool", name)
	}
	if res.Error != nil {
		return nil, errtax.New(errtax.KindToolFailure, "tool_reported_error", res.Error.Error()).
			WithDetail("tool", name)
	}
	return res, nil
}

// ListActive returns the definitions of every registered tool, sorted
// by name for deterministic output.
func (s *Surface) ListActive() []ports.ToolDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	defs := make([]ports.ToolDefinition, 0, len(s.tools))
	for _, t := range s.tools {
		defs = append(defs, t.Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
