package ports

import (
	"context"
	"regexp"
)

// ToolNamePattern is the naming constraint on registered tools.
var ToolNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ToolExecutor is a single invocable tool.
type ToolExecutor interface {
	Execute(ctx context.Context, call ToolCall) (*ToolResult, error)
	Definition() ToolDefinition
}

// ToolCall is a request to execute a tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToolResult is a tool's execution outcome.
type ToolResult struct {
	CallID   string
	Content  string
	Error    error
	Metadata map[string]any
}

// ToolDefinition describes a tool for the LLM's tool-use surface.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  ParameterSchema
}

// ParameterSchema is a JSON-Schema-shaped parameter description.
type ParameterSchema struct {
	Type       string
	Properties map[string]Property
	Required   []string
}

// Property describes one tool parameter.
type Property struct {
	Type        string
	Description string
}
