package toolsurface

import (
	"context"
	"fmt"
	"time"

	"github.com/sexpruntime/core/internal/ports"
)

// ReadFileTool backs the read-file primitive by delegating to a
// ports.FileReader capability.
type ReadFileTool struct {
	Reader ports.FileReader
}

func (t *ReadFileTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "read-file",
		Description: "Read the contents of a file at the given path.",
		Parameters: ports.ParameterSchema{
			Type: "object",
			Properties: map[string]ports.Property{
				"path": {Type: "string", Description: "Filesystem path to read."},
			},
			Required: []string{"path"},
		},
	}
}

func (t *ReadFileTool) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	path, _ := call.Arguments["path"].(string)
	if path == "" {
		return &ports.ToolResult{CallID: call.ID, Error: fmt.Errorf("read-file: missing path argument")}, nil
	}
	content, err := t.Reader.Read(ctx, path)
	if err != nil {
		return &ports.ToolResult{CallID: call.ID, Error: err}, nil
	}
	return &ports.ToolResult{CallID: call.ID, Content: content}, nil
}

// NowTool returns the current instant, in RFC3339. Used by tests that
// exercise tool dispatch without needing any external capability.
type NowTool struct {
	Clock func() time.Time
}

func (t *NowTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{
		Name:        "now",
		Description: "Return the current timestamp.",
		Parameters:  ports.ParameterSchema{Type: "object"},
	}
}

func (t *NowTool) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	clock := t.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ports.ToolResult{CallID: call.ID, Content: clock().UTC().Format(time.RFC3339)}, nil
}
