package toolsurface

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sexpruntime/core/internal/ports"
)

type namedTool struct {
	name string
	fn   func(call ports.ToolCall) (*ports.ToolResult, error)
}

func (t namedTool) Definition() ports.ToolDefinition {
	return ports.ToolDefinition{Name: t.name}
}

func (t namedTool) Execute(ctx context.Context, call ports.ToolCall) (*ports.ToolResult, error) {
	if t.fn != nil {
		return t.fn(call)
	}
	return &ports.ToolResult{CallID: call.ID, Content: "ok"}, nil
}

func TestRegisterRejectsInvalidName(t *testing.T) {
	s := New()
	require.Error(t, s.Register(namedTool{name: "bad name!"}))
	require.Error(t, s.Register(namedTool{name: ""}))
	require.NoError(t, s.Register(namedTool{name: "good_name-1"}))
}

func TestInvokeUnknownTool(t *testing.T) {
	s := New()
	_, err := s.Invoke(context.Background(), "ghost", nil)
	require.NotNil(t, err)
	require.Equal(t, "TemplateNotFound", string(err.Kind))
}

func TestInvokeAssignsCallID(t *testing.T) {
	s := New()
	var seen string
	require.NoError(t, s.Register(namedTool{name: "probe", fn: func(call ports.ToolCall) (*ports.ToolResult, error) {
		seen = call.ID
		return &ports.ToolResult{CallID: call.ID, Content: "ok"}, nil
	}}))

	res, err := s.Invoke(context.Background(), "probe", nil)
	require.Nil(t, err)
	require.NotEmpty(t, seen)
	require.Equal(t, seen, res.CallID)
}

func TestInvokeMapsExecutionErrorToToolFailure(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(namedTool{name: "broken", fn: func(call ports.ToolCall) (*ports.ToolResult, error) {
		return nil, errors.New("exploded")
	}}))

	_, err := s.Invoke(context.Background(), "broken", nil)
	require.NotNil(t, err)
	require.Equal(t, "ToolFailure", string(err.Kind))
	require.Equal(t, "tool_execution_failed", err.Reason)
	require.Equal(t, "broken", err.Details["tool"])
}

func TestInvokeMapsReportedErrorToToolFailure(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(namedTool{name: "reporting", fn: func(call ports.ToolCall) (*ports.ToolResult, error) {
		return &ports.ToolResult{Error: errors.New("bad input")}, nil
	}}))

	_, err := s.Invoke(context.Background(), "reporting", nil)
	require.NotNil(t, err)
	require.Equal(t, "tool_reported_error", err.Reason)
}

func TestListActiveIsSorted(t *testing.T) {
	s := New()
	require.NoError(t, s.Register(namedTool{name: "zeta"}))
	require.NoError(t, s.Register(namedTool{name: "alpha"}))

	defs := s.ListActive()
	require.Len(t, defs, 2)
	require.Equal(t, "alpha", defs[0].Name)
	require.Equal(t, "zeta", defs[1].Name)
}

type stubReader struct{ files map[string]string }

func (r stubReader) Read(_ context.Context, path string) (string, error) {
	content, ok := r.files[path]
	if !ok {
		return "", errors.New("no such file")
	}
	return content, nil
}

func TestReadFileTool(t *testing.T) {
	tool := &ReadFileTool{Reader: stubReader{files: map[string]string{"a.txt": "hello"}}}

	res, err := tool.Execute(context.Background(), ports.ToolCall{Arguments: map[string]any{"path": "a.txt"}})
	require.NoError(t, err)
	require.Nil(t, res.Error)
	require.Equal(t, "hello", res.Content)

	res, err = tool.Execute(context.Background(), ports.ToolCall{Arguments: map[string]any{"path": "missing.txt"}})
	require.NoError(t, err)
	require.NotNil(t, res.Error)

	res, err = tool.Execute(context.Background(), ports.ToolCall{Arguments: nil})
	require.NoError(t, err)
	require.NotNil(t, res.Error)
}

func TestNowToolUsesInjectedClock(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tool := &NowTool{Clock: func() time.Time { return fixed }}

	res, err := tool.Execute(context.Background(), ports.ToolCall{})
	require.NoError(t, err)
	require.Equal(t, "2025-06-01T12:00:00Z", res.Content)
}
