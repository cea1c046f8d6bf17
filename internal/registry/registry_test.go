package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sexpruntime/core/internal/ports"
	"github.com/sexpruntime/core/internal/result"
	"github.com/sexpruntime/core/internal/task"
)

type promptEcho struct{}

func (promptEcho) Model() string { return "echo" }
func (promptEcho) Complete(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	return &ports.CompletionResponse{Content: req.Prompt}, nil
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := New(Config{Executor: task.NewExecutor(promptEcho{}, nil)})
	require.NoError(t, err)
	return reg
}

func TestFindByNameAndCompositeKey(t *testing.T) {
	reg := newTestRegistry(t)
	reg.Register(&task.Template{Name: "summarize", Subtype: "code"})

	byName, ok := reg.Find("summarize")
	require.True(t, ok)
	require.Equal(t, "summarize", byName.Name)

	byComposite, ok := reg.Find("summarize:code")
	require.True(t, ok)
	require.Equal(t, "summarize", byComposite.Name)

	_, ok = reg.Find("nope")
	require.False(t, ok)
}

func TestReRegistrationReplacesTemplate(t *testing.T) {
	reg := newTestRegistry(t)
	reg.Register(&task.Template{Name: "greet", Instructions: "v1"})
	reg.Register(&task.Template{Name: "greet", Instructions: "v2"})

	tmpl, ok := reg.Find("greet")
	require.True(t, ok)
	require.Equal(t, "v2", tmpl.Instructions)
}

func TestExecuteRegisteredTemplate(t *testing.T) {
	reg := newTestRegistry(t)
	reg.Register(&task.Template{
		Name:         "greet",
		Instructions: "Hello, {{name}}!",
		Parameters:   []task.Parameter{{Name: "name", Type: task.ParamString, Required: true}},
	})

	res := reg.Execute(context.Background(), "greet", map[string]any{"name": "Ada"}, nil, nil)
	require.Equal(t, result.StatusComplete, res.Status)
	require.Equal(t, "Hello, Ada!", res.Content)
}

func TestExecuteValidatesRequiredParameters(t *testing.T) {
	reg := newTestRegistry(t)
	reg.Register(&task.Template{
		Name:         "greet",
		Instructions: "Hello, {{name}}!",
		Parameters:   []task.Parameter{{Name: "name", Type: task.ParamString, Required: true}},
	})

	res := reg.Execute(context.Background(), "greet", nil, nil, nil)
	require.Equal(t, result.StatusFailed, res.Status)
	require.Equal(t, "missing_parameter", res.Error.Reason)
}

func TestExecuteUnknownTemplate(t *testing.T) {
	reg := newTestRegistry(t)
	res := reg.Execute(context.Background(), "ghost", nil, nil, nil)
	require.Equal(t, result.StatusFailed, res.Status)
	require.Equal(t, "TemplateNotFound", string(res.Error.Kind))
}
