package dispatcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sexpruntime/core/internal/evaluator"
	"github.com/sexpruntime/core/internal/ports"
	"github.com/sexpruntime/core/internal/registry"
	"github.com/sexpruntime/core/internal/result"
	"github.com/sexpruntime/core/internal/task"
)

// captureLLM records the prompt so tests can observe which file_context
// made it into the substituted instructions.
type captureLLM struct{ prompt string }

func (c *captureLLM) Model() string { return "capture" }

func (c *captureLLM) Complete(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	c.prompt = req.Prompt
	return &ports.CompletionResponse{Content: "done"}, nil
}

type fixedMemory struct {
	summary string
	queried bool
}

func (m *fixedMemory) LookupContext(ctx context.Context, fragments map[string]string, maxTokens int) (ports.ContextResult, error) {
	m.queried = true
	return ports.ContextResult{Summary: m.summary}, nil
}

func contextTemplate() *task.Template {
	return &task.Template{
		Name:         "review",
		Instructions: "Review {{topic}} using: {{file_context}}",
		Parameters: []task.Parameter{
			{Name: "topic", Type: task.ParamString, Required: true},
			{Name: "file_context", Type: task.ParamString},
		},
	}
}

func newContextDispatcher(t *testing.T, tmpl *task.Template, mem ports.MemoryFacade) (*Dispatcher, *captureLLM) {
	t.Helper()
	llm := &captureLLM{}
	reg, err := registry.New(registry.Config{Executor: task.NewExecutor(llm, nil)})
	require.NoError(t, err)
	reg.Register(tmpl)
	ev := evaluator.New(evaluator.Config{Registry: reg, Memory: mem})
	return New(ev, reg, nil, mem, nil, nil), llm
}

func TestExplicitFileContextWins(t *testing.T) {
	mem := &fixedMemory{summary: "from memory"}
	tmpl := contextTemplate()
	tmpl.FilePaths = []string{"a.go"}
	tmpl.AutoContext = true
	d, llm := newContextDispatcher(t, tmpl, mem)

	res := d.Dispatch(context.Background(), "review", map[string]any{
		"topic":        "parser",
		"file_context": "explicit context",
	}, Flags{}, nil)

	require.Equal(t, result.StatusComplete, res.Status)
	require.Contains(t, llm.prompt, "explicit context")
	require.False(t, mem.queried)
}

func TestTemplateFilePathsBeatAutomaticLookup(t *testing.T) {
	mem := &fixedMemory{summary: "from memory"}
	tmpl := contextTemplate()
	tmpl.FilePaths = []string{"internal/parser/parser.go", "internal/ast/node.go"}
	tmpl.AutoContext = true
	d, llm := newContextDispatcher(t, tmpl, mem)

	res := d.Dispatch(context.Background(), "review", map[string]any{"topic": "parser"}, Flags{}, nil)

	require.Equal(t, result.StatusComplete, res.Status)
	require.Contains(t, llm.prompt, "internal/parser/parser.go")
	require.False(t, mem.queried)
}

func TestAutomaticLookupRequiresOptIn(t *testing.T) {
	mem := &fixedMemory{summary: "from memory"}
	d, llm := newContextDispatcher(t, contextTemplate(), mem)

	res := d.Dispatch(context.Background(), "review", map[string]any{"topic": "parser"}, Flags{}, nil)

	require.Equal(t, result.StatusComplete, res.Status)
	require.False(t, mem.queried)
	require.NotContains(t, llm.prompt, "from memory")
}

func TestAutomaticLookupWhenTemplateOptsIn(t *testing.T) {
	mem := &fixedMemory{summary: "from memory"}
	tmpl := contextTemplate()
	tmpl.AutoContext = true
	d, llm := newContextDispatcher(t, tmpl, mem)

	res := d.Dispatch(context.Background(), "review", map[string]any{"topic": "parser"}, Flags{}, nil)

	require.Equal(t, result.StatusComplete, res.Status)
	require.True(t, mem.queried)
	require.Contains(t, llm.prompt, "from memory")
}
