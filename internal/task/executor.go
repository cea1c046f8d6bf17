package task

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/pkoukk/tiktoken-go"

	"github.com/sexpruntime/core/internal/errtax"
	"github.com/sexpruntime/core/internal/logging"
	"github.com/sexpruntime/core/internal/ports"
	"github.com/sexpruntime/core/internal/result"
)

// DefaultModel is used when a template declares no PreferredModel.
const DefaultModel = "default"

// Executor runs a single atomic task invocation: substitute
// placeholders, call the LLM capability, optionally parse structured
// output.
type Executor struct {
	LLM    ports.LLMClient
	Logger logging.Logger
	// tokenEncoding holds the tiktoken encoder loaded by NewExecutor
	// (nil if it could not be loaded), used only to estimate token
	// counts when the LLM response omits Usage.
	tokenEncoding *tiktoken.Tiktoken
}

// NewExecutor constructs an Executor bound to an LLM capability.
func NewExecutor(llm ports.LLMClient, logger logging.Logger) *Executor {
	enc, _ := tiktoken.GetEncoding("cl100k_base")
	return &Executor{LLM: llm, Logger: logging.OrNop(logger), tokenEncoding: enc}
}

// Execute runs tmpl with the already-validated params (see
// ValidateAndNormalize), an optional tool set to expose to the LLM,
// and optional message history.
func (e *Executor) Execute(ctx context.Context, tmpl *Template, params map[string]any, tools []ports.ToolDefinition, history []ports.Message) result.Result {
	prompt, substErr := Substitute(tmpl.Instructions, tmpl, params)
	if substErr != nil {
		return result.Failed(substErr)
	}

	model := tmpl.PreferredModel
	if model == "" {
		model = DefaultModel
	}

	req := ports.CompletionRequest{
		Prompt:         prompt,
		Model:          model,
		Tools:          tools,
		MessageHistory: history,
	}
	if tmpl.OutputFormat != nil {
		req.OutputSchema = tmpl.OutputFormat.Schema
	}

	resp, err := e.LLM.Complete(ctx, req)
	if err != nil {
		e.Logger.Warn("llm call failed for task %s: %v", tmpl.Name, err)
		if ctx.Err() != nil {
			return result.Failed(errtax.New(errtax.KindTimeout, "deadline_exceeded", err.Error()))
		}
		return result.Failed(errtax.New(errtax.KindTaskFailure, "llm_call_failed", err.Error()))
	}

	notes := map[string]any{"model_used": model}
	if resp.Usage.TotalTokens > 0 {
		notes["tokens"] = resp.Usage.TotalTokens
	} else if e.tokenEncoding != nil {
		notes["tokens"] = len(e.tokenEncoding.Encode(resp.Content, nil, nil))
	}

	content := any(resp.Content)
	if tmpl.OutputFormat != nil && tmpl.OutputFormat.Type == OutputJSON {
		parsed, parseErr := parseStructured(resp.Content)
		if parseErr != nil {
			return result.Failed(errtax.InvalidOutput(resp.Content))
		}
		notes["parsed_content"] = parsed
	}

	r := result.Complete(content)
	r.Notes = notes
	return r
}

// parseStructured attempts strict JSON parsing, falling back to
// jsonrepair when the raw LLM text is close-but-malformed JSON —
// the common failure mode of model-generated structured output. Only
// text that opens as a JSON object or array is handed to jsonrepair;
// anything else is reported as the strict parse error.
func parseStructured(raw string) (any, error) {
	var parsed any
	strictErr := json.Unmarshal([]byte(raw), &parsed)
	if strictErr == nil {
		return parsed, nil
	}
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return nil, strictErr
	}
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}
