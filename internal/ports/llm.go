// Package ports declares the capability interfaces the Evaluator
// consumes: LLM calls, tool execution, context retrieval, and
// file reads. Concrete implementations — a real model provider, the
// repository indexer, the filesystem — are external collaborators; the
// core only ever depends on these interfaces.
package ports

import "context"

// LLMClient is a capability for invoking a language model.
type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Model() string
}

// CompletionRequest mirrors llm_call's parameters.
type CompletionRequest struct {
	Prompt         string
	Model          string
	Tools          []ToolDefinition
	OutputSchema   *SchemaRef
	MessageHistory []Message
	Metadata       map[string]any
}

// SchemaRef identifies a structured-output schema by name; resolving
// the reference to an actual schema is left to the embedding host.
type SchemaRef struct {
	Name string
}

// Message is one role-tagged entry in a conversation history.
type Message struct {
	Role    string
	Content string
}

// CompletionResponse is the LLM's response.
type CompletionResponse struct {
	Content    string
	ToolCalls  []ToolCall
	ParsedJSON any // populated when OutputSchema was requested and parsing succeeded
	Usage      TokenUsage
	Metadata   map[string]any
}

// TokenUsage tracks token consumption reported by the provider.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
