// Package task implements the Atomic Task Template and its Executor.
package task

import "github.com/sexpruntime/core/internal/ports"

// ParamType is a declared parameter's type tag.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamArray   ParamType = "array"
	ParamObject  ParamType = "object"
)

// Parameter declares one template parameter.
type Parameter struct {
	Name        string
	Type        ParamType
	Required    bool
	Default     any
	Description string
}

// OutputFormatType selects whether the executor should attempt to
// parse structured output.
type OutputFormatType string

const (
	OutputText OutputFormatType = "text"
	OutputJSON OutputFormatType = "json"
)

// OutputFormat declares how to interpret the LLM's raw response.
type OutputFormat struct {
	Type   OutputFormatType
	Schema *ports.SchemaRef
}

// Template is the declarative definition of an atomic task.
type Template struct {
	Name             string
	Subtype          string
	Description      string
	Parameters       []Parameter
	Instructions     string
	OutputFormat     *OutputFormat
	ContextRelevance map[string]bool // default: every parameter is relevant
	PreferredModel   string
	FilePaths        []string // context selection, precedence 2
	AutoContext      bool     // opt in to automatic Memory Facade retrieval
}

// CompositeKey is the Task Registry's secondary index key.
func (t *Template) CompositeKey() (string, bool) {
	if t.Subtype == "" {
		return "", false
	}
	return t.Name + ":" + t.Subtype, true
}

// Parameter looks up a declared parameter by name.
func (t *Template) Parameter(name string) (Parameter, bool) {
	for _, p := range t.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// RelevantParameters returns the parameter-name subset flagged
// context_relevance=true. With no ContextRelevance map at
// all, every declared parameter is relevant by default.
func (t *Template) RelevantParameters() []string {
	if t.ContextRelevance == nil {
		names := make([]string, len(t.Parameters))
		for i, p := range t.Parameters {
			names[i] = p.Name
		}
		return names
	}
	var names []string
	for _, p := range t.Parameters {
		if relevant, ok := t.ContextRelevance[p.Name]; !ok || relevant {
			names = append(names, p.Name)
		}
	}
	return names
}
