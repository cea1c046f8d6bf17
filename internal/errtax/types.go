// Package errtax implements the Error Taxonomy: tagged error kinds
// with structured details, and their conversion into failed Results.
// The retry/circuit-breaker helpers are for use by reference
// capability adapters — the DSL's own Task Executor never retries.
package errtax

import "fmt"

// Kind classifies a runtime error. The DSL core never invents a kind
// outside this set.
type Kind string

const (
	KindParseError       Kind = "ParseError"
	KindUndefinedSymbol  Kind = "UndefinedSymbol"
	KindArgumentError    Kind = "ArgumentError"
	KindTypeError        Kind = "TypeError"
	KindTaskFailure      Kind = "TaskFailure"
	KindToolFailure      Kind = "ToolFailure"
	KindTemplateNotFound Kind = "TemplateNotFound"
	KindIterationLimit   Kind = "IterationLimit"
	KindTimeout          Kind = "Timeout"
	KindInternal         Kind = "Internal"
)

// Error is the structured error object carried by a FAILED Result.
type Error struct {
	Kind       Kind
	Reason     string
	Details    map[string]any
	Message    string
	Expression string // source expression that caused the failure, if any
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// New constructs an Error, lazily allocating Details.
func New(kind Kind, reason, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message}
}

// WithDetail attaches a key/value pair to Details and returns e for
// chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithExpression records the offending source expression.
func (e *Error) WithExpression(expr string) *Error {
	e.Expression = expr
	return e
}

// ParseError builds a KindParseError with 1-based line/col details.
func ParseError(message string, line, col int) *Error {
	return New(KindParseError, "syntax_error", message).
		WithDetail("line", line).
		WithDetail("column", col)
}

// UndefinedSymbol builds a KindUndefinedSymbol error naming the symbol
// and the full expression it appeared in.
func UndefinedSymbol(symbol, expression string) *Error {
	return New(KindUndefinedSymbol, "undefined_symbol",
		fmt.Sprintf("undefined symbol: %s", symbol)).
		WithDetail("symbol", symbol).
		WithExpression(expression)
}

// ArityMismatch builds a KindArgumentError for a closure application
// with the wrong argument count.
func ArityMismatch(expected, actual int) *Error {
	return New(KindArgumentError, "arity_mismatch", "argument count mismatch").
		WithDetail("expected", expected).
		WithDetail("actual", actual)
}

// MissingParameter builds a KindArgumentError for a required template
// parameter that was not supplied.
func MissingParameter(parameter string) *Error {
	return New(KindArgumentError, "missing_parameter",
		fmt.Sprintf("missing required parameter %q", parameter)).
		WithDetail("parameter", parameter)
}

// UnresolvedPlaceholder builds a KindArgumentError for a `{{name}}`
// placeholder that does not match any declared parameter.
func UnresolvedPlaceholder(placeholder string) *Error {
	return New(KindArgumentError, "unresolved_placeholder",
		fmt.Sprintf("unresolved placeholder %q", placeholder)).
		WithDetail("placeholder", placeholder)
}

// TypeMismatch builds a KindArgumentError for a parameter supplied
// with the wrong declared type.
func TypeMismatch(parameter, expected, actual string) *Error {
	return New(KindArgumentError, "type_error", "parameter type mismatch").
		WithDetail("parameter", parameter).
		WithDetail("expected", expected).
		WithDetail("actual", actual)
}

// TemplateNotFound builds a KindTemplateNotFound error for a dispatch
// identifier that matched neither task registry nor tool surface.
func TemplateNotFound(identifier string) *Error {
	return New(KindTemplateNotFound, "not_found",
		fmt.Sprintf("no template or tool named %q", identifier)).
		WithDetail("identifier", identifier)
}

// MalformedControllerDecision builds a KindTaskFailure for a loop
// controller that returned anything but (continue v) / (stop v).
func MalformedControllerDecision() *Error {
	return New(KindTaskFailure, "malformed_controller_decision",
		"controller must return (continue new-input) or (stop value)")
}

// InvalidOutput builds a KindTaskFailure for unparsable structured
// output from the LLM capability.
func InvalidOutput(raw string) *Error {
	return New(KindTaskFailure, "invalid_output", "failed to parse structured output").
		WithDetail("raw_content", raw)
}
