package task

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func greetTemplate() *Template {
	return &Template{
		Name:         "greet",
		Instructions: "Hello, {{name}}!",
		Parameters: []Parameter{
			{Name: "name", Type: ParamString, Required: true},
		},
	}
}

func TestSubstituteBasic(t *testing.T) {
	tmpl := greetTemplate()
	out, err := Substitute(tmpl.Instructions, tmpl, map[string]any{"name": "Ada"})
	require.Nil(t, err)
	require.Equal(t, "Hello, Ada!", out)
}

func TestSubstituteNestedAttribute(t *testing.T) {
	tmpl := &Template{
		Name:         "report",
		Instructions: "Subject: {{issue.title}}",
		Parameters:   []Parameter{{Name: "issue", Type: ParamObject}},
	}
	out, err := Substitute(tmpl.Instructions, tmpl, map[string]any{
		"issue": map[string]any{"title": "crash on startup"},
	})
	require.Nil(t, err)
	require.Equal(t, "Subject: crash on startup", out)
}

func TestSubstituteMissingNestedAttributeIsUnresolved(t *testing.T) {
	tmpl := &Template{
		Name:         "report",
		Instructions: "{{issue.nonexistent}}",
		Parameters:   []Parameter{{Name: "issue", Type: ParamObject}},
	}
	_, err := Substitute(tmpl.Instructions, tmpl, map[string]any{
		"issue": map[string]any{"title": "x"},
	})
	require.NotNil(t, err)
	require.Equal(t, "unresolved_placeholder", err.Reason)
}

func TestSubstituteUndeclaredPlaceholder(t *testing.T) {
	tmpl := greetTemplate()
	_, err := Substitute("Hi {{stranger}}", tmpl, map[string]any{"name": "Ada"})
	require.NotNil(t, err)
	require.Equal(t, "unresolved_placeholder", err.Reason)
	require.Contains(t, err.Details["placeholder"], "stranger")
}

func TestSubstituteFallsBackToDefault(t *testing.T) {
	tmpl := &Template{
		Name:         "greet",
		Instructions: "Hello, {{name}}!",
		Parameters:   []Parameter{{Name: "name", Type: ParamString, Default: "world"}},
	}
	out, err := Substitute(tmpl.Instructions, tmpl, nil)
	require.Nil(t, err)
	require.Equal(t, "Hello, world!", out)
}

func TestSubstituteIsSinglePass(t *testing.T) {
	// A bound value containing {{...}} must not be re-expanded.
	tmpl := greetTemplate()
	out, err := Substitute(tmpl.Instructions, tmpl, map[string]any{"name": "{{name}}"})
	require.Nil(t, err)
	require.Equal(t, "Hello, {{name}}!", out)
}

func TestValidateMissingRequiredParameter(t *testing.T) {
	tmpl := greetTemplate()
	_, err := ValidateAndNormalize(tmpl, nil)
	require.NotNil(t, err)
	require.Equal(t, "missing_parameter", err.Reason)
	require.Equal(t, "name", err.Details["parameter"])
}

func TestValidateTypeMismatch(t *testing.T) {
	tmpl := greetTemplate()
	_, err := ValidateAndNormalize(tmpl, map[string]any{"name": int64(5)})
	require.NotNil(t, err)
	require.Equal(t, "type_error", err.Reason)
	require.Equal(t, "name", err.Details["parameter"])
	require.Equal(t, "string", err.Details["expected"])
	require.Equal(t, "integer", err.Details["actual"])
}

func TestValidateAppliesDefault(t *testing.T) {
	tmpl := &Template{
		Name: "count",
		Parameters: []Parameter{
			{Name: "limit", Type: ParamInteger, Default: int64(10)},
		},
	}
	normalized, err := ValidateAndNormalize(tmpl, nil)
	require.Nil(t, err)
	require.Equal(t, int64(10), normalized["limit"])
}

func TestExtractPlaceholderNames(t *testing.T) {
	names := ExtractPlaceholderNames("{{a}} and {{b.attr}} and {{a}} again")
	require.Equal(t, []string{"a", "b"}, names)
}

func TestRelevantParametersDefaultsToAll(t *testing.T) {
	tmpl := &Template{Parameters: []Parameter{{Name: "a"}, {Name: "b"}}}
	require.Equal(t, []string{"a", "b"}, tmpl.RelevantParameters())

	tmpl.ContextRelevance = map[string]bool{"a": false}
	require.Equal(t, []string{"b"}, tmpl.RelevantParameters())
}
