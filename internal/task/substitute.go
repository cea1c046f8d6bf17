package task

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/sexpruntime/core/internal/errtax"
)

// placeholderPattern matches {{name}} or {{name.attr}}. Substitution
// is single-pass and textual: no nested expansion, no filters, no
// conditionals.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)(?:\.([A-Za-z_][A-Za-z0-9_]*))?\s*\}\}`)

// Substitute replaces every {{name}} / {{name.attr}} in instructions
// with the stringified bound value from params. Every placeholder
// name must match a declared parameter (or a nested attribute of one);
// an unknown placeholder is an unresolved_placeholder ArgumentError.
func Substitute(instructions string, tmpl *Template, params map[string]any) (string, *errtax.Error) {
	var substErr *errtax.Error
	result := placeholderPattern.ReplaceAllStringFunc(instructions, func(match string) string {
		if substErr != nil {
			return match
		}
		sub := placeholderPattern.FindStringSubmatch(match)
		name, attr := sub[1], sub[2]

		if _, declared := tmpl.Parameter(name); !declared {
			substErr = errtax.UnresolvedPlaceholder(match)
			return match
		}

		val, bound := params[name]
		if !bound {
			// Not supplied: fall back to the declared default, if any.
			if p, _ := tmpl.Parameter(name); p.Default != nil {
				val = p.Default
			}
		}

		if attr != "" {
			nested, ok := attributeOf(val, attr)
			if !ok {
				substErr = errtax.UnresolvedPlaceholder(match)
				return match
			}
			val = nested
		}
		return stringify(val)
	})
	if substErr != nil {
		return "", substErr
	}
	return result, nil
}

// attributeOf resolves a nested attribute of an object-typed value
// (a map[string]any), the only shape {{name.attr}} is defined over.
func attributeOf(val any, attr string) (any, bool) {
	m, ok := val.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[attr]
	return v, ok
}

func stringify(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ValidateAndNormalize checks the supplied params against tmpl's
// declared parameters, applying defaults and enforcing required/type
// constraints. Returns the normalized
// parameter map, or an ArgumentError.
func ValidateAndNormalize(tmpl *Template, params map[string]any) (map[string]any, *errtax.Error) {
	normalized := make(map[string]any, len(tmpl.Parameters))
	for _, p := range tmpl.Parameters {
		val, supplied := params[p.Name]
		if !supplied {
			if p.Required {
				return nil, errtax.MissingParameter(p.Name)
			}
			if p.Default != nil {
				normalized[p.Name] = p.Default
			}
			continue
		}
		if !typeMatches(p.Type, val) {
			return nil, errtax.TypeMismatch(p.Name, string(p.Type), goTypeName(val))
		}
		normalized[p.Name] = val
	}
	return normalized, nil
}

func typeMatches(t ParamType, val any) bool {
	switch t {
	case ParamString:
		_, ok := val.(string)
		return ok
	case ParamInteger:
		switch val.(type) {
		case int, int64:
			return true
		}
		return false
	case ParamNumber:
		switch val.(type) {
		case int, int64, float64:
			return true
		}
		return false
	case ParamBoolean:
		_, ok := val.(bool)
		return ok
	case ParamArray:
		switch val.(type) {
		case []any:
			return true
		}
		return false
	case ParamObject:
		_, ok := val.(map[string]any)
		return ok
	default:
		return true
	}
}

func goTypeName(val any) string {
	switch val.(type) {
	case string:
		return "string"
	case int, int64:
		return "integer"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", val)
	}
}

// ExtractPlaceholderNames returns the parameter names referenced by
// {{...}} placeholders in instructions, without validating them
// against a template — used by defatom to check declared params cover
// every placeholder at registration time.
func ExtractPlaceholderNames(instructions string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(instructions, -1)
	seen := make(map[string]bool, len(matches))
	var names []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
