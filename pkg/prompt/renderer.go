// Package prompt renders stored prompt templates. Templates use a
// lightweight placeholder syntax: {{ name }} substitutes a scalar
// variable, {{ name['key'] }} substitutes a key of a map variable.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)(?:\[['"]([^'"]+)['"]\])?\s*\}\}`)

// MissingVarError reports a placeholder with no matching variable.
type MissingVarError struct {
	Name string
}

func (e *MissingVarError) Error() string {
	return fmt.Sprintf("prompt: missing template variable %q", e.Name)
}

// Render substitutes every placeholder in template from vars. A scalar
// variable must be a string; a subscripted one must be a map with string
// keys. Unknown placeholders fail rather than render as literal braces
// into a model prompt.
func Render(template string, vars map[string]any) (string, error) {
	var missing *MissingVarError

	out := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		name, key := groups[1], groups[2]

		value, ok := vars[name]
		if !ok {
			if missing == nil {
				missing = &MissingVarError{Name: name}
			}
			return match
		}

		if key == "" {
			if s, ok := value.(string); ok {
				return s
			}
			return fmt.Sprintf("%v", value)
		}

		switch m := value.(type) {
		case map[string]string:
			if s, ok := m[key]; ok {
				return s
			}
		case map[string]any:
			// JSON-decoded variables arrive as map[string]any.
			if v, ok := m[key]; ok {
				return fmt.Sprintf("%v", v)
			}
		}
		// Subscript into a non-map or an absent key keeps the literal
		// placeholder; only wholly unknown variables are an error.
		return match
	})

	if missing != nil {
		return "", missing
	}
	return out, nil
}

// Placeholders lists the distinct variable names referenced by template,
// in order of first appearance. Used to validate stored expected_vars.
func Placeholders(template string) []string {
	seen := map[string]bool{}
	var names []string
	for _, groups := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[groups[1]] {
			seen[groups[1]] = true
			names = append(names, groups[1])
		}
	}
	return names
}

// StripCodeFence removes a markdown code fence wrapping around raw model
// output, e.g. ```json ... ```. Models add these even when asked for
// bare JSON.
func StripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "text", or empty).
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
