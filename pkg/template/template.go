// Package template renders workflow action configuration against execution
// data, so configs can reference entity and event fields like
// "{{.customer.email}}".
package template

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// Render executes templateStr against data and coerces the result: JSON-shaped
// output is decoded, numeric and boolean output is typed, everything else is
// returned as a string.
func Render(templateStr string, data any) (any, error) {
	result, err := RenderString(templateStr, data)
	if err != nil {
		return nil, err
	}

	result = strings.TrimSpace(result)
	if (strings.HasPrefix(result, "{") && strings.HasSuffix(result, "}")) ||
		(strings.HasPrefix(result, "[") && strings.HasSuffix(result, "]")) {
		var jsonResult any

		if err := json.Unmarshal([]byte(result), &jsonResult); err == nil {
			return jsonResult, nil
		}
	}

	if num, err := strconv.ParseFloat(result, 64); err == nil {
		return num, nil
	}

	if b, err := strconv.ParseBool(result); err == nil {
		return b, nil
	}

	return result, nil
}

// RenderString executes templateStr against data and returns the raw output.
func RenderString(templateStr string, data any) (string, error) {
	tmpl, err := template.
		New("config").
		Option("missingkey=zero").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
		}).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template '%s': %w", templateStr, err)
	}

	var buf strings.Builder

	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template '%s': %w", templateStr, err)
	}

	// missingkey=zero prints "<no value>" for nil map values.
	return strings.ReplaceAll(buf.String(), "<no value>", ""), nil
}

// RenderMap renders every templated string inside config, recursing through
// nested maps and slices. Non-string leaves pass through unchanged.
func RenderMap(config map[string]any, data any) (map[string]any, error) {
	rendered, err := renderValue(config, data)
	if err != nil {
		return nil, err
	}

	out, ok := rendered.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("rendered config is not a map")
	}

	return out, nil
}

func renderValue(value any, data any) (any, error) {
	switch v := value.(type) {
	case string:
		if !strings.Contains(v, "{{") {
			return v, nil
		}

		return RenderString(v, data)
	case map[string]any:
		out := make(map[string]any, len(v))

		for key, item := range v {
			rendered, err := renderValue(item, data)
			if err != nil {
				return nil, err
			}

			out[key] = rendered
		}

		return out, nil
	case []any:
		out := make([]any, len(v))

		for i, item := range v {
			rendered, err := renderValue(item, data)
			if err != nil {
				return nil, err
			}

			out[i] = rendered
		}

		return out, nil
	default:
		return value, nil
	}
}
