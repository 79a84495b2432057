package commands

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/pixil98/go-inventory/internal/display"
)

// templateFuncs provides utility functions for templates.
var templateFuncs = sprig.TxtFuncMap()

// ExpandTemplate expands a template string using the provided data.
// The data can be any struct - templates access fields via {{ .FieldName }}.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	if !strings.Contains(tmplStr, "{{") {
		return tmplStr, nil
	}

	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

// InputContext is used for the first expansion pass: config values that reference inputs.
type InputContext struct {
	Inputs map[string]any
}

// expandConfig expands string config values against the parsed inputs.
// Keys ending in "message" are left for the handler to expand with its results.
func expandConfig(config map[string]any, inputs map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(config))
	ctx := &InputContext{Inputs: inputs}

	for k, v := range config {
		s, ok := v.(string)
		if !ok {
			out[k] = fmt.Sprint(v)
			continue
		}
		if strings.HasSuffix(k, "message") {
			out[k] = s
			continue
		}
		expanded, err := ExpandTemplate(s, ctx)
		if err != nil {
			return nil, fmt.Errorf("config %q: %w", k, err)
		}
		// Optional inputs the player left out render empty.
		out[k] = strings.ReplaceAll(expanded, "<no value>", "")
	}
	return out, nil
}

// validateTemplate checks that config[key], when present, is a string that parses.
func validateTemplate(config map[string]any, key string) error {
	v, ok := config[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%s must be a string", key)
	}
	if _, err := template.New(key).Funcs(templateFuncs).Parse(s); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// requireString checks that config[key] is a non-empty string.
func requireString(config map[string]any, key string) error {
	s, ok := config[key].(string)
	if !ok || s == "" {
		return fmt.Errorf("%s is required", key)
	}
	return nil
}

// render expands the message template stored under key, or fallback when the
// command does not override it. The result starts with a capital letter.
func render(cmdCtx *CommandContext, key string, fallback string, data any) (string, error) {
	tmpl := fallback
	if s, ok := cmdCtx.Config[key]; ok && s != "" {
		tmpl = s
	}
	msg, err := ExpandTemplate(tmpl, data)
	if err != nil {
		return "", err
	}
	return display.Capitalize(msg), nil
}
