package extract

import "strings"

const (
	FieldSteps = "steps"
	FieldCode  = "code"
)

// Validate checks that obj carries a non-empty list of string steps and a
// non-empty code string. Steps are trimmed and blank ones dropped.
func Validate(obj map[string]any) (*Result, error) {
	var missing []string

	steps, ok := stringSteps(obj[FieldSteps])
	if !ok || len(steps) == 0 {
		missing = append(missing, FieldSteps)
	}

	code, ok := obj[FieldCode].(string)
	if !ok || strings.TrimSpace(code) == "" {
		missing = append(missing, FieldCode)
	}

	if len(missing) > 0 {
		return nil, &SchemaError{Parsed: obj, Missing: missing}
	}
	return &Result{Steps: steps, Code: code}, nil
}

func stringSteps(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	steps := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}
	return steps, true
}
