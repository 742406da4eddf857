package extract

import (
	"fmt"
	"strings"
)

// ExtractionError means no strategy produced a JSON object.
type ExtractionError struct {
	Raw string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to parse model response: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// SchemaError means a JSON object was recovered but lacks usable fields.
type SchemaError struct {
	Parsed  map[string]any
	Missing []string
}

func (e *SchemaError) Error() string {
	return "invalid response format: missing or empty " + strings.Join(e.Missing, ", ")
}
