package generator

import "fmt"

// ConfigurationError is returned for every request while the provider
// credential is missing.
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Key != "" {
		return e.Key + " is not set"
	}
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ResponseFormatError wraps extract.ExtractionError or extract.SchemaError.
type ResponseFormatError struct {
	Raw string
	Err error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("unusable model response: %v", e.Err)
}

func (e *ResponseFormatError) Unwrap() error { return e.Err }
