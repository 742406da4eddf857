package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrMissingAPIKey = errors.New("api key is not set")

// UpstreamError is a failed or empty provider response.
// StatusCode is zero when the request never got an HTTP response; Err then
// holds the transport cause, such as a cancelled context.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("%s API error: request failed - %s", e.Provider, e.Body)
	case e.StatusCode == http.StatusOK && e.Body == "":
		return fmt.Sprintf("No response from %s API", e.Provider)
	case e.Body == "":
		return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, http.StatusText(e.StatusCode))
	default:
		return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, e.Body)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }
