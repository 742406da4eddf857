package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nbenliogludev/go-testcase-generator/internal/extract"
	"github.com/nbenliogludev/go-testcase-generator/internal/generator"
	"github.com/nbenliogludev/go-testcase-generator/internal/llm"
)

const (
	msgInvalidBody    = "Invalid request body"
	msgParseFailed    = "Failed to parse AI response, please try again"
	msgInvalidFormat  = "Invalid response format from AI, please try again"
	msgUnexpected     = "An unexpected error occurred"
	msgCodeIsRequired = "Code is required"
)

type errorResponse struct {
	Error       string `json:"error"`
	RawResponse any    `json:"rawResponse,omitempty"`
	ParseError  string `json:"parseError,omitempty"`
}

// writeError maps domain errors to status codes. Details beyond the message
// are only included for response format failures.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		configErr     *generator.ConfigurationError
		validationErr *generator.ValidationError
		upstreamErr   *llm.UpstreamError
		formatErr     *generator.ResponseFormatError
	)

	switch {
	case errors.As(err, &configErr):
		c.JSON(http.StatusInternalServerError, errorResponse{Error: configErr.Error()})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: validationErr.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, errorResponse{Error: "Request timed out"})
	case errors.As(err, &upstreamErr):
		c.JSON(http.StatusBadGateway, errorResponse{Error: upstreamErr.Error()})
	case errors.As(err, &formatErr):
		writeFormatError(c, formatErr)
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msgUnexpected})
	}
}

func writeFormatError(c *gin.Context, err *generator.ResponseFormatError) {
	var schemaErr *extract.SchemaError
	if errors.As(err, &schemaErr) {
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error:       msgInvalidFormat,
			RawResponse: schemaErr.Parsed,
		})
		return
	}

	resp := errorResponse{Error: msgParseFailed, RawResponse: err.Raw}
	var extractionErr *extract.ExtractionError
	if errors.As(err, &extractionErr) && extractionErr.Err != nil {
		resp.ParseError = extractionErr.Err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}
