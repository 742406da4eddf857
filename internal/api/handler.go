package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nbenliogludev/go-testcase-generator/internal/extract"
	"github.com/nbenliogludev/go-testcase-generator/internal/formatter"
	"github.com/nbenliogludev/go-testcase-generator/internal/generator"
)

type TestCaseGenerator interface {
	Generate(ctx context.Context, req generator.Request) (*extract.Result, error)
}

type CodeFormatter interface {
	Format(ctx context.Context, code string) formatter.Output
}

type Handler struct {
	gen    TestCaseGenerator
	chain  CodeFormatter
	local  formatter.Formatter
	logger *zap.Logger
}

// NewHandler wires the HTTP surface. local serves POST /format, which is the
// same contract the chain expects from a remote formatter.
func NewHandler(gen TestCaseGenerator, chain CodeFormatter, local formatter.Formatter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		gen:    gen,
		chain:  chain,
		local:  local,
		logger: logger.Named("api"),
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.health)
	r.HEAD("/health", h.health)
	r.POST("/", h.generateTest)
	r.POST("/generate-test", h.generateTest)
	r.POST("/format", h.format)
}

type generateRequest struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}

type generateResponse struct {
	Steps         []string `json:"steps"`
	Code          string   `json:"code"`
	FormattedCode string   `json:"formattedCode"`
	FileName      string   `json:"fileName"`
	Formatter     string   `json:"formatter"`
}

func (h *Handler) generateTest(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		return
	}

	ctx := c.Request.Context()
	result, err := h.gen.Generate(ctx, generator.Request{Description: req.Description, URL: req.URL})
	if err != nil {
		writeError(c, err)
		return
	}

	out := h.chain.Format(ctx, result.Code)
	if out.Degraded() {
		h.logger.Warn("returning unformatted or heuristically formatted code",
			zap.String("stage", string(out.Stage)),
			zap.String("request_id", c.GetString("request_id")),
		)
	}

	c.JSON(http.StatusOK, generateResponse{
		Steps:         result.Steps,
		Code:          result.Code,
		FormattedCode: out.Code,
		FileName:      formatter.FileName(out.Code),
		Formatter:     string(out.Stage),
	})
}

type formatRequest struct {
	Code string `json:"code"`
}

type formatResponse struct {
	Formatted string `json:"formatted"`
}

func (h *Handler) format(c *gin.Context) {
	var req formatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgCodeIsRequired})
		return
	}

	formatted, err := h.local.Format(c.Request.Context(), req.Code)
	if err != nil {
		var syntaxErr *formatter.SyntaxError
		if errors.As(err, &syntaxErr) {
			c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: syntaxErr.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "Code could not be formatted"})
		return
	}
	c.JSON(http.StatusOK, formatResponse{Formatted: formatted})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
