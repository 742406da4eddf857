package formatter

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

type Stage string

const (
	StageLocal     Stage = "local"
	StageRemote    Stage = "remote"
	StageHeuristic Stage = "heuristic"
	StageNone      Stage = "none"
)

var formatStageTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "testgen_formatter_stage_total",
		Help: "Formatted listings by the chain stage that produced them.",
	},
	[]string{"stage"},
)

// Formatter pretty-prints Java source or reports why it could not.
type Formatter interface {
	Format(ctx context.Context, code string) (string, error)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(ctx context.Context, code string) (string, error)

func (f FormatterFunc) Format(ctx context.Context, code string) (string, error) {
	return f(ctx, code)
}

// Output is what the chain hands back to callers. It never carries an error.
type Output struct {
	Code  string
	Stage Stage
}

// Degraded reports whether the syntax-aware stages were all unavailable.
func (o Output) Degraded() bool {
	return o.Stage == StageHeuristic || o.Stage == StageNone
}

type stage struct {
	name Stage
	f    Formatter
}

// Chain tries the local engine, then the remote service, then a regex
// heuristic.
type Chain struct {
	stages []stage
	logger *zap.Logger
}

// NewChain builds a chain. local or remote may be nil to skip that stage.
func NewChain(local, remote Formatter, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Chain{logger: logger.Named("formatter")}
	if local != nil {
		c.stages = append(c.stages, stage{StageLocal, local})
	}
	if remote != nil {
		c.stages = append(c.stages, stage{StageRemote, remote})
	}
	return c
}

func (c *Chain) Format(ctx context.Context, code string) Output {
	decoded := DecodeEscapes(code)
	if decoded == "" {
		formatStageTotal.WithLabelValues(string(StageNone)).Inc()
		return Output{Code: "", Stage: StageNone}
	}

	for _, s := range c.stages {
		out, err := c.try(ctx, s, decoded)
		if err != nil {
			c.logger.Debug("formatter stage failed",
				zap.String("stage", string(s.name)),
				zap.Error(err),
			)
			continue
		}
		formatStageTotal.WithLabelValues(string(s.name)).Inc()
		return Output{Code: out, Stage: s.name}
	}

	c.logger.Warn("formatting degraded, using heuristic line breaks",
		zap.Int("stages_tried", len(c.stages)),
		zap.Int("code_length", len(decoded)),
	)

	if out := Heuristic(decoded); out != "" {
		formatStageTotal.WithLabelValues(string(StageHeuristic)).Inc()
		return Output{Code: out, Stage: StageHeuristic}
	}
	formatStageTotal.WithLabelValues(string(StageNone)).Inc()
	return Output{Code: decoded, Stage: StageNone}
}

func (c *Chain) try(ctx context.Context, s stage, code string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s formatter panicked: %v", s.name, r)
		}
	}()
	out, err = s.f.Format(ctx, code)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("%s formatter returned empty output", s.name)
	}
	return out, nil
}

var escapeReplacer = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\"`, `"`)

// DecodeEscapes turns literal \n, \t and \" sequences left over from JSON
// double-encoding into the characters they stand for, then trims. Code that
// already has real line breaks is left alone so escapes inside Java string
// literals survive.
func DecodeEscapes(code string) string {
	if doubleEncoded(code) {
		code = escapeReplacer.Replace(code)
	}
	return strings.TrimSpace(code)
}

// doubleEncoded reports a blob with literal \n sequences and no real newline.
func doubleEncoded(code string) bool {
	return !strings.Contains(code, "\n") && strings.Contains(code, `\n`)
}
