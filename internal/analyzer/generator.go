package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/BerylCAtieno/resume-insights-api/internal/models"
	"github.com/BerylCAtieno/resume-insights-api/internal/utils"
)

// ErrAnalysisUnavailable means no structured insight could be produced.
// Callers fall back to keyword analysis.
var ErrAnalysisUnavailable = errors.New("structured analysis unavailable")

const (
	DefaultMaxTokens   = 1200
	DefaultTemperature = 0.3
)

// Generator asks a completion service for a structured resume evaluation.
type Generator struct {
	completer   Completer
	logger      *utils.Logger
	maxTokens   int
	temperature float32
}

type GeneratorOption func(*Generator)

func WithMaxTokens(n int) GeneratorOption {
	return func(g *Generator) { g.maxTokens = n }
}

func WithTemperature(t float32) GeneratorOption {
	return func(g *Generator) { g.temperature = t }
}

func NewGenerator(completer Completer, logger *utils.Logger, opts ...GeneratorOption) *Generator {
	g := &Generator{
		completer:   completer,
		logger:      logger,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate makes exactly one completion call. Every failure, including a
// panic in the completer, is logged and reported as ErrAnalysisUnavailable.
func (g *Generator) Generate(ctx context.Context, text string) (insight *models.StructuredInsight, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Completion client panicked", "panic", fmt.Sprint(r))
			insight, err = nil, fmt.Errorf("%w: completion client panicked: %v", ErrAnalysisUnavailable, r)
		}
	}()

	raw, err := g.completer.Complete(ctx, CompletionRequest{
		Prompt:      BuildPrompt(text),
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		g.logger.Warn("Completion service call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}

	insight, err = ParseStructuredInsight(raw)
	if err != nil {
		g.logger.Warn("Failed to parse completion response", "error", err, "response_length", len(raw))
		return nil, fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}

	g.logger.Debug("Structured insight parsed", "response_length", len(raw))
	return insight, nil
}
