package ai

import (
	"context"

	"go.uber.org/zap"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenAi     = "openai"
	ProviderOpenRouter = "openrouter"
)

type GenerateRequest struct {
	Model             string
	SystemInstruction string
	Prompt            string
	Temperature       *float32
	EnableSearch      bool
}

// Source is one web citation attached to a grounded response.
// Either field may be empty when the backend omits it.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type GenerateResult struct {
	Text    string
	Sources []Source
}

type Generator interface {
	Generate(ctx context.Context, logger *zap.Logger, req GenerateRequest) (*GenerateResult, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, logger *zap.Logger, req GenerateRequest) (*GenerateResult, error)

func (f GeneratorFunc) Generate(ctx context.Context, logger *zap.Logger, req GenerateRequest) (*GenerateResult, error) {
	return f(ctx, logger, req)
}
