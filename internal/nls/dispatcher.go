package nls

import (
	"context"

	"github.com/chuyenmonc1nhuhan/nls/internal/ai"
	"go.uber.org/zap"
)

const (
	DefaultTemperature float32 = 0.7

	emptyLessonPlan = "Không có nội dung."
	emptyAssessment = "Không có nội dung đánh giá."
)

type Options struct {
	Model string
	// Temperature applies to activity suggestions only. Nil means DefaultTemperature.
	Temperature *float32
	// EnableSearch grounds activity suggestions on web search and appends the cited sources.
	EnableSearch bool
}

// Dispatcher turns lesson inputs into prompts and forwards them to one backend.
// It holds no per-call state and is safe for concurrent use when the generator is.
type Dispatcher struct {
	generator ai.Generator
	opts      Options
}

// New builds a Dispatcher. A nil generator means no credential was configured,
// so every operation fails with ConfigurationError before touching the network.
func New(generator ai.Generator, opts Options) *Dispatcher {
	if opts.Temperature == nil {
		temperature := DefaultTemperature
		opts.Temperature = &temperature
	}
	return &Dispatcher{generator: generator, opts: opts}
}

func (d *Dispatcher) Model() string {
	return d.opts.Model
}

func (d *Dispatcher) SuggestActivity(ctx context.Context, logger *zap.Logger, in LessonInput) (string, error) {
	if d.generator == nil {
		return "", newConfigurationError(OpSuggestion)
	}
	system, prompt, err := SuggestionPrompt(in)
	if err != nil {
		return "", d.fail(logger, OpSuggestion, err)
	}
	temperature := *d.opts.Temperature
	res, err := d.generator.Generate(ctx, logger, ai.GenerateRequest{
		Model:             d.opts.Model,
		SystemInstruction: system,
		Prompt:            prompt,
		Temperature:       &temperature,
		EnableSearch:      d.opts.EnableSearch,
	})
	if err != nil {
		return "", d.fail(logger, OpSuggestion, err)
	}
	if !d.opts.EnableSearch {
		return res.Text, nil
	}
	return res.Text + FormatSources(res.Sources), nil
}

func (d *Dispatcher) DraftLessonPlan(ctx context.Context, logger *zap.Logger, req LessonPlanRequest) (string, error) {
	if d.generator == nil {
		return "", newConfigurationError(OpLessonPlan)
	}
	prompt, err := LessonPlanPrompt(req)
	if err != nil {
		return "", d.fail(logger, OpLessonPlan, err)
	}
	res, err := d.generator.Generate(ctx, logger, ai.GenerateRequest{Model: d.opts.Model, Prompt: prompt})
	if err != nil {
		return "", d.fail(logger, OpLessonPlan, err)
	}
	if res.Text == "" {
		return emptyLessonPlan, nil
	}
	return res.Text, nil
}

func (d *Dispatcher) IntegrateCompetencies(ctx context.Context, logger *zap.Logger, req IntegrationRequest) (string, error) {
	if d.generator == nil {
		return "", newConfigurationError(OpIntegration)
	}
	prompt, err := IntegrationPrompt(req)
	if err != nil {
		return "", d.fail(logger, OpIntegration, err)
	}
	res, err := d.generator.Generate(ctx, logger, ai.GenerateRequest{Model: d.opts.Model, Prompt: prompt})
	if err != nil {
		return "", d.fail(logger, OpIntegration, err)
	}
	return StripMarkdownFence(res.Text), nil
}

func (d *Dispatcher) GenerateAssessment(ctx context.Context, logger *zap.Logger, req AssessmentRequest) (string, error) {
	if d.generator == nil {
		return "", newConfigurationError(OpAssessment)
	}
	prompt, err := AssessmentPrompt(req)
	if err != nil {
		return "", d.fail(logger, OpAssessment, err)
	}
	res, err := d.generator.Generate(ctx, logger, ai.GenerateRequest{Model: d.opts.Model, Prompt: prompt})
	if err != nil {
		return "", d.fail(logger, OpAssessment, err)
	}
	if res.Text == "" {
		return emptyAssessment, nil
	}
	return res.Text, nil
}

func (d *Dispatcher) fail(logger *zap.Logger, op Operation, err error) error {
	upstream := newUpstreamError(op, err)
	logger.Error("nls generation failed",
		zap.String("operation", string(op)),
		zap.String("model", d.opts.Model),
		zap.Error(err),
	)
	return upstream
}
