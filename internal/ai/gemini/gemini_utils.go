package gemini

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chuyenmonc1nhuhan/nls/internal/ai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

var tracer = otel.Tracer("internal/ai/gemini")

func Open(ctx context.Context, apiKey string, httpClient *http.Client) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Generator struct {
	models contentGenerator
}

func NewGenerator(client *genai.Client) *Generator {
	return &Generator{models: client.Models}
}

func (g *Generator) Generate(ctx context.Context, logger *zap.Logger, req ai.GenerateRequest) (*ai.GenerateResult, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}
	ctx, span := tracer.Start(ctx, "gemini.GenerateContent")
	defer span.End()
	span.SetAttributes(
		attribute.String("gen_ai.request.model", model),
		attribute.Bool("gen_ai.request.search", req.EnableSearch),
		attribute.Int("gen_ai.prompt.length", len(req.Prompt)),
	)

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	logger.Debug("Selected Gemini model", zap.String("model", model), zap.Bool("search", req.EnableSearch))
	response, err := g.models.GenerateContent(ctx, model, contents, buildConfig(req))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate_content")
		return nil, err
	}

	result := &ai.GenerateResult{
		Text:    response.Text(),
		Sources: groundingSources(response),
	}
	span.SetAttributes(
		attribute.Int("gen_ai.response.length", len(result.Text)),
		attribute.Int("gen_ai.response.sources", len(result.Sources)),
	)
	return result, nil
}

func buildConfig(req ai.GenerateRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	empty := true
	if req.Temperature != nil {
		config.Temperature = genai.Ptr(*req.Temperature)
		empty = false
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
		empty = false
	}
	if req.EnableSearch {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
		empty = false
	}
	if empty {
		return nil
	}
	return config
}

// groundingSources reads the web chunks of the first candidate, in the order the backend sent them.
func groundingSources(response *genai.GenerateContentResponse) []ai.Source {
	if response == nil || len(response.Candidates) == 0 {
		return nil
	}
	metadata := response.Candidates[0].GroundingMetadata
	if metadata == nil {
		return nil
	}
	var sources []ai.Source
	for _, chunk := range metadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		sources = append(sources, ai.Source{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return sources
}
