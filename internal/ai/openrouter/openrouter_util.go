package openrouter

import (
	"context"
	"net/http"
	"strings"

	"github.com/chuyenmonc1nhuhan/nls/internal/ai"
	"github.com/pkg/errors"
	"github.com/revrost/go-openrouter"
	"go.uber.org/zap"
)

const DefaultModel = "google/gemini-2.5-flash"

// Open builds a client. An empty baseURL keeps the public OpenRouter endpoint.
func Open(apiKey, baseURL string, httpClient *http.Client) *openrouter.Client {
	return openrouter.NewClient(apiKey, func(c *openrouter.ClientConfig) {
		if baseURL != "" {
			c.BaseURL = baseURL
		}
		if httpClient != nil {
			c.HTTPClient = httpClient
		}
	})
}

type Generator struct {
	client *openrouter.Client
}

func NewGenerator(client *openrouter.Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Generate(ctx context.Context, logger *zap.Logger, req ai.GenerateRequest) (*ai.GenerateResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, errors.New("no messages to send (prompt empty)")
	}
	messages := make([]openrouter.ChatCompletionMessage, 0, 2)
	if system := strings.TrimSpace(req.SystemInstruction); system != "" {
		messages = append(messages, openrouter.ChatCompletionMessage{
			Role:    openrouter.ChatMessageRoleSystem,
			Content: openrouter.Content{Text: system},
		})
	}
	messages = append(messages, openrouter.ChatCompletionMessage{
		Role:    openrouter.ChatMessageRoleUser,
		Content: openrouter.Content{Text: req.Prompt},
	})

	model := req.Model
	if model == "" {
		model = DefaultModel
	}
	request := openrouter.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	if req.Temperature != nil {
		request.Temperature = *req.Temperature
	}
	if req.EnableSearch {
		logger.Debug("search grounding is not supported by the openrouter provider, ignoring")
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return &ai.GenerateResult{}, nil
	}
	return &ai.GenerateResult{Text: resp.Choices[0].Message.Content.Text}, nil
}
