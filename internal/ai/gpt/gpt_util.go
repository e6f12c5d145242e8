package gpt

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/chuyenmonc1nhuhan/nls/internal/ai"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

const DefaultModel = openai.ChatModelGPT4oMini

func Open(apiKey string, httpClient *http.Client) (r *openai.Client) {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client := openai.NewClient(opts...)
	return client
}

type Generator struct {
	client *openai.Client
}

func NewGenerator(client *openai.Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Generate(ctx context.Context, logger *zap.Logger, req ai.GenerateRequest) (*ai.GenerateResult, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system := strings.TrimSpace(req.SystemInstruction); system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("no messages to send (prompt empty)")
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	model := openai.ChatModel(DefaultModel)
	if req.Model != "" {
		model = openai.ChatModel(req.Model)
	}
	params := openai.ChatCompletionNewParams{
		Messages: openai.F(msgs),
		Model:    openai.F(model),
	}
	if req.Temperature != nil {
		params.Temperature = openai.F(float64(*req.Temperature))
	}
	if req.EnableSearch {
		logger.Debug("search grounding is not supported by the openai provider, ignoring")
	}

	chatCompletion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(chatCompletion.Choices) == 0 {
		return &ai.GenerateResult{}, nil
	}
	return &ai.GenerateResult{Text: chatCompletion.Choices[0].Message.Content}, nil
}
