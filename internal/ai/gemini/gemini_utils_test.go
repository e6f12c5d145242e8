package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/chuyenmonc1nhuhan/nls/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	response *genai.GenerateContentResponse
	err      error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.response, f.err
}

func textResponse(text string, chunks ...*genai.GroundingChunk) *genai.GenerateContentResponse {
	candidate := &genai.Candidate{
		Content: genai.NewContentFromText(text, genai.RoleModel),
	}
	if len(chunks) > 0 {
		candidate.GroundingMetadata = &genai.GroundingMetadata{GroundingChunks: chunks}
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate}}
}

func TestBuildConfig(t *testing.T) {
	t.Run("nothing set", func(t *testing.T) {
		assert.Nil(t, buildConfig(ai.GenerateRequest{Prompt: "x"}))
	})

	t.Run("temperature, system and search", func(t *testing.T) {
		temp := float32(0.7)
		cfg := buildConfig(ai.GenerateRequest{
			Prompt:            "x",
			SystemInstruction: "persona",
			Temperature:       &temp,
			EnableSearch:      true,
		})
		require.NotNil(t, cfg)
		require.NotNil(t, cfg.Temperature)
		assert.InDelta(t, 0.7, *cfg.Temperature, 0.0001)
		require.NotNil(t, cfg.SystemInstruction)
		assert.Equal(t, "persona", cfg.SystemInstruction.Parts[0].Text)
		require.Len(t, cfg.Tools, 1)
		assert.NotNil(t, cfg.Tools[0].GoogleSearch)
	})
}

func TestGenerate(t *testing.T) {
	logger := zap.NewNop()

	t.Run("default model and grounding", func(t *testing.T) {
		fake := &fakeModels{response: textResponse("kết quả",
			&genai.GroundingChunk{Web: &genai.GroundingChunkWeb{URI: "https://a.vn", Title: "A"}},
			&genai.GroundingChunk{},
			&genai.GroundingChunk{Web: &genai.GroundingChunkWeb{URI: "https://b.vn"}},
		)}
		g := &Generator{models: fake}

		res, err := g.Generate(context.Background(), logger, ai.GenerateRequest{Prompt: "xin chào", EnableSearch: true})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, fake.model)
		require.Len(t, fake.contents, 1)
		assert.Equal(t, genai.RoleUser, fake.contents[0].Role)
		assert.Equal(t, "xin chào", fake.contents[0].Parts[0].Text)
		assert.Equal(t, "kết quả", res.Text)
		assert.Equal(t, []ai.Source{
			{URI: "https://a.vn", Title: "A"},
			{URI: "https://b.vn"},
		}, res.Sources)
	})

	t.Run("explicit model without grounding", func(t *testing.T) {
		fake := &fakeModels{response: textResponse("ok")}
		g := &Generator{models: fake}

		res, err := g.Generate(context.Background(), logger, ai.GenerateRequest{Model: "gemini-1.5-flash", Prompt: "p"})
		require.NoError(t, err)
		assert.Equal(t, "gemini-1.5-flash", fake.model)
		assert.Nil(t, fake.config)
		assert.Empty(t, res.Sources)
	})

	t.Run("backend error is returned, not logged", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		fake := &fakeModels{err: errors.New("503 unavailable")}
		g := &Generator{models: fake}

		res, err := g.Generate(context.Background(), zap.New(core), ai.GenerateRequest{Prompt: "p"})
		assert.Nil(t, res)
		assert.EqualError(t, err, "503 unavailable")
		assert.Zero(t, logs.FilterLevelExact(zap.ErrorLevel).Len())
	})
}
