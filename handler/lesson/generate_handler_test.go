package lesson

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chuyenmonc1nhuhan/nls/api"
	"github.com/chuyenmonc1nhuhan/nls/internal/ai"
	"github.com/chuyenmonc1nhuhan/nls/internal/nls"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	app      *fiber.App
	prompts  []ai.GenerateRequest
	events   []GenerationEvent
	lookups  int
	genErr   error
	genText  string
	noLookup bool
}

func newHarness(t *testing.T, withGenerator bool) *harness {
	t.Helper()
	h := &harness{genText: "kết quả"}

	var generator ai.Generator
	if withGenerator {
		generator = ai.GeneratorFunc(func(_ context.Context, _ *zap.Logger, req ai.GenerateRequest) (*ai.GenerateResult, error) {
			h.prompts = append(h.prompts, req)
			if h.genErr != nil {
				return nil, h.genErr
			}
			return &ai.GenerateResult{Text: h.genText}, nil
		})
	}

	deps := Deps{
		Dispatcher: nls.New(generator, nls.Options{Model: "gemini-2.5-flash"}),
		LoadLookup: func(context.Context, *zap.Logger) (nls.Lookup, error) {
			h.lookups++
			if h.noLookup {
				return nil, errors.New("db down")
			}
			return nls.Lookup{"1.1.a": "Mô tả từ danh mục"}, nil
		},
		Publish: func(_ *zap.Logger, message interface{}) error {
			h.events = append(h.events, message.(GenerationEvent))
			return nil
		},
	}

	h.app = fiber.New()
	h.app.Post("/nls/suggestion", NewSuggestionHandler(deps))
	h.app.Post("/nls/lesson-plan", NewLessonPlanHandler(deps))
	h.app.Post("/nls/integrate", NewIntegrationHandler(deps))
	h.app.Post("/nls/assessment", NewAssessmentHandler(deps))
	h.app.Get("/nls/competencies", NewCompetencyListHandler(deps))
	return h
}

func (h *harness) do(t *testing.T, method, path, body string) (int, api.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("requestId", "req-123")
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out api.Response
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestSuggestionHandler(t *testing.T) {
	t.Run("uses body lookup", func(t *testing.T) {
		h := newHarness(t, true)
		status, res := h.do(t, http.MethodPost, "/nls/suggestion",
			`{"lessonTitle":"Em tập gõ phím","nlsCodes":["1.1.a"],"lookup":{"1.1.a":"Mô tả riêng"},"grade":"3"}`)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, api.CodeSuccess, res.Code)
		assert.Equal(t, map[string]interface{}{"result": "kết quả"}, res.Body)
		require.Len(t, h.prompts, 1)
		assert.Contains(t, h.prompts[0].Prompt, "- **1.1.a:** Mô tả riêng")
		assert.Equal(t, 0, h.lookups)

		require.Len(t, h.events, 1)
		event := h.events[0]
		assert.Equal(t, "req-123", event.RequestId)
		assert.Equal(t, "suggestion", event.Operation)
		assert.Equal(t, "TinHoc", event.Subject)
		assert.True(t, event.Success)
	})

	t.Run("falls back to catalogue lookup", func(t *testing.T) {
		h := newHarness(t, true)
		status, _ := h.do(t, http.MethodPost, "/nls/suggestion",
			`{"lessonTitle":"Em tập gõ phím","nlsCodes":["1.1.a"],"grade":"4","subject":"CongNghe"}`)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, 1, h.lookups)
		assert.Contains(t, h.prompts[0].Prompt, "- **1.1.a:** Mô tả từ danh mục")
		assert.Contains(t, h.prompts[0].Prompt, "Lớp 4 (9-11 tuổi), Công nghệ")
	})

	t.Run("catalogue failure", func(t *testing.T) {
		h := newHarness(t, true)
		h.noLookup = true
		status, res := h.do(t, http.MethodPost, "/nls/suggestion",
			`{"lessonTitle":"Bài 1","nlsCodes":["1.1.a"],"grade":"3"}`)

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, lookupUnavailable, res.Message)
		assert.Empty(t, h.prompts)
	})

	t.Run("validation", func(t *testing.T) {
		h := newHarness(t, true)
		testCases := []struct {
			name string
			body string
		}{
			{name: "missing title", body: `{"nlsCodes":["1.1.a"],"grade":"3"}`},
			{name: "no codes", body: `{"lessonTitle":"Bài 1","nlsCodes":[],"grade":"3"}`},
			{name: "bad grade", body: `{"lessonTitle":"Bài 1","nlsCodes":["1.1.a"],"grade":"9"}`},
			{name: "bad subject", body: `{"lessonTitle":"Bài 1","nlsCodes":["1.1.a"],"grade":"3","subject":"Toan"}`},
			{name: "not json", body: `{`},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				status, res := h.do(t, http.MethodPost, "/nls/suggestion", tc.body)
				assert.Equal(t, http.StatusBadRequest, status)
				assert.Equal(t, api.CodeBadRequest, res.Code)
			})
		}
		assert.Empty(t, h.prompts)
		assert.Empty(t, h.events)
	})
}

func TestGenerationErrors(t *testing.T) {
	t.Run("no credential", func(t *testing.T) {
		h := newHarness(t, false)
		status, res := h.do(t, http.MethodPost, "/nls/lesson-plan",
			`{"lessonTitle":"Bài 1","nlsCodes":["1.1.a"],"grade":"3","initialSuggestion":"Trò chơi"}`)

		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "Chưa có API Key. Vui lòng cấu hình GEMINI_API_KEY.", res.Message)
		require.Len(t, h.events, 1)
		assert.False(t, h.events[0].Success)
		assert.Equal(t, "ConfigurationError", h.events[0].ErrorKind)
	})

	t.Run("backend failure", func(t *testing.T) {
		h := newHarness(t, true)
		h.genErr = errors.New("quota exceeded")
		status, res := h.do(t, http.MethodPost, "/nls/assessment",
			`{"type":"quiz","lessonTitle":"Bài 1","nlsCodes":["1.1.a"],"grade":"5"}`)

		assert.Equal(t, http.StatusBadGateway, status)
		assert.Equal(t, "Lỗi khi tạo công cụ đánh giá.", res.Message)
		assert.NotContains(t, res.Message, "quota")
		assert.Len(t, h.prompts, 1)
		assert.Equal(t, "UpstreamError", h.events[0].ErrorKind)
	})
}

func TestIntegrationHandler(t *testing.T) {
	h := newHarness(t, true)
	h.genText = "```markdown\n# Giáo án có NLS\n```"

	status, res := h.do(t, http.MethodPost, "/nls/integrate",
		`{"lessonPlanContent":"# Giáo án","nlsCodes":["1.1.a"],"grade":"3"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"result": "# Giáo án có NLS"}, res.Body)
	assert.Contains(t, h.prompts[0].Prompt, "```markdown\n# Giáo án\n```")

	status, _ = h.do(t, http.MethodPost, "/nls/integrate", `{"nlsCodes":["1.1.a"],"grade":"3"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAssessmentHandlerRejectsUnknownType(t *testing.T) {
	h := newHarness(t, true)
	status, _ := h.do(t, http.MethodPost, "/nls/assessment",
		`{"type":"essay","lessonTitle":"Bài 1","nlsCodes":["1.1.a"],"grade":"3"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Empty(t, h.prompts)
}

func TestCompetencyListHandler(t *testing.T) {
	h := newHarness(t, true)
	status, res := h.do(t, http.MethodGet, "/nls/competencies", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]interface{}{
		"competencies": map[string]interface{}{"1.1.a": "Mô tả từ danh mục"},
	}, res.Body)
}
