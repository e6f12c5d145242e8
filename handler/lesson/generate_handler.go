package lesson

import (
	"github.com/chuyenmonc1nhuhan/nls/api"
	"github.com/chuyenmonc1nhuhan/nls/internal/logz"
	"github.com/chuyenmonc1nhuhan/nls/internal/nls"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const lookupUnavailable = "Không tải được danh mục Năng lực số."

func NewSuggestionHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		logger := logz.WithTrace(ctx, logz.NewLogger(), c.Get("requestId"))
		var req SuggestionRequest
		if err := parseRequest(c, &req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		in, err := deps.lessonInput(ctx, logger, req.LessonTitle, req.LessonFields)
		if err != nil {
			logger.Error("load competency lookup", zap.Error(err))
			return api.InternalError(c, lookupUnavailable)
		}
		return deps.generate(c, logger, nls.OpSuggestion, in, func() (string, error) {
			return deps.Dispatcher.SuggestActivity(ctx, logger, in)
		})
	}
}

func NewLessonPlanHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		logger := logz.WithTrace(ctx, logz.NewLogger(), c.Get("requestId"))
		var req LessonPlanRequest
		if err := parseRequest(c, &req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		in, err := deps.lessonInput(ctx, logger, req.LessonTitle, req.LessonFields)
		if err != nil {
			logger.Error("load competency lookup", zap.Error(err))
			return api.InternalError(c, lookupUnavailable)
		}
		return deps.generate(c, logger, nls.OpLessonPlan, in, func() (string, error) {
			return deps.Dispatcher.DraftLessonPlan(ctx, logger, nls.LessonPlanRequest{
				LessonInput:       in,
				InitialSuggestion: req.InitialSuggestion,
			})
		})
	}
}

func NewIntegrationHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		logger := logz.WithTrace(ctx, logz.NewLogger(), c.Get("requestId"))
		var req IntegrationRequest
		if err := parseRequest(c, &req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		in, err := deps.lessonInput(ctx, logger, req.LessonTitle, req.LessonFields)
		if err != nil {
			logger.Error("load competency lookup", zap.Error(err))
			return api.InternalError(c, lookupUnavailable)
		}
		return deps.generate(c, logger, nls.OpIntegration, in, func() (string, error) {
			return deps.Dispatcher.IntegrateCompetencies(ctx, logger, nls.IntegrationRequest{
				LessonInput:       in,
				LessonPlanContent: req.LessonPlanContent,
			})
		})
	}
}

func NewAssessmentHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		logger := logz.WithTrace(ctx, logz.NewLogger(), c.Get("requestId"))
		var req AssessmentRequest
		if err := parseRequest(c, &req); err != nil {
			return api.BadRequest(c, err.Error())
		}
		in, err := deps.lessonInput(ctx, logger, req.LessonTitle, req.LessonFields)
		if err != nil {
			logger.Error("load competency lookup", zap.Error(err))
			return api.InternalError(c, lookupUnavailable)
		}
		return deps.generate(c, logger, nls.OpAssessment, in, func() (string, error) {
			return deps.Dispatcher.GenerateAssessment(ctx, logger, nls.AssessmentRequest{
				LessonInput: in,
				Type:        nls.AssessmentType(req.Type),
			})
		})
	}
}

func NewCompetencyListHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		logger := logz.WithTrace(ctx, logz.NewLogger(), c.Get("requestId"))
		if deps.LoadLookup == nil {
			return api.ServiceUnavailable(c, lookupUnavailable)
		}
		lookup, err := deps.LoadLookup(ctx, logger)
		if err != nil {
			logger.Error("load competency lookup", zap.Error(err))
			return api.InternalError(c, lookupUnavailable)
		}
		return api.Ok(c, fiber.Map{
			"competencies": lookup,
		})
	}
}
