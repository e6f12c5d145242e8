package lesson

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chuyenmonc1nhuhan/nls/api"
	"github.com/chuyenmonc1nhuhan/nls/internal/catalog"
	"github.com/chuyenmonc1nhuhan/nls/internal/kafka"
	"github.com/chuyenmonc1nhuhan/nls/internal/nls"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// Deps is shared by every nls handler. LoadLookup and Publish may be nil.
type Deps struct {
	Dispatcher *nls.Dispatcher
	LoadLookup catalog.LoadLookupFunc
	Publish    kafka.SendMessageSyncFunc
}

type LessonFields struct {
	NlsCodes []string          `json:"nlsCodes" validate:"required,min=1,dive,required"`
	Lookup   map[string]string `json:"lookup"`
	Grade    string            `json:"grade" validate:"required,oneof=3 4 5"`
	Subject  string            `json:"subject" validate:"omitempty,oneof=TinHoc CongNghe"`
}

type SuggestionRequest struct {
	LessonTitle string `json:"lessonTitle" validate:"required"`
	LessonFields
}

type LessonPlanRequest struct {
	LessonTitle       string `json:"lessonTitle" validate:"required"`
	InitialSuggestion string `json:"initialSuggestion"`
	LessonFields
}

type IntegrationRequest struct {
	LessonTitle       string `json:"lessonTitle"`
	LessonPlanContent string `json:"lessonPlanContent" validate:"required"`
	LessonFields
}

type AssessmentRequest struct {
	Type        string `json:"type" validate:"required,oneof=rubric quiz"`
	LessonTitle string `json:"lessonTitle" validate:"required"`
	LessonFields
}

type GenerationEvent struct {
	RequestId  string    `json:"requestId"`
	Operation  string    `json:"operation"`
	Model      string    `json:"model"`
	Grade      string    `json:"grade"`
	Subject    string    `json:"subject"`
	NlsCodes   []string  `json:"nlsCodes"`
	Success    bool      `json:"success"`
	ErrorKind  string    `json:"errorKind,omitempty"`
	DurationMs int64     `json:"durationMs"`
	Date       time.Time `json:"date"`
}

func (e GenerationEvent) Key() string {
	return e.RequestId
}

func parseRequest(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errors.New("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fe.Field())
			}
			return errors.New("invalid fields: " + strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

func (d Deps) lessonInput(ctx context.Context, logger *zap.Logger, title string, fields LessonFields) (nls.LessonInput, error) {
	in := nls.LessonInput{
		LessonTitle: title,
		Codes:       fields.NlsCodes,
		Lookup:      fields.Lookup,
		Grade:       fields.Grade,
		Subject:     fields.Subject,
	}
	if len(in.Lookup) > 0 || d.LoadLookup == nil {
		return in, nil
	}
	lookup, err := d.LoadLookup(ctx, logger)
	if err != nil {
		return in, err
	}
	in.Lookup = lookup
	return in, nil
}

// generate runs one dispatcher call and reports it as a usage event.
func (d Deps) generate(
	c *fiber.Ctx,
	logger *zap.Logger,
	op nls.Operation,
	in nls.LessonInput,
	call func() (string, error),
) error {
	start := time.Now()
	res, err := call()

	if d.Publish != nil {
		subject := in.Subject
		if subject == "" {
			subject = nls.SubjectTinHoc
		}
		event := GenerationEvent{
			RequestId:  c.Get("requestId"),
			Operation:  string(op),
			Model:      d.Dispatcher.Model(),
			Grade:      in.Grade,
			Subject:    subject,
			NlsCodes:   in.Codes,
			Success:    err == nil,
			DurationMs: time.Since(start).Milliseconds(),
			Date:       start,
		}
		var nlsErr *nls.Error
		if errors.As(err, &nlsErr) {
			event.ErrorKind = nlsErr.KindString()
		}
		if pubErr := d.Publish(logger, event); pubErr != nil {
			logger.Warn("publish generation event failed", zap.Error(pubErr))
		}
	}

	if err != nil {
		return respondError(c, logger, err)
	}
	return api.Ok(c, fiber.Map{
		"result": res,
	})
}

func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var nlsErr *nls.Error
	if !errors.As(err, &nlsErr) {
		logger.Error(err.Error())
		return api.InternalError(c, "Something went wrong")
	}
	logger.Warn("nls request failed", zap.String("detail", nlsErr.Detail()))
	if nlsErr.Kind == nls.ConfigurationError {
		return api.ServiceUnavailable(c, nlsErr.Message)
	}
	return api.BadGateway(c, nlsErr.Message)
}
