package middleware

import (
	"time"

	"github.com/chuyenmonc1nhuhan/nls/internal/logz"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// AuditLogger logs sizes and timing only. Lesson plans and generated text never reach the log.
func AuditLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		ctx := c.UserContext()
		reqID := c.Get("requestId")
		operation := lessonOperation(c)

		logger := logz.WithTrace(ctx, logz.NewLogger(), reqID).With(zap.String("operation", operation))

		span := trace.SpanFromContext(ctx)
		reqBytes := len(c.Body())
		span.AddEvent("nls.request", trace.WithAttributes(
			attribute.String("request.id", reqID),
			attribute.Int("body.bytes", reqBytes),
		))

		logger.Info("nls_request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("req_body_bytes", reqBytes),
		)

		err := c.Next()

		status := c.Response().StatusCode()
		resBytes := len(c.Response().Body())
		durationMs := time.Since(start).Milliseconds()

		span.AddEvent("nls.response", trace.WithAttributes(
			attribute.Int("status", status),
			attribute.Int64("duration_ms", durationMs),
			attribute.Int("body.bytes", resBytes),
		))

		log := logger.Info
		if status >= 500 {
			log = logger.Warn
		}
		log("nls_response",
			zap.Int("status", status),
			zap.Int64("duration_ms", durationMs),
			zap.Int("res_body_bytes", resBytes),
		)

		return err
	}
}
