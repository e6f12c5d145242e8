package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type reqCarrier struct{ h *fasthttp.RequestHeader }

func (c reqCarrier) Get(key string) string { return string(c.h.Peek(key)) }
func (c reqCarrier) Set(key, val string)   { c.h.Set(key, val) }
func (c reqCarrier) Keys() []string {
	var keys []string
	c.h.VisitAll(func(key, _ []byte) {
		keys = append(keys, string(key))
	})
	return keys
}

func OTelFiberMiddleware(serviceName string) fiber.Handler {
	tr := otel.Tracer(serviceName)

	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), reqCarrier{h: &c.Context().Request.Header})

		ctx, span := tr.Start(ctx, spanName(c), trace.WithSpanKind(trace.SpanKindServer))
		start := time.Now()
		defer span.End()

		c.SetUserContext(ctx)

		span.SetAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("http.method", c.Method()),
			attribute.String("http.target", c.OriginalURL()),
			attribute.String("nls.operation", lessonOperation(c)),
			attribute.String("request.id", c.Get("requestId")),
			attribute.String("user_agent", c.Get("User-Agent")),
		)

		err := c.Next()

		// the matched route is only known once the handler chain ran
		span.SetName(spanName(c))
		status := c.Response().StatusCode()
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.Int64("http.duration_ms", time.Since(start).Milliseconds()),
		)

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case status == fiber.StatusBadGateway:
			span.SetStatus(codes.Error, "upstream_error")
		case status == fiber.StatusServiceUnavailable:
			span.SetStatus(codes.Error, "not_configured")
		case status >= 500:
			span.SetStatus(codes.Error, "server_error")
		case status >= 400:
			span.SetStatus(codes.Error, "client_error")
		default:
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}

func spanName(c *fiber.Ctx) string {
	path := c.Route().Path
	if path == "" {
		path = c.Path()
	}
	return strings.ToUpper(c.Method()) + " " + path
}

// lessonOperation names the route by its last path segment, e.g. "suggestion" for /nls/api/v1/nls/suggestion.
func lessonOperation(c *fiber.Ctx) string {
	path := strings.TrimSuffix(c.Path(), "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
