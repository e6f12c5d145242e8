package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeSuccess            = "0000"
	CodeBadRequest         = "4000"
	CodeInternalError      = "5000"
	CodeUpstreamError      = "5020"
	CodeServiceUnavailable = "5030"
)

type Response struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Body    interface{} `json:"body,omitempty"`
}

func Ok(c *fiber.Ctx, body interface{}) error {
	return c.Status(http.StatusOK).JSON(Response{Code: CodeSuccess, Message: "success", Body: body})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(Response{Code: CodeBadRequest, Message: message})
}

func InternalError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusInternalServerError).JSON(Response{Code: CodeInternalError, Message: message})
}

func BadGateway(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadGateway).JSON(Response{Code: CodeUpstreamError, Message: message})
}

func ServiceUnavailable(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusServiceUnavailable).JSON(Response{Code: CodeServiceUnavailable, Message: message})
}
