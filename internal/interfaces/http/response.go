package http

import (
	"github.com/gofiber/fiber/v2"
)

// SuccessEnvelope respuesta uniforme de éxito.
type SuccessEnvelope struct {
	Success bool    `json:"success"`
	Message *string `json:"message"`
	Data    any     `json:"data"`
}

// ErrorEnvelope respuesta uniforme de error. Code repite el status HTTP.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Errors  any    `json:"errors,omitempty"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(SuccessEnvelope{Success: true, Data: data})
}

func okMsg(c *fiber.Ctx, msg string, data any) error {
	return c.Status(fiber.StatusOK).JSON(SuccessEnvelope{Success: true, Message: &msg, Data: data})
}

func created(c *fiber.Ctx, msg string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(SuccessEnvelope{Success: true, Message: &msg, Data: data})
}

func fail(c *fiber.Ctx, status int, msg string, errs any) error {
	return c.Status(status).JSON(ErrorEnvelope{Success: false, Message: msg, Code: status, Errors: errs})
}
