package handlers

import (
	"errors"

	applog "pintare/internal/log"
	"pintare/internal/services"

	"github.com/gofiber/fiber/v2"
)

const msgBadRequest = "Requisição inválida."

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, services.ErrSessionExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// fail answers err as {"message": ...}. Client errors carry the service's
// message; internal errors are logged and answered with fallback only.
func fail(c *fiber.Ctx, action, fallback string, err error) error {
	status := statusFor(err)
	msg := services.Message(err)
	switch {
	case status == fiber.StatusInternalServerError:
		applog.Error(c, action+".fail", err, nil)
		msg = fallback
	case status == fiber.StatusUnauthorized || status == fiber.StatusForbidden:
		applog.Security(c, action+".denied", map[string]any{"reason": err.Error()})
	default:
		applog.Info(c, action+".rejected", map[string]any{"reason": err.Error()})
	}
	if msg == "" {
		msg = fallback
	}
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

func badRequest(c *fiber.Ctx, action string, err error) error {
	applog.Security(c, "validation.fail", map[string]any{"action": action, "error": err.Error()})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msgBadRequest})
}

// ErrorHandler answers errors that escape a handler. Server faults are
// logged and hidden; fiber errors (404, 413, ...) keep their status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
		return c.Status(code).JSON(fiber.Map{"message": "Erro interno do servidor."})
	}
	return c.Status(code).JSON(fiber.Map{"message": fe.Message})
}
