package handlers

import (
	"errors"

	applog "pintare/internal/log"
	"pintare/internal/services"
	"pintare/internal/validate"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// RequireAuth admits requests carrying a valid bearer token and stores its
// claims for later handlers.
func RequireAuth(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := validate.Bearer(c.Get(fiber.HeaderAuthorization))
		if tok == "" {
			applog.Security(c, "access.denied.token", map[string]any{"reason": "missing"})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Acesso negado. Nenhum token fornecido."})
		}
		claims, err := sessions.Verify(tok)
		if err != nil {
			applog.Security(c, "access.denied.token", map[string]any{"reason": err.Error()})
			switch {
			case errors.Is(err, services.ErrSessionExpired):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Sessão expirada. Faça login novamente."})
			case errors.Is(err, services.ErrUnauthorized):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Acesso negado. Token malformado."})
			default:
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Token inválido."})
			}
		}
		c.Locals(claimsKey, claims)
		c.Locals("user_id", claims.UserID)
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := claimsFrom(c)
		if claims == nil || !claims.IsAdmin {
			applog.Security(c, "access.denied.admin", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Acesso negado. Rota exclusiva para administradores."})
		}
		return c.Next()
	}
}

func claimsFrom(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(claimsKey).(*services.Claims)
	return claims
}
