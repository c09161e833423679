package handlers

import (
	"pintare/internal/log"
	"pintare/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.Registration
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "auth.register", err)
	}
	id, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		return fail(c, "auth.register", "Erro ao registrar o usuário.", err)
	}
	log.Audit(c, "auth.register.success", map[string]any{"user_id": id, "tipo": in.Kind})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Usuário registrado com sucesso!",
		"id":      id,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "auth.login", err)
	}
	res, err := h.Auth.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return fail(c, "auth.login", "Erro no servidor.", err)
	}
	c.Locals("user_id", res.Claims.UserID)
	log.Audit(c, "auth.login.success", map[string]any{"email": res.Claims.Email})
	return c.JSON(fiber.Map{
		"message": "Login bem-sucedido!",
		"token":   res.Token,
		"user":    res.Claims,
	})
}

// Me returns the full profile of the caller.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := claimsFrom(c)
	u, err := h.Auth.Profile(c.UserContext(), claims.UserID)
	if err != nil {
		return fail(c, "profile.read", "Erro ao carregar o perfil.", err)
	}
	return c.JSON(fiber.Map{"user": u})
}

func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	var in services.ProfileUpdate
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "profile.update", err)
	}
	claims := claimsFrom(c)
	if err := h.Auth.UpdateProfile(c.UserContext(), claims.UserID, in); err != nil {
		return fail(c, "profile.update", "Erro ao atualizar o perfil.", err)
	}
	log.Audit(c, "profile.update", nil)
	return c.JSON(fiber.Map{"message": "Perfil atualizado com sucesso!"})
}

// Perfil echoes the token's claims.
func (h *AuthHandler) Perfil(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":       "Você está acessando uma rota protegida!",
		"usuarioLogado": claimsFrom(c),
	})
}

func (h *AuthHandler) AdminCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Bem-vindo, Administrador!",
		"admin":   claimsFrom(c),
	})
}
