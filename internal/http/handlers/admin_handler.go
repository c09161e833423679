package handlers

import (
	"pintare/internal/log"
	"pintare/internal/services"
	"pintare/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves catalog maintenance. Every route sits behind
// RequireAuth and RequireAdmin.
type AdminHandler struct {
	Catalog *services.CatalogService
}

func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "admin.product.create", err)
	}
	id, err := h.Catalog.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "admin.product.create", "Erro ao criar produto.", err)
	}
	log.Audit(c, "admin.product.create", map[string]any{"product_id": id, "imagens": len(in.Images)})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Produto e imagens criados com sucesso!",
		"id":      id,
	})
}

func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Produto não encontrado"})
	}
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "admin.product.update", err)
	}
	if err := h.Catalog.Update(c.UserContext(), id, in); err != nil {
		return fail(c, "admin.product.update", "Erro ao atualizar produto.", err)
	}
	log.Audit(c, "admin.product.update", map[string]any{"product_id": id, "imagens": len(in.Images)})
	return c.JSON(fiber.Map{"message": "Produto atualizado com sucesso!"})
}

func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Produto não encontrado"})
	}
	if err := h.Catalog.Delete(c.UserContext(), id); err != nil {
		return fail(c, "admin.product.delete", "Erro ao remover produto.", err)
	}
	log.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Produto removido com sucesso!"})
}
