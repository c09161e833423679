package handlers

import (
	"pintare/internal/domain"
	"pintare/internal/services"
	"pintare/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// List serves the filtered, paginated catalog.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := services.ListQuery{
		Page:       validate.PositiveInt(c.Query("pagina"), services.DefaultPage),
		Limit:      validate.PositiveInt(c.Query("limite"), services.DefaultLimit),
		Categories: validate.List(c.Query("categorias")),
		Tags:       validate.List(c.Query("tags")),
		Search:     validate.Q(c.Query("search")),
	}
	page, err := h.Catalog.List(c.UserContext(), q)
	if err != nil {
		return fail(c, "catalog.list", "Erro interno do servidor.", err)
	}
	return c.JSON(page)
}

func (h *ProductHandler) Filters(c *fiber.Ctx) error {
	f, err := h.Catalog.Filters(c.UserContext())
	if err != nil {
		return fail(c, "catalog.filters", "Erro interno do servidor.", err)
	}
	return c.JSON(f)
}

// Home lists the products carrying ?tag=, e.g. the best sellers strip.
func (h *ProductHandler) Home(c *fiber.Ctx) error {
	prods, err := h.Catalog.Home(c.UserContext(), c.Query("tag"))
	if err != nil {
		return fail(c, "catalog.home", "Erro interno do servidor.", err)
	}
	return c.JSON(fiber.Map{"produtos": prods})
}

type productDetail struct {
	domain.Product
	Images []domain.ProductImage `json:"imagens"`
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Produto não encontrado"})
	}
	p, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "catalog.detail", "Erro interno do servidor.", err)
	}
	return c.JSON(fiber.Map{"produto": productDetail{Product: p, Images: p.Images}})
}
