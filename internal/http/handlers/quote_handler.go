package handlers

import (
	"pintare/internal/domain"
	"pintare/internal/log"
	"pintare/internal/services"

	"github.com/gofiber/fiber/v2"
)

type QuoteHandler struct {
	Quotes *services.QuoteService
}

type submitRequest struct {
	Items []domain.QuoteItem `json:"itens"`
}

// Submit turns the caller's cart into a pending quote. Once the quote is
// committed the answer is 201 even if the admin email cannot be prepared.
func (h *QuoteHandler) Submit(c *fiber.Ctx) error {
	var in submitRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "quote.submit", err)
	}
	claims := claimsFrom(c)
	res, err := h.Quotes.Submit(c.UserContext(), claims.UserID, in.Items)
	if err != nil {
		return fail(c, "quote.submit", "Erro ao processar o orçamento.", err)
	}
	fields := map[string]any{"quote_id": res.QuoteID, "itens": len(in.Items), "notified": res.Notified}
	if res.NotifyErr != nil {
		log.Error(c, "quote.notify.fail", res.NotifyErr, fields)
	}
	log.Audit(c, "quote.submit", fields)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     res.Message,
		"orcamentoId": res.QuoteID,
	})
}

// History lists the caller's quotes, newest first.
func (h *QuoteHandler) History(c *fiber.Ctx) error {
	claims := claimsFrom(c)
	list, err := h.Quotes.History(c.UserContext(), claims.UserID)
	if err != nil {
		return fail(c, "quote.history", "Erro ao carregar orçamentos.", err)
	}
	return c.JSON(fiber.Map{"orcamentos": list})
}
