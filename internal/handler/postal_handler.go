package handler

import (
	"github.com/gofiber/fiber/v2"

	"mr3x-notificacoes/internal/service/postal"
)

type PostalHandler struct {
	postalService postal.Service
}

func NewPostalHandler(postalService postal.Service) *PostalHandler {
	return &PostalHandler{postalService: postalService}
}

func (h *PostalHandler) Lookup(c *fiber.Ctx) error {
	addr, err := h.postalService.Lookup(c.UserContext(), c.Params("cep"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(addr)
}
