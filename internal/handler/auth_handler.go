package handler

import (
	"github.com/gofiber/fiber/v2"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/middleware"
	"mr3x-notificacoes/internal/service/auth"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	resp, err := h.authService.Login(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
