package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/service/auth"
)

const OperatorContextKey = "operator"

func AuthRequired(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return Unauthorized("Missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return Unauthorized("Invalid authorization header format")
		}

		claims, err := authService.ValidateAccessToken(parts[1])
		if err != nil {
			return Unauthorized("Invalid or expired token")
		}

		c.Locals(OperatorContextKey, &domain.Operator{Email: claims.Email})

		return c.Next()
	}
}

func GetCurrentOperator(c *fiber.Ctx) *domain.Operator {
	op, ok := c.Locals(OperatorContextKey).(*domain.Operator)
	if !ok {
		return nil
	}
	return op
}
