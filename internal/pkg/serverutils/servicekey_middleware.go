package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// ServiceKeyMiddleware authenticates the shared frontend/backend bearer key.
// There are no user accounts; every protected route trusts the same key.
func ServiceKeyMiddleware(serviceKey string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing authentication token"))
		}
		token := authHeader[7:]

		if serviceKey == "" || subtle.ConstantTimeCompare([]byte(token), []byte(serviceKey)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid authentication token"))
		}

		return ctx.Next()
	}
}
