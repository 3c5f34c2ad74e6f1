package serverutils

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DebugKeyMiddleware guards the secondary endpoints with a static bearer
// key. With no key configured the endpoints are disabled outright.
func DebugKeyMiddleware(debugKey string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if debugKey == "" {
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse("debug endpoints disabled"))
		}
		authHeader := ctx.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("missing token"))
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(debugKey)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("invalid token"))
		}
		return ctx.Next()
	}
}
