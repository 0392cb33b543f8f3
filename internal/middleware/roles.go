package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/threadcart/backend/internal/authctx"
	"github.com/threadcart/backend/internal/dto"
	"github.com/threadcart/backend/internal/models"
)

// RequireRole gates a route on the caller's role from the verified
// token. Catalog mutations take RequireRole(EDITOR_ADMIN); destructive
// operations (deletes, cross-user cart clears) take RequireRole(ADMIN).
func RequireRole(min models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if authctx.GetRole(c).AtLeast(min) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error:   true,
			Message: forbiddenMessage(min),
		})
	}
}

func forbiddenMessage(min models.Role) string {
	if min == models.RoleAdmin {
		return "Access denied: full admin privileges required for this operation."
	}
	return "Access denied: admin or editor privileges required for this operation."
}
