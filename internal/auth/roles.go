package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/pkg/util"
)

// RequireAdmin ensures the authenticated user holds the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return util.NewUnauthorized("authentication required")
		}
		if !user.IsAdmin() {
			return util.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
