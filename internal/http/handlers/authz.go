package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gymstock/internal/domain"
	applog "gymstock/internal/log"
	"gymstock/internal/services"
)

// RequireRole gates a route group to the given roles and stashes the user in
// locals for handlers and the logger.
func RequireRole(auth *services.AuthService, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return fail(c, fiber.StatusUnauthorized, "login required")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return fail(c, fiber.StatusUnauthorized, "login required")
		}
		for _, role := range roles {
			if u.Role == role {
				c.Locals("user", u)
				c.Locals("role", u.Role)
				return c.Next()
			}
		}
		applog.Security(c, "access.denied", map[string]any{"role": u.Role})
		return fail(c, fiber.StatusForbidden, "access denied")
	}
}

// currentUser returns the user RequireRole stored; nil outside gated routes.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
