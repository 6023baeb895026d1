package http

import (
	"strings"

	"portfolio-server/internal/domain"

	"github.com/gofiber/fiber/v2"
)

const (
	sessionCookie = "session_token"
	roleLocal     = "role"
)

// roleMiddleware resolves the request's role from the session cookie (or
// a bearer header) and stores it request-scoped. It never rejects; it
// only classifies.
func (h *Handler) roleMiddleware(c *fiber.Ctx) error {
	token := c.Cookies(sessionCookie)
	if token == "" {
		if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	c.Locals(roleLocal, h.gate.Verify(token))
	return c.Next()
}

func requireAdmin(c *fiber.Ctx) error {
	role, _ := c.Locals(roleLocal).(domain.Role)
	if role != domain.RoleAdmin {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "admin session required"})
	}
	return c.Next()
}
