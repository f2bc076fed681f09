package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gymstock/internal/log"
	"gymstock/internal/services"
	"gymstock/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

// POST /api/v1/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	sid := ensureSID(c)
	u, err := h.Auth.Login(sid, body.Username, body.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"username": body.Username})
		return fail(c, fiber.StatusUnauthorized, "invalid username or password")
	}

	log.Audit(c, "auth.login.success", map[string]any{"username": u.Username, "role": u.Role})
	return c.JSON(u)
}

// POST /api/v1/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// POST /api/v1/register: student self-registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body struct {
		Username           string `json:"username"`
		Name               string `json:"name"`
		Email              string `json:"email"`
		RegistrationNumber string `json:"registrationNumber"`
		Branch             string `json:"branch"`
		Password           string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	username, ok := validate.ID(body.Username)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid username")
	}
	name, ok := validate.Name(body.Name)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid name")
	}
	regNo, ok := validate.RegNo(body.RegistrationNumber)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid registration number")
	}
	if body.Email != "" {
		if _, ok := validate.Email(body.Email); !ok {
			return fail(c, fiber.StatusBadRequest, "invalid email")
		}
	}
	if !validate.Password(body.Password) {
		return fail(c, fiber.StatusBadRequest, "password must be 8+ chars with upper, lower and digit")
	}

	u, err := h.Auth.RegisterStudent(username, name, body.Email, regNo, body.Branch, body.Password)
	if err != nil {
		log.Security(c, "auth.register.fail", map[string]any{"username": username})
		return failDomain(c, err)
	}

	log.Audit(c, "auth.register", map[string]any{"username": u.Username})
	return c.Status(fiber.StatusCreated).JSON(u)
}

// GET /api/v1/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid == "" {
		return fail(c, fiber.StatusUnauthorized, "login required")
	}
	u, err := h.Auth.CurrentUser(sid)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "login required")
	}
	return c.JSON(u)
}
