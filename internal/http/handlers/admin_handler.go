package handlers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	applog "gymstock/internal/log"
	"gymstock/internal/repos"
	"gymstock/internal/services"
	"gymstock/internal/validate"
)

type AdminHandler struct {
	Users    *repos.UserRepo
	Feedback *repos.FeedbackRepo
	Auth     *services.AuthService
	Stats    *services.StatsService
}

// GET /api/v1/admin/stats
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	st, err := h.Stats.Dashboard()
	if err != nil {
		applog.Error(c, "admin.stats.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load stats")
	}
	return c.JSON(st)
}

// GET /api/v1/admin/users
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Users.ListNonAdmin()
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load users")
	}
	return c.JSON(users)
}

// POST /api/v1/admin/managers
func (h *AdminHandler) CreateManager(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	username, ok := validate.ID(body.Username)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid username")
	}
	if _, ok := validate.Name(body.Name); !ok {
		return fail(c, fiber.StatusBadRequest, "invalid name")
	}
	if !validate.Password(body.Password) {
		return fail(c, fiber.StatusBadRequest, "password must be 8+ chars with upper, lower and digit")
	}

	u, err := h.Auth.CreateManager(username, body.Name, body.Email, body.Password)
	if err != nil {
		return failDomain(c, err)
	}
	applog.Audit(c, "admin.managers.create", map[string]any{"username": u.Username})
	return c.Status(fiber.StatusCreated).JSON(u)
}

// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	if err := h.Users.DeleteUserCascade(id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return fail(c, fiber.StatusBadRequest, "could not delete user")
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.JSON(fiber.Map{"ok": true})
}

// GET /api/v1/admin/feedback?status=
func (h *AdminHandler) FeedbackPage(c *fiber.Ctx) error {
	fs, err := h.Feedback.List(c.Query("status"))
	if err != nil {
		applog.Error(c, "admin.feedback.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load feedback")
	}
	return c.JSON(fs)
}

// POST /api/v1/admin/feedback/:id/status
func (h *AdminHandler) UpdateFeedbackStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	switch body.Status {
	case "pending", "in-progress", "resolved":
	default:
		return fail(c, fiber.StatusBadRequest, "invalid status")
	}

	if err := h.Feedback.UpdateStatus(id, body.Status); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, fiber.StatusNotFound, "record not found")
		}
		applog.Error(c, "admin.feedback.update.fail", err, map[string]any{"id": id})
		return fail(c, fiber.StatusInternalServerError, "could not update feedback")
	}
	applog.Audit(c, "admin.feedback.update", map[string]any{"id": id, "status": body.Status})
	return c.JSON(fiber.Map{"ok": true})
}

// DELETE /api/v1/admin/feedback/:id
func (h *AdminHandler) DeleteFeedback(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	if err := h.Feedback.Delete(id); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, fiber.StatusNotFound, "record not found")
		}
		applog.Error(c, "admin.feedback.delete.fail", err, map[string]any{"id": id})
		return fail(c, fiber.StatusInternalServerError, "could not delete feedback")
	}
	applog.Audit(c, "admin.feedback.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"ok": true})
}
