package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gymstock/internal/domain"
	"gymstock/internal/services"
)

// failDomain maps ledger/workflow failures onto HTTP statuses. Anything not
// in the taxonomy is a 500 and the caller should have logged it.
func failDomain(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fail(c, fiber.StatusBadRequest, "invalid quantity")
	case errors.Is(err, domain.ErrMissingField):
		return fail(c, fiber.StatusBadRequest, "missing required field")
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusConflict, "insufficient stock")
	case errors.Is(err, domain.ErrRecordNotFound):
		return fail(c, fiber.StatusNotFound, "record not found")
	case errors.Is(err, domain.ErrInvalidState):
		return fail(c, fiber.StatusConflict, "request already decided")
	case errors.Is(err, services.ErrUserTaken):
		return fail(c, fiber.StatusConflict, "username or registration number already in use")
	default:
		return fail(c, fiber.StatusInternalServerError, "something went wrong")
	}
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
