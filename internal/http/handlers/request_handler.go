package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gymstock/internal/domain"
	applog "gymstock/internal/log"
	"gymstock/internal/repos"
	"gymstock/internal/services"
	"gymstock/internal/validate"
)

type RequestHandler struct {
	Workflow *services.RequestService
	Ledger   *services.LedgerService
	Requests *repos.RequestRepo
}

// POST /api/v1/requests: student asks to borrow
func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	var body struct {
		EquipmentID        string `json:"equipmentId"`
		Quantity           int    `json:"quantity"`
		Purpose            string `json:"purpose"`
		ExpectedReturnTime string `json:"expectedReturnTime"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	id, ok := validate.ID(body.EquipmentID)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid equipment id")
	}
	expectedReturn, ok := validate.TimeOfDay(body.ExpectedReturnTime)
	if !ok || expectedReturn == "" {
		return fail(c, fiber.StatusBadRequest, "expected return time must be HH:MM")
	}

	req, err := h.Workflow.Submit(currentUser(c), id, body.Quantity, body.Purpose, expectedReturn)
	if err != nil {
		applog.Error(c, "request.submit.fail", err, map[string]any{"equipment": id})
		return failDomain(c, err)
	}
	applog.Audit(c, "request.submit", map[string]any{"request": req.ID, "equipment": id, "qty": req.Quantity})
	return c.Status(fiber.StatusCreated).JSON(req)
}

// GET /api/v1/requests?status=: manager view; students see their own
func (h *RequestHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	if u.Role == domain.RoleStudent {
		reqs, err := h.Requests.ListByStudent(u.RegistrationNumber)
		if err != nil {
			applog.Error(c, "request.list.fail", err, nil)
			return fail(c, fiber.StatusInternalServerError, "could not load requests")
		}
		return c.JSON(reqs)
	}

	reqs, err := h.Requests.List(c.Query("status"))
	if err != nil {
		applog.Error(c, "request.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load requests")
	}
	return c.JSON(reqs)
}

// POST /api/v1/requests/:id/approve
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	rec, err := h.Workflow.Approve(id, currentUser(c).Name)
	if err != nil {
		applog.Error(c, "request.approve.fail", err, map[string]any{"request": id})
		return failDomain(c, err)
	}
	applog.Audit(c, "request.approve", map[string]any{"request": id, "record": rec.ID})
	return c.JSON(rec)
}

// POST /api/v1/requests/:id/deny
func (h *RequestHandler) Deny(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&body)

	if err := h.Workflow.Deny(id, currentUser(c).Name, body.Reason); err != nil {
		applog.Error(c, "request.deny.fail", err, map[string]any{"request": id})
		return failDomain(c, err)
	}
	applog.Audit(c, "request.deny", map[string]any{"request": id})
	return c.JSON(fiber.Map{"ok": true})
}

// POST /api/v1/moves: manager requests a main -> counter transfer
func (h *RequestHandler) SubmitMove(c *fiber.Ctx) error {
	var body struct {
		EquipmentID string `json:"equipmentId"`
		Quantity    int    `json:"quantity"`
		Reason      string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	id, ok := validate.ID(body.EquipmentID)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid equipment id")
	}

	m, err := h.Ledger.RequestMove(id, body.Quantity, body.Reason, currentUser(c).Name)
	if err != nil {
		applog.Error(c, "move.submit.fail", err, map[string]any{"equipment": id})
		return failDomain(c, err)
	}
	applog.Audit(c, "move.submit", map[string]any{"move": m.ID, "equipment": id, "qty": m.Quantity})
	return c.Status(fiber.StatusCreated).JSON(m)
}

// GET /api/v1/moves?status=
func (h *RequestHandler) ListMoves(c *fiber.Ctx) error {
	ms, err := h.Requests.ListMoves(c.Query("status"))
	if err != nil {
		applog.Error(c, "move.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load move requests")
	}
	return c.JSON(ms)
}

// POST /api/v1/moves/:id/approve: admin decision
func (h *RequestHandler) ApproveMove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	if err := h.Ledger.ApproveMove(id, currentUser(c).Name); err != nil {
		applog.Error(c, "move.approve.fail", err, map[string]any{"move": id})
		return failDomain(c, err)
	}
	applog.Audit(c, "move.approve", map[string]any{"move": id})
	return c.JSON(fiber.Map{"ok": true})
}

// POST /api/v1/moves/:id/reject: admin decision
func (h *RequestHandler) RejectMove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&body)

	if err := h.Ledger.RejectMove(id, currentUser(c).Name, body.Reason); err != nil {
		applog.Error(c, "move.reject.fail", err, map[string]any{"move": id})
		return failDomain(c, err)
	}
	applog.Audit(c, "move.reject", map[string]any{"move": id})
	return c.JSON(fiber.Map{"ok": true})
}
