package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "gymstock/internal/log"
	"gymstock/internal/repos"
	"gymstock/internal/services"
)

type ProcurementHandler struct {
	Procure *services.ProcurementService
	Repo    *repos.ProcurementRepo
}

// POST /api/v1/procurement: manager records a bill and folds it into stock
func (h *ProcurementHandler) Intake(c *fiber.Ctx) error {
	var body struct {
		SupplierInfo    string                     `json:"supplierInfo"`
		BillParticulars string                     `json:"billParticulars"`
		ProcurementDate string                     `json:"procurementDate"`
		Lines           []services.ProcurementLine `json:"lines"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(body.Lines) == 0 {
		return fail(c, fiber.StatusBadRequest, "no procurement lines")
	}

	entries, err := h.Procure.Intake(body.Lines, body.SupplierInfo, body.BillParticulars, body.ProcurementDate)
	if err != nil {
		applog.Error(c, "procurement.intake.fail", err, map[string]any{"lines": len(body.Lines)})
		return failDomain(c, err)
	}
	applog.Audit(c, "procurement.intake", map[string]any{"entries": len(entries)})
	return c.Status(fiber.StatusCreated).JSON(entries)
}

// GET /api/v1/procurement
func (h *ProcurementHandler) ListEntries(c *fiber.Ctx) error {
	entries, err := h.Repo.ListEntries()
	if err != nil {
		applog.Error(c, "procurement.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load procurement entries")
	}
	return c.JSON(entries)
}

// GET /api/v1/procurement/spend
func (h *ProcurementHandler) TotalSpend(c *fiber.Ctx) error {
	total, err := h.Repo.TotalSpend()
	if err != nil {
		applog.Error(c, "procurement.spend.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not total spend")
	}
	return c.JSON(fiber.Map{"totalSpend": total.StringFixed(2)})
}

// GET /api/v1/procurement/previous-year
func (h *ProcurementHandler) PreviousYear(c *fiber.Ctx) error {
	ps, err := h.Repo.ListPreviousYearPurchases()
	if err != nil {
		applog.Error(c, "procurement.previous.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load purchase history")
	}
	return c.JSON(ps)
}
