package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"gymstock/internal/domain"
	applog "gymstock/internal/log"
	"gymstock/internal/repos"
	"gymstock/internal/services"
	"gymstock/internal/validate"
)

type IssueHandler struct {
	Ledger  *services.LedgerService
	Overdue *services.OverdueService
	Issues  *repos.IssueRepo
}

// POST /api/v1/issues: manager issues stock directly
func (h *IssueHandler) Issue(c *fiber.Ctx) error {
	var body struct {
		EquipmentID        string `json:"equipmentId"`
		Quantity           int    `json:"quantity"`
		StudentName        string `json:"studentName"`
		RegistrationNumber string `json:"registrationNumber"`
		Branch             string `json:"branch"`
		ExpectedReturnTime string `json:"expectedReturnTime"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	id, ok := validate.ID(body.EquipmentID)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid equipment id")
	}
	if _, ok := validate.Name(body.StudentName); !ok {
		return fail(c, fiber.StatusBadRequest, "invalid student name")
	}
	regNo, ok := validate.RegNo(body.RegistrationNumber)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid registration number")
	}
	if body.Branch == "" {
		return fail(c, fiber.StatusBadRequest, "missing branch")
	}
	expectedReturn, ok := validate.TimeOfDay(body.ExpectedReturnTime)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "expected return time must be HH:MM")
	}

	borrower := domain.Borrower{
		StudentName:        body.StudentName,
		RegistrationNumber: regNo,
		Branch:             body.Branch,
	}
	rec, err := h.Ledger.Issue(id, body.Quantity, borrower, expectedReturn)
	if err != nil {
		applog.Error(c, "issue.fail", err, map[string]any{"equipment": id, "qty": body.Quantity})
		return failDomain(c, err)
	}
	applog.Audit(c, "issue.create", map[string]any{"record": rec.ID, "equipment": id, "qty": rec.Quantity, "student": regNo})
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// GET /api/v1/issues: promotes due records first, then returns what is still
// issued, so the view never shows a record past its deadline.
func (h *IssueHandler) ListIssued(c *fiber.Ctx) error {
	moved, err := h.Overdue.Promote(time.Now())
	if err != nil {
		applog.Error(c, "overdue.promote.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not check overdue items")
	}
	if moved > 0 {
		applog.Info(c, "overdue.promote", map[string]any{"moved": moved})
	}

	recs, err := h.Issues.ListIssued()
	if err != nil {
		applog.Error(c, "issue.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load issued equipment")
	}
	return c.JSON(filterRecords(recs, c.Query("branch"), c.Query("q")))
}

// GET /api/v1/overdue
func (h *IssueHandler) ListOverdue(c *fiber.Ctx) error {
	recs, err := h.Issues.ListOverdue()
	if err != nil {
		applog.Error(c, "overdue.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load overdue equipment")
	}
	return c.JSON(filterRecords(recs, c.Query("branch"), c.Query("q")))
}

// POST /api/v1/issues/:id/return: works for issued and overdue records
func (h *IssueHandler) Return(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "invalid id")
	}
	entry, err := h.Ledger.Return(id)
	if err != nil {
		applog.Error(c, "issue.return.fail", err, map[string]any{"record": id})
		return failDomain(c, err)
	}
	applog.Audit(c, "issue.return", map[string]any{"record": id, "wasOverdue": entry.WasOverdue})
	return c.JSON(entry)
}

// GET /api/v1/logs: the historical ledger
func (h *IssueHandler) ListLogs(c *fiber.Ctx) error {
	logs, err := h.Issues.ListLogs()
	if err != nil {
		applog.Error(c, "logs.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load logs")
	}
	return c.JSON(logs)
}

// filterRecords applies the optional branch and free-text filters.
func filterRecords(recs []domain.IssueRecord, branch, q string) []domain.IssueRecord {
	if branch == "" && q == "" {
		return recs
	}
	out := make([]domain.IssueRecord, 0, len(recs))
	for _, r := range recs {
		if branch != "" && r.Branch != branch {
			continue
		}
		if q != "" && !containsFold(r.StudentName, q) && !containsFold(r.EquipmentName, q) {
			continue
		}
		out = append(out, r)
	}
	return out
}
