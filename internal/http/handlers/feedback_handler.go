package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gymstock/internal/domain"
	applog "gymstock/internal/log"
	"gymstock/internal/repos"
)

type FeedbackHandler struct {
	Feedback *repos.FeedbackRepo
}

// POST /api/v1/feedback: student submits facility/equipment feedback
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var body struct {
		SportType string `json:"sportType"`
		Rating    int    `json:"rating"`
		Comments  string `json:"comments"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Rating < 1 || body.Rating > 5 {
		return fail(c, fiber.StatusBadRequest, "rating must be between 1 and 5")
	}
	if body.SportType == "" {
		return fail(c, fiber.StatusBadRequest, "missing sport type")
	}

	u := currentUser(c)
	f := &domain.Feedback{
		ID:                 uuid.NewString(),
		StudentName:        u.Name,
		RegistrationNumber: u.RegistrationNumber,
		SportType:          body.SportType,
		Rating:             body.Rating,
		Comments:           body.Comments,
		Status:             "pending",
		SubmittedAt:        time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Feedback.Insert(f); err != nil {
		applog.Error(c, "feedback.submit.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not save feedback")
	}
	applog.Audit(c, "feedback.submit", map[string]any{"id": f.ID, "rating": f.Rating})
	return c.Status(fiber.StatusCreated).JSON(f)
}

// GET /api/v1/feedback/mine
func (h *FeedbackHandler) Mine(c *fiber.Ctx) error {
	u := currentUser(c)
	all, err := h.Feedback.List("")
	if err != nil {
		applog.Error(c, "feedback.mine.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not load feedback")
	}
	mine := make([]domain.Feedback, 0, len(all))
	for _, f := range all {
		if f.RegistrationNumber == u.RegistrationNumber {
			mine = append(mine, f)
		}
	}
	return c.JSON(mine)
}
