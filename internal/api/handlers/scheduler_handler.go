package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/smartflow/internal/service"
	"github.com/maheshrc27/smartflow/internal/transfer"
)

type SchedulerHandler struct {
	s service.SchedulerService
}

func NewSchedulerHandler(service service.SchedulerService) *SchedulerHandler {
	return &SchedulerHandler{s: service}
}

func (h *SchedulerHandler) SchedulePost(c *fiber.Ctx) error {
	var req transfer.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.PostID == "" || req.ScheduledAt == "" {
		return badRequest(c, "postId and scheduledAt are required")
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return badRequest(c, "scheduledAt must be an ISO-8601 timestamp")
	}

	post, err := h.s.Schedule(c.Context(), GetTenantID(c), req.PostID, scheduledAt)
	if err != nil {
		return schedulerError(c, err, "Failed to schedule post")
	}

	return c.JSON(fiber.Map{
		"message": "Post scheduled successfully",
		"post":    post,
	})
}

func (h *SchedulerHandler) CancelPost(c *fiber.Ctx) error {
	post, err := h.s.Cancel(c.Context(), GetTenantID(c), c.Params("postId"))
	if err != nil {
		return schedulerError(c, err, "Failed to cancel scheduled post")
	}

	return c.JSON(fiber.Map{
		"message": "Scheduled post cancelled successfully",
		"post":    post,
	})
}

func (h *SchedulerHandler) ListScheduled(c *fiber.Ctx) error {
	posts, err := h.s.ListScheduled(c.Context(), GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// schedulerError reports every caller-side failure, including a missing post, as 400.
func schedulerError(c *fiber.Ctx, err error, msg string) error {
	if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrInvalidInput) || errors.Is(err, service.ErrInvalidState) {
		return badRequest(c, msg+": "+err.Error())
	}
	return respondError(c, err)
}
