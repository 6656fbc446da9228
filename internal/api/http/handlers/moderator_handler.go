package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/service"
)

// ModeratorHandler exposes the moderation queue.
type ModeratorHandler struct {
	moderation *service.ModerationService
}

// NewModeratorHandler constructs handler.
func NewModeratorHandler(moderation *service.ModerationService) *ModeratorHandler {
	return &ModeratorHandler{moderation: moderation}
}

// Pending handles GET /moderator/pending.
func (h *ModeratorHandler) Pending(c *fiber.Ctx) error {
	views, err := h.moderation.ListPending(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewItemListResponse(views)})
}

// Approve handles PUT /moderator/approve/:id.
func (h *ModeratorHandler) Approve(c *fiber.Ctx) error {
	view, err := h.moderation.Approve(c.UserContext(), identity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    dto.NewItemResponse(view),
		"message": "Item approved successfully",
	})
}

// Reject handles PUT /moderator/reject/:id.
func (h *ModeratorHandler) Reject(c *fiber.Ctx) error {
	view, err := h.moderation.Reject(c.UserContext(), identity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    dto.NewItemResponse(view),
		"message": "Item rejected successfully",
	})
}

// History handles GET /moderator/items/:id/history.
func (h *ModeratorHandler) History(c *fiber.Ctx) error {
	transitions, err := h.moderation.History(c.UserContext(), identity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTransitionListResponse(transitions)})
}
