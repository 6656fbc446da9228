package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/service"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

// ItemsHandler exposes item reporting, browsing and claiming.
type ItemsHandler struct {
	items  *service.ItemService
	claims *service.ClaimService
}

// NewItemsHandler constructs handler.
func NewItemsHandler(items *service.ItemService, claims *service.ClaimService) *ItemsHandler {
	return &ItemsHandler{items: items, claims: claims}
}

// Create handles POST /items.
func (h *ItemsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	view, err := h.items.Report(c.UserContext(), identity(c), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewItemResponse(view)})
}

// ListApproved handles GET /items/approved.
func (h *ItemsHandler) ListApproved(c *fiber.Ctx) error {
	views, err := h.items.ListApproved(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewItemListResponse(views)})
}

// ListAll handles GET /items.
func (h *ItemsHandler) ListAll(c *fiber.Ctx) error {
	views, err := h.items.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewItemListResponse(views)})
}

// Get handles GET /items/:id.
func (h *ItemsHandler) Get(c *fiber.Ctx) error {
	view, err := h.items.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewItemResponse(view)})
}

// Update handles PUT /items/:id.
func (h *ItemsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	view, err := h.items.Update(c.UserContext(), identity(c), c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewItemResponse(view)})
}

// Delete handles DELETE /items/:id.
func (h *ItemsHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.items.Delete(c.UserContext(), identity(c), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    fiber.Map{"id": id},
		"message": "Item deleted successfully",
	})
}

// Claim handles POST /items/:id/claim.
func (h *ItemsHandler) Claim(c *fiber.Ctx) error {
	view, err := h.claims.Claim(c.UserContext(), identity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    dto.NewItemResponse(view),
		"message": "Item claimed successfully",
	})
}

// identity returns the caller attached by the auth middleware, or the zero
// identity on public routes.
func identity(c *fiber.Ctx) domain.Identity {
	id, _ := auth.IdentityFromContext(c)
	return id
}
