package dto

import (
	"time"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/lifecycle"
	"github.com/spec-kit/lostfound-service/internal/service"
)

// CreateItemRequest payload.
type CreateItemRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	Category     string     `json:"category"`
	DateReported *time.Time `json:"dateReported"`
}

// ToInput converts the payload for the lifecycle engine.
func (r CreateItemRequest) ToInput() lifecycle.CreateInput {
	return lifecycle.CreateInput{
		Title:        r.Title,
		Description:  r.Description,
		Location:     r.Location,
		Category:     domain.ItemCategory(r.Category),
		DateReported: r.DateReported,
	}
}

// UpdateItemRequest payload. Absent fields are left unchanged.
type UpdateItemRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Location     *string    `json:"location"`
	Category     *string    `json:"category"`
	DateReported *time.Time `json:"dateReported"`
	Status       *string    `json:"status"`
}

// ToInput converts the payload for the item service.
func (r UpdateItemRequest) ToInput() service.UpdateInput {
	return service.UpdateInput{
		Title:        r.Title,
		Description:  r.Description,
		Location:     r.Location,
		Category:     r.Category,
		DateReported: r.DateReported,
		Status:       r.Status,
	}
}

// UserRef is an embedded user reference.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ItemResponse is the public item representation.
type ItemResponse struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Location     string              `json:"location"`
	Category     domain.ItemCategory `json:"category"`
	DateReported time.Time           `json:"dateReported"`
	Status       domain.ItemStatus   `json:"status"`
	ReportedBy   UserRef             `json:"reportedBy"`
	ApprovedBy   *UserRef            `json:"approvedBy"`
	Claimant     *UserRef            `json:"claimantId"`
	ClaimDate    *time.Time          `json:"claimDate"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// NewItemResponse maps a resolved item view.
func NewItemResponse(view *service.ItemView) ItemResponse {
	item := view.Item
	resp := ItemResponse{
		ID:           item.ID,
		Title:        item.Title,
		Description:  item.Description,
		Location:     item.Location,
		Category:     item.Category,
		DateReported: item.DateReported,
		Status:       item.Status,
		ReportedBy:   UserRef(view.ReportedBy),
		ClaimDate:    item.ClaimDate,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
	if view.ApprovedBy != nil {
		ref := UserRef(*view.ApprovedBy)
		resp.ApprovedBy = &ref
	}
	if view.Claimant != nil {
		ref := UserRef(*view.Claimant)
		resp.Claimant = &ref
	}
	return resp
}

// NewItemListResponse maps a slice of views. An empty result encodes as [].
func NewItemListResponse(views []service.ItemView) []ItemResponse {
	out := make([]ItemResponse, len(views))
	for i := range views {
		out[i] = NewItemResponse(&views[i])
	}
	return out
}

// TransitionResponse is one entry of an item's status history.
type TransitionResponse struct {
	ID        string             `json:"id"`
	ItemID    string             `json:"itemId"`
	From      *domain.ItemStatus `json:"from"`
	To        domain.ItemStatus  `json:"to"`
	ActorID   string             `json:"actorId"`
	Reason    string             `json:"reason,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

// NewTransitionListResponse maps transitions.
func NewTransitionListResponse(transitions []domain.ItemTransition) []TransitionResponse {
	out := make([]TransitionResponse, len(transitions))
	for i, t := range transitions {
		out[i] = TransitionResponse{
			ID:        t.ID,
			ItemID:    t.ItemID,
			From:      t.From,
			To:        t.To,
			ActorID:   t.ActorID,
			Reason:    t.Reason,
			CreatedAt: t.CreatedAt,
		}
	}
	return out
}
