package service

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/lifecycle"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

// ItemService coordinates item reporting, reads and generic mutations.
type ItemService struct {
	engine     *lifecycle.Engine
	items      repository.ItemRepository
	names      *NameResolver
	dispatcher events.Dispatcher
	policy     config.MutationPolicy
	logger     *zap.Logger
}

// ItemDependencies bundles collaborators for the item service.
type ItemDependencies struct {
	Engine     *lifecycle.Engine
	ItemRepo   repository.ItemRepository
	Names      *NameResolver
	Dispatcher events.Dispatcher
	Policy     config.MutationPolicy
	Logger     *zap.Logger
}

// NewItemService constructs the service.
func NewItemService(deps ItemDependencies) *ItemService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := deps.Policy
	if policy == "" {
		policy = config.MutationPolicyOpen
	}
	return &ItemService{
		engine:     deps.Engine,
		items:      deps.ItemRepo,
		names:      deps.Names,
		dispatcher: deps.Dispatcher,
		policy:     policy,
		logger:     logger,
	}
}

// Report creates a Pending item owned by actor.
func (s *ItemService) Report(ctx context.Context, actor domain.Identity, input lifecycle.CreateInput) (*ItemView, error) {
	item, err := s.engine.Create(ctx, actor, input)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, item)
}

// ListApproved returns the public catalogue.
func (s *ItemService) ListApproved(ctx context.Context) ([]ItemView, error) {
	return s.list(ctx, repository.ItemFilter{Statuses: []domain.ItemStatus{domain.ItemStatusApproved}})
}

// ListAll returns every item regardless of status.
func (s *ItemService) ListAll(ctx context.Context) ([]ItemView, error) {
	return s.list(ctx, repository.ItemFilter{})
}

// Get returns one item.
func (s *ItemService) Get(ctx context.Context, id string) (*ItemView, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return s.view(ctx, item)
}

// UpdateInput is a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Location     *string    `json:"location"`
	Category     *string    `json:"category"`
	DateReported *time.Time `json:"dateReported"`
	Status       *string    `json:"status"`
}

// Validate trims the provided text fields and checks them.
func (in *UpdateInput) Validate() error {
	for _, field := range []**string{&in.Title, &in.Description, &in.Location} {
		if *field != nil {
			trimmed := strings.TrimSpace(**field)
			*field = &trimmed
		}
	}
	return validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.NilOrNotEmpty),
		validation.Field(&in.Description, validation.NilOrNotEmpty),
		validation.Field(&in.Location, validation.NilOrNotEmpty),
		validation.Field(&in.Status,
			validation.NilOrNotEmpty,
			validation.In(
				string(domain.ItemStatusPending),
				string(domain.ItemStatusApproved),
				string(domain.ItemStatusClaimed),
				string(domain.ItemStatusRejected),
			).Error("Invalid status value"),
		),
	)
}

func (in UpdateInput) patch() domain.ItemPatch {
	patch := domain.ItemPatch{
		Title:        in.Title,
		Description:  in.Description,
		Location:     in.Location,
		DateReported: in.DateReported,
	}
	if in.Status != nil {
		status := domain.ItemStatus(*in.Status)
		patch.Status = &status
	}
	return patch
}

func (in UpdateInput) fields() []string {
	var fields []string
	if in.Title != nil {
		fields = append(fields, "title")
	}
	if in.Description != nil {
		fields = append(fields, "description")
	}
	if in.Location != nil {
		fields = append(fields, "location")
	}
	if in.DateReported != nil {
		fields = append(fields, "dateReported")
	}
	if in.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}

// Update applies a generic patch. The status field is checked against the
// enum only; no lifecycle edge is enforced on this path.
func (s *ItemService) Update(ctx context.Context, actor domain.Identity, id string, input UpdateInput) (*ItemView, error) {
	if err := input.Validate(); err != nil {
		return nil, apperrors.FromValidation(err)
	}

	current, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if input.Category != nil && domain.ItemCategory(*input.Category) != current.Category {
		return nil, apperrors.NewValidationError("category cannot be changed", map[string]any{"category": "immutable"})
	}
	if err := s.authorizeMutation(actor, current, input.Status != nil); err != nil {
		return nil, err
	}

	updated, err := s.items.Patch(ctx, id, input.patch())
	if err != nil {
		return nil, mapStoreError(err)
	}

	payload := events.ItemUpdatedPayload{Fields: input.fields()}
	if input.Status != nil && updated.Status != current.Status {
		from, to := current.Status, updated.Status
		payload.StatusFrom = &from
		payload.StatusTo = &to
	}
	s.publish(ctx, events.EventItemUpdated, actor, id, payload)
	return s.view(ctx, updated)
}

// Delete removes an item at any status.
func (s *ItemService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	current, err := s.items.GetByID(ctx, id)
	if err != nil {
		return mapStoreError(err)
	}
	if err := s.authorizeMutation(actor, current, false); err != nil {
		return err
	}

	deleted, err := s.items.Delete(ctx, id)
	if err != nil {
		return mapStoreError(err)
	}
	s.publish(ctx, events.EventItemDeleted, actor, id, events.ItemDeletedPayload{LastStatus: deleted.Status, Title: deleted.Title})
	return nil
}

func (s *ItemService) authorizeMutation(actor domain.Identity, item *domain.Item, touchesStatus bool) error {
	if actor.ID == "" {
		return apperrors.NewUnauthorized("authentication required")
	}
	privileged := actor.IsModerator() || actor.ID == item.ReportedBy
	switch s.policy {
	case config.MutationPolicyOwner:
		if !privileged {
			return apperrors.NewForbidden("only the reporter or a moderator may modify this item")
		}
		if touchesStatus && !actor.IsModerator() {
			return apperrors.NewForbidden("moderator role required to change status")
		}
	default:
		if !privileged || (touchesStatus && !actor.IsModerator()) {
			s.logger.Warn("unprivileged item mutation allowed by open policy",
				zap.String("item_id", item.ID),
				zap.String("actor_id", actor.ID),
				zap.Bool("status_change", touchesStatus))
		}
	}
	return nil
}

func (s *ItemService) list(ctx context.Context, filter repository.ItemFilter) ([]ItemView, error) {
	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, mapStoreError(err)
	}
	views, err := s.names.Views(ctx, items)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return views, nil
}

func (s *ItemService) view(ctx context.Context, item *domain.Item) (*ItemView, error) {
	view, err := s.names.View(ctx, item)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return view, nil
}

func (s *ItemService) publish(ctx context.Context, eventType events.EventType, actor domain.Identity, itemID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ItemID:    itemID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("Item", nil)
	default:
		return apperrors.NewInternalError(err)
	}
}
