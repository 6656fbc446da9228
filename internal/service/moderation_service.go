package service

import (
	"context"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/lifecycle"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

// ModerationService exposes the moderator queue and decisions.
type ModerationService struct {
	engine      *lifecycle.Engine
	items       repository.ItemRepository
	transitions repository.ItemTransitionRepository
	names       *NameResolver
}

// NewModerationService constructs the service.
func NewModerationService(engine *lifecycle.Engine, items repository.ItemRepository, transitions repository.ItemTransitionRepository, names *NameResolver) *ModerationService {
	return &ModerationService{engine: engine, items: items, transitions: transitions, names: names}
}

// ListPending returns items awaiting a decision.
func (s *ModerationService) ListPending(ctx context.Context, actor domain.Identity) ([]ItemView, error) {
	if !actor.IsModerator() {
		return nil, apperrors.NewForbidden("moderator role required")
	}
	items, err := s.items.List(ctx, repository.ItemFilter{Statuses: []domain.ItemStatus{domain.ItemStatusPending}})
	if err != nil {
		return nil, mapStoreError(err)
	}
	views, err := s.names.Views(ctx, items)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return views, nil
}

// Approve publishes a pending item.
func (s *ModerationService) Approve(ctx context.Context, actor domain.Identity, itemID string) (*ItemView, error) {
	item, err := s.engine.Approve(ctx, actor, itemID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, item)
}

// Reject closes a pending item.
func (s *ModerationService) Reject(ctx context.Context, actor domain.Identity, itemID string) (*ItemView, error) {
	item, err := s.engine.Reject(ctx, actor, itemID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, item)
}

// History lists recorded transitions for an item, oldest first. The log
// outlives the item itself.
func (s *ModerationService) History(ctx context.Context, actor domain.Identity, itemID string) ([]domain.ItemTransition, error) {
	if !actor.IsModerator() {
		return nil, apperrors.NewForbidden("moderator role required")
	}
	transitions, err := s.transitions.ListByItem(ctx, itemID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(transitions) == 0 {
		if _, err := s.items.GetByID(ctx, itemID); err != nil {
			return nil, mapStoreError(err)
		}
	}
	return transitions, nil
}

func (s *ModerationService) resolve(ctx context.Context, item *domain.Item) (*ItemView, error) {
	view, err := s.names.View(ctx, item)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return view, nil
}
