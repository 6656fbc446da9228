package service

import (
	"context"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/lifecycle"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

// ClaimService lets authenticated users claim approved items.
type ClaimService struct {
	engine *lifecycle.Engine
	names  *NameResolver
}

// NewClaimService constructs the service.
func NewClaimService(engine *lifecycle.Engine, names *NameResolver) *ClaimService {
	return &ClaimService{engine: engine, names: names}
}

// Claim records actor as the claimant and returns the item with the
// reporter and claimant resolved.
func (s *ClaimService) Claim(ctx context.Context, actor domain.Identity, itemID string) (*ItemView, error) {
	item, err := s.engine.Claim(ctx, actor, itemID)
	if err != nil {
		return nil, err
	}
	view, err := s.names.View(ctx, item)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return view, nil
}
