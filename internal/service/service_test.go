package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/lifecycle"
	"github.com/spec-kit/lostfound-service/internal/repository"
)

var (
	alice = domain.Identity{ID: "alice", Role: domain.RoleUser}
	bob   = domain.Identity{ID: "bob", Role: domain.RoleUser}
	mod   = domain.Identity{ID: "mod", Role: domain.RoleModerator}
)

type harness struct {
	items       repository.ItemRepository
	users       repository.UserRepository
	transitions repository.ItemTransitionRepository
	itemSvc     *ItemService
	moderation  *ModerationService
	claims      *ClaimService
}

func newHarness(t *testing.T, policy config.MutationPolicy) *harness {
	t.Helper()
	h := &harness{
		items:       repository.NewMemoryItemRepository(),
		users:       repository.NewMemoryUserRepository(),
		transitions: repository.NewMemoryItemTransitionRepository(),
	}
	ctx := context.Background()
	for _, u := range []domain.User{
		{ID: alice.ID, Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser},
		{ID: bob.ID, Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser},
		{ID: mod.ID, Name: "Morgan", Email: "mod@example.com", Role: domain.RoleModerator},
	} {
		user := u
		require.NoError(t, h.users.Create(ctx, &user))
	}

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher(logger)
	NewAuditService(dispatcher, h.transitions, logger).RegisterHandlers()

	engine := lifecycle.NewEngine(h.items, dispatcher, logger)
	names := NewNameResolver(h.users, nil, logger)
	h.itemSvc = NewItemService(ItemDependencies{
		Engine:     engine,
		ItemRepo:   h.items,
		Names:      names,
		Dispatcher: dispatcher,
		Policy:     policy,
		Logger:     logger,
	})
	h.moderation = NewModerationService(engine, h.items, h.transitions, names)
	h.claims = NewClaimService(engine, names)
	return h
}

func (h *harness) report(t *testing.T, actor domain.Identity) *ItemView {
	t.Helper()
	view, err := h.itemSvc.Report(context.Background(), actor, lifecycle.CreateInput{
		Title:       "Wallet",
		Description: "Brown leather wallet",
		Location:    "Gym",
		Category:    domain.ItemCategoryLost,
	})
	require.NoError(t, err)
	return view
}

func strPtr(s string) *string { return &s }
