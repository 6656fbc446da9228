package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/repository"
)

// UserRef is a user id paired with its display name.
type UserRef struct {
	ID   string
	Name string
}

// ItemView is an item with its user references resolved for display.
type ItemView struct {
	Item       *domain.Item
	ReportedBy UserRef
	ApprovedBy *UserRef
	Claimant   *UserRef
}

// NameResolver maps user ids to display names, consulting the optional
// cache before the user store. Cache failures only cost a store lookup.
type NameResolver struct {
	users  repository.UserRepository
	cache  repository.NameCache
	logger *zap.Logger
}

// NewNameResolver builds a resolver. cache may be nil.
func NewNameResolver(users repository.UserRepository, cache repository.NameCache, logger *zap.Logger) *NameResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NameResolver{users: users, cache: cache, logger: logger}
}

// Names returns display names for ids. Unknown ids are absent from the map.
func (r *NameResolver) Names(ctx context.Context, ids []string) (map[string]string, error) {
	ids = uniqueIDs(ids)
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	missing := ids
	if r.cache != nil {
		cached, err := r.cache.GetNames(ctx, ids)
		if err != nil {
			r.logger.Warn("name cache read failed", zap.Error(err))
		} else {
			missing = missing[:0:0]
			for _, id := range ids {
				if name, ok := cached[id]; ok {
					names[id] = name
					continue
				}
				missing = append(missing, id)
			}
		}
	}
	if len(missing) == 0 {
		return names, nil
	}

	users, err := r.users.ListByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	fetched := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID] = user.Name
		fetched[user.ID] = user.Name
	}
	if r.cache != nil && len(fetched) > 0 {
		if err := r.cache.SetNames(ctx, fetched); err != nil {
			r.logger.Warn("name cache write failed", zap.Error(err))
		}
	}
	return names, nil
}

// Views resolves the user references of items in one batch.
func (r *NameResolver) Views(ctx context.Context, items []domain.Item) ([]ItemView, error) {
	var ids []string
	for _, item := range items {
		ids = append(ids, item.ReportedBy)
		if item.ApprovedBy != nil {
			ids = append(ids, *item.ApprovedBy)
		}
		if item.ClaimantID != nil {
			ids = append(ids, *item.ClaimantID)
		}
	}
	names, err := r.Names(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, len(items))
	for i := range items {
		item := items[i]
		views[i] = buildView(&item, names)
	}
	return views, nil
}

// View resolves a single item.
func (r *NameResolver) View(ctx context.Context, item *domain.Item) (*ItemView, error) {
	views, err := r.Views(ctx, []domain.Item{*item})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func buildView(item *domain.Item, names map[string]string) ItemView {
	view := ItemView{
		Item:       item,
		ReportedBy: UserRef{ID: item.ReportedBy, Name: names[item.ReportedBy]},
	}
	if item.ApprovedBy != nil {
		view.ApprovedBy = &UserRef{ID: *item.ApprovedBy, Name: names[*item.ApprovedBy]}
	}
	if item.ClaimantID != nil {
		view.Claimant = &UserRef{ID: *item.ClaimantID, Name: names[*item.ClaimantID]}
	}
	return view
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
