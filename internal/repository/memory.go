package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// memoryItemRepository keeps items in process memory. A single mutex makes
// every write, including the conditional status swap, atomic.
type memoryItemRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]*domain.Item
	now   func() time.Time
}

// NewMemoryItemRepository returns an in-process implementation used for
// development and tests.
func NewMemoryItemRepository() ItemRepository {
	return &memoryItemRepository{items: make(map[string]*domain.Item), now: time.Now}
}

func (r *memoryItemRepository) Create(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[item.ID]; exists {
		return ErrDuplicate
	}
	now := r.now()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.items[item.ID] = item.Clone()
	r.order = append(r.order, item.ID)
	return nil
}

func (r *memoryItemRepository) GetByID(_ context.Context, id string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return item.Clone(), nil
}

func (r *memoryItemRepository) List(_ context.Context, filter ItemFilter) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Item
	for _, id := range r.order {
		item := r.items[id]
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, item.Status) {
			continue
		}
		if filter.ReportedBy != nil && item.ReportedBy != *filter.ReportedBy {
			continue
		}
		result = append(result, *item.Clone())
	}
	return result, nil
}

func (r *memoryItemRepository) CompareAndSwapStatus(_ context.Context, id string, expected domain.ItemStatus, change domain.StatusChange) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if item.Status != expected {
		return nil, &StatusMismatchError{Expected: expected, Current: item.Clone()}
	}
	next := item.Clone()
	change.Apply(next)
	next.UpdatedAt = r.now()
	r.items[id] = next
	return next.Clone(), nil
}

func (r *memoryItemRepository) Patch(_ context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Empty() {
		return item.Clone(), nil
	}
	next := item.Clone()
	patch.Apply(next)
	next.UpdatedAt = r.now()
	r.items[id] = next
	return next.Clone(), nil
}

func (r *memoryItemRepository) Delete(_ context.Context, id string) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.items, id)
	for i, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return item, nil
}

func containsStatus(statuses []domain.ItemStatus, status domain.ItemStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

type memoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	byEmail map[string]string
}

// NewMemoryUserRepository returns an in-process account store.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]domain.User), byEmail: make(map[string]string)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return ErrDuplicate
	}
	if _, exists := r.users[user.ID]; exists {
		return ErrDuplicate
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	r.byEmail[email] = user.ID
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	user := r.users[id]
	return &user, nil
}

func (r *memoryUserRepository) ListByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			result = append(result, user)
		}
	}
	return result, nil
}

type memoryItemTransitionRepository struct {
	mu          sync.RWMutex
	transitions map[string][]domain.ItemTransition
}

// NewMemoryItemTransitionRepository returns an in-process transition log.
func NewMemoryItemTransitionRepository() ItemTransitionRepository {
	return &memoryItemTransitionRepository{transitions: make(map[string][]domain.ItemTransition)}
}

func (r *memoryItemTransitionRepository) Append(_ context.Context, transition *domain.ItemTransition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if transition.CreatedAt.IsZero() {
		transition.CreatedAt = time.Now()
	}
	r.transitions[transition.ItemID] = append(r.transitions[transition.ItemID], *transition)
	return nil
}

func (r *memoryItemTransitionRepository) ListByItem(_ context.Context, itemID string) ([]domain.ItemTransition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.ItemTransition(nil), r.transitions[itemID]...), nil
}
