// Package lifecycle owns the item state machine: which status edges exist,
// who may trigger them, and how each one is committed against the store.
package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

// RejectedByModerator is the reason recorded with a rejection.
const RejectedByModerator = "rejected by moderator"

// Engine validates and applies lifecycle transitions.
type Engine struct {
	items      repository.ItemRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for dateReported and claimDate.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides how item and event ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine wires the engine. dispatcher may be nil.
func NewEngine(items repository.ItemRepository, dispatcher events.Dispatcher, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		items:      items,
		dispatcher: dispatcher,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateInput carries the caller-supplied fields of a new report.
type CreateInput struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Location     string              `json:"location"`
	Category     domain.ItemCategory `json:"category"`
	DateReported *time.Time          `json:"dateReported"`
}

// Validate trims the text fields in place and checks them.
func (in *CreateInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	return validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Description, validation.Required),
		validation.Field(&in.Location, validation.Required),
		validation.Field(&in.Category,
			validation.Required,
			validation.By(validCategory),
		),
	)
}

func validCategory(value interface{}) error {
	if category, _ := value.(domain.ItemCategory); !category.Valid() {
		return errors.New("must be either lost or found")
	}
	return nil
}

// Create stores a new Pending item reported by actor.
func (e *Engine) Create(ctx context.Context, actor domain.Identity, in CreateInput) (*domain.Item, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if err := in.Validate(); err != nil {
		return nil, apperrors.FromValidation(err)
	}

	reportedAt := e.now()
	if in.DateReported != nil && !in.DateReported.IsZero() {
		reportedAt = in.DateReported.UTC()
	}

	item := &domain.Item{
		ID:           e.newID(),
		Title:        in.Title,
		Description:  in.Description,
		Location:     in.Location,
		Category:     in.Category,
		DateReported: reportedAt,
		Status:       domain.ItemStatusPending,
		ReportedBy:   actor.ID,
	}
	if err := e.items.Create(ctx, item); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	e.publish(ctx, events.EventItemReported, actor, item.ID, events.StatusChangedPayload{To: domain.ItemStatusPending})
	return item, nil
}

// Approve moves a Pending item to Approved and records the approver.
func (e *Engine) Approve(ctx context.Context, actor domain.Identity, itemID string) (*domain.Item, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	item, err := e.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.ItemStatusPending {
		return nil, conflict("Only pending items can be approved", item)
	}

	approver := actor.ID
	updated, err := e.swap(ctx, item.ID, domain.ItemStatusPending,
		domain.StatusChange{To: domain.ItemStatusApproved, ApprovedBy: &approver},
		"Only pending items can be approved")
	if err != nil {
		return nil, err
	}

	e.publish(ctx, events.EventItemApproved, actor, updated.ID, statusPayload(domain.ItemStatusPending, domain.ItemStatusApproved))
	return updated, nil
}

// Reject moves a Pending item to Rejected.
func (e *Engine) Reject(ctx context.Context, actor domain.Identity, itemID string) (*domain.Item, error) {
	if err := requireModerator(actor); err != nil {
		return nil, err
	}
	item, err := e.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.ItemStatusPending {
		return nil, conflict("Only pending items can be rejected", item)
	}

	updated, err := e.swap(ctx, item.ID, domain.ItemStatusPending,
		domain.StatusChange{To: domain.ItemStatusRejected},
		"Only pending items can be rejected")
	if err != nil {
		return nil, err
	}

	payload := statusPayload(domain.ItemStatusPending, domain.ItemStatusRejected)
	payload.Reason = RejectedByModerator
	e.publish(ctx, events.EventItemRejected, actor, updated.ID, payload)
	return updated, nil
}

// Claim moves an Approved item to Claimed on behalf of a non-owner.
func (e *Engine) Claim(ctx context.Context, actor domain.Identity, itemID string) (*domain.Item, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	item, err := e.load(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := claimPrecondition(item); err != nil {
		return nil, err
	}
	if item.ReportedBy == actor.ID {
		return nil, apperrors.NewForbidden("You cannot claim an item you reported")
	}

	claimant := actor.ID
	claimedAt := e.now()
	updated, err := e.items.CompareAndSwapStatus(ctx, item.ID, domain.ItemStatusApproved, domain.StatusChange{
		To:         domain.ItemStatusClaimed,
		ClaimantID: &claimant,
		ClaimDate:  &claimedAt,
	})
	if err != nil {
		var mismatch *repository.StatusMismatchError
		if errors.As(err, &mismatch) {
			return nil, claimPrecondition(mismatch.Current)
		}
		return nil, e.storeError(err)
	}

	e.publish(ctx, events.EventItemClaimed, actor, updated.ID, statusPayload(domain.ItemStatusApproved, domain.ItemStatusClaimed))
	return updated, nil
}

func claimPrecondition(item *domain.Item) error {
	switch {
	case item == nil:
		return apperrors.NewNotFound("Item", nil)
	case item.Status == domain.ItemStatusClaimed:
		return conflict("Item already claimed", item)
	case item.Status != domain.ItemStatusApproved:
		return conflict("Only approved items can be claimed", item)
	}
	return nil
}

func requireModerator(actor domain.Identity) error {
	if actor.ID == "" {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.IsModerator() {
		return apperrors.NewForbidden("moderator role required")
	}
	return nil
}

func (e *Engine) load(ctx context.Context, itemID string) (*domain.Item, error) {
	item, err := e.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, e.storeError(err)
	}
	return item, nil
}

// swap commits a status edge. A lost race is reported with the state the
// store observed.
func (e *Engine) swap(ctx context.Context, itemID string, expected domain.ItemStatus, change domain.StatusChange, conflictMsg string) (*domain.Item, error) {
	updated, err := e.items.CompareAndSwapStatus(ctx, itemID, expected, change)
	if err == nil {
		return updated, nil
	}
	var mismatch *repository.StatusMismatchError
	if errors.As(err, &mismatch) {
		return nil, conflict(conflictMsg, mismatch.Current)
	}
	return nil, e.storeError(err)
}

func (e *Engine) storeError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("Item", nil)
	}
	e.logger.Error("item store failure", zap.Error(err))
	return apperrors.NewInternalError(err)
}

func conflict(message string, current *domain.Item) error {
	details := map[string]any{}
	if current != nil {
		details["currentStatus"] = string(current.Status)
		details["terminal"] = current.Status.Terminal()
	}
	return apperrors.NewConflict(message, details)
}

func statusPayload(from, to domain.ItemStatus) events.StatusChangedPayload {
	return events.StatusChangedPayload{From: &from, To: to}
}

func (e *Engine) publish(ctx context.Context, eventType events.EventType, actor domain.Identity, itemID string, payload any) {
	if e.dispatcher == nil {
		return
	}
	_ = e.dispatcher.Publish(ctx, events.Event{
		ID:        e.newID(),
		Type:      eventType,
		ItemID:    itemID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Timestamp: e.now(),
		Payload:   payload,
	})
}
