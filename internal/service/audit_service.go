package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/repository"
)

// AuditService logs item events and records status changes in the
// transition log.
type AuditService struct {
	dispatcher  events.Dispatcher
	transitions repository.ItemTransitionRepository
	logger      *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, transitions repository.ItemTransitionRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher:  dispatcher,
		transitions: transitions,
		logger:      logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		a.dispatcher.Subscribe(eventType, a.logEvent)
	}
	a.dispatcher.Subscribe(events.EventItemReported, a.recordStatusChange)
	a.dispatcher.Subscribe(events.EventItemApproved, a.recordStatusChange)
	a.dispatcher.Subscribe(events.EventItemRejected, a.recordStatusChange)
	a.dispatcher.Subscribe(events.EventItemClaimed, a.recordStatusChange)
	a.dispatcher.Subscribe(events.EventItemUpdated, a.recordStatusOverwrite)
}

func (a *AuditService) logEvent(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("item_id", event.ItemID),
		zap.String("actor_id", event.ActorID),
		zap.String("actor_role", string(event.ActorRole)),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) recordStatusChange(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		return nil
	}
	return a.append(ctx, event, payload.From, payload.To, payload.Reason)
}

func (a *AuditService) recordStatusOverwrite(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ItemUpdatedPayload)
	if !ok || payload.StatusTo == nil {
		return nil
	}
	return a.append(ctx, event, payload.StatusFrom, *payload.StatusTo, "generic update")
}

func (a *AuditService) append(ctx context.Context, event events.Event, from *domain.ItemStatus, to domain.ItemStatus, reason string) error {
	if a.transitions == nil {
		return nil
	}
	return a.transitions.Append(ctx, &domain.ItemTransition{
		ID:        uuid.NewString(),
		ItemID:    event.ItemID,
		From:      from,
		To:        to,
		ActorID:   event.ActorID,
		Reason:    reason,
		CreatedAt: event.Timestamp,
	})
}
