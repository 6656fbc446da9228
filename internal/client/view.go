package client

import (
	"context"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/domain"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

// Level grades a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient message for the user.
type Notification struct {
	Level   Level
	Message string
}

// Notifier shows notifications.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// View mirrors the approved catalogue. It only changes after the server has
// confirmed an action; a failed action leaves it as it was.
type View struct {
	session  *Session
	notifier Notifier

	mu    sync.RWMutex
	items []Item
}

// NewView builds an empty view. notifier may be nil.
func NewView(session *Session, notifier Notifier) *View {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &View{session: session, notifier: notifier}
}

// Items returns a snapshot of the cached items.
func (v *View) Items() []Item {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]Item, len(v.items))
	copy(out, v.items)
	return out
}

// Command is an action against the view. The set of commands is closed.
type Command interface {
	run(ctx context.Context, v *View) (string, error)
}

// Dispatch runs cmd and reports its outcome through the notifier.
func (v *View) Dispatch(ctx context.Context, cmd Command) error {
	msg, err := cmd.run(ctx, v)
	if err != nil {
		v.notifier.Notify(Notification{Level: LevelError, Message: errorMessage(err)})
		return err
	}
	if msg != "" {
		v.notifier.Notify(Notification{Level: LevelSuccess, Message: msg})
	}
	return nil
}

// Refresh reloads the approved catalogue.
type Refresh struct{}

func (Refresh) run(ctx context.Context, v *View) (string, error) {
	items, err := v.session.API().ListApproved(ctx)
	if err != nil {
		return "", err
	}
	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
	return "", nil
}

// Submit reports a new item. It is pending review and so never enters the
// approved catalogue directly.
type Submit struct {
	Request dto.CreateItemRequest
}

// Validate applies the checks the server would, before any round trip.
func (s *Submit) Validate() error {
	s.Request.Title = strings.TrimSpace(s.Request.Title)
	s.Request.Description = strings.TrimSpace(s.Request.Description)
	s.Request.Location = strings.TrimSpace(s.Request.Location)
	return validation.ValidateStruct(&s.Request,
		validation.Field(&s.Request.Title, validation.Required),
		validation.Field(&s.Request.Description,
			validation.Required,
			validation.RuneLength(10, 0).Error("must be at least 10 characters"),
		),
		validation.Field(&s.Request.Location, validation.Required),
		validation.Field(&s.Request.Category,
			validation.Required,
			validation.In(string(domain.ItemCategoryLost), string(domain.ItemCategoryFound)).Error("must be either lost or found"),
		),
	)
}

func (s Submit) run(ctx context.Context, v *View) (string, error) {
	if err := s.Validate(); err != nil {
		return "", apperrors.FromValidation(err)
	}
	if _, err := v.session.API().Report(ctx, s.Request); err != nil {
		return "", err
	}
	return "Item submitted for review", nil
}

// Approve approves a pending item.
type Approve struct{ ID string }

func (c Approve) run(ctx context.Context, v *View) (string, error) {
	item, err := v.session.API().Approve(ctx, c.ID)
	if err != nil {
		return "", err
	}
	v.upsert(*item)
	return "Item approved", nil
}

// Reject rejects a pending item.
type Reject struct{ ID string }

func (c Reject) run(ctx context.Context, v *View) (string, error) {
	if _, err := v.session.API().Reject(ctx, c.ID); err != nil {
		return "", err
	}
	v.remove(c.ID)
	return "Item rejected", nil
}

// Claim claims an approved item for the signed-in user.
type Claim struct{ ID string }

func (c Claim) run(ctx context.Context, v *View) (string, error) {
	item, err := v.session.API().Claim(ctx, c.ID)
	if err != nil {
		return "", err
	}
	v.upsert(*item)
	return "Item claimed successfully", nil
}

// Delete removes an item.
type Delete struct{ ID string }

func (c Delete) run(ctx context.Context, v *View) (string, error) {
	if err := v.session.API().Delete(ctx, c.ID); err != nil {
		return "", err
	}
	v.remove(c.ID)
	return "Item deleted successfully", nil
}

func (v *View) upsert(item Item) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if v.items[i].ID == item.ID {
			v.items[i] = item
			return
		}
	}
	v.items = append(v.items, item)
}

func (v *View) remove(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.items[:0]
	for _, item := range v.items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	v.items = out
}

func errorMessage(err error) string {
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Code == apperrors.CodeInternal && domainErr.Err != nil {
		return err.Error()
	}
	return domainErr.Message
}
