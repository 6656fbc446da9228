package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lostfound-service/internal/client"
	"github.com/spec-kit/lostfound-service/internal/domain"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

func TestView_RefreshMirrorsApprovedItems(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register("Alice", "alice@example.com")
	mod := h.session("mod@example.com", "modpass")

	first, err := alice.API().Report(ctx, validReport())
	require.NoError(t, err)
	_, err = alice.API().Report(ctx, validReport())
	require.NoError(t, err)
	_, err = mod.API().Approve(ctx, first.ID)
	require.NoError(t, err)

	view := client.NewView(alice, nil)
	require.NoError(t, view.Dispatch(ctx, client.Refresh{}))

	items := view.Items()
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, items[0].ID)
}

func TestView_SubmitValidatesBeforeRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register("Alice", "alice@example.com")
	notes := &recorder{}
	view := client.NewView(alice, notes)

	req := validReport()
	req.Description = "   too short   "
	err := view.Dispatch(ctx, client.Submit{Request: req})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Equal(t, client.LevelError, notes.last().Level)

	all, err := alice.API().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, view.Dispatch(ctx, client.Submit{Request: validReport()}))
	assert.Equal(t, client.Notification{Level: client.LevelSuccess, Message: "Item submitted for review"}, notes.last())
	assert.Empty(t, view.Items())
}

func TestView_FailedActionKeepsState(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register("Alice", "alice@example.com")
	mod := h.session("mod@example.com", "modpass")

	item, err := alice.API().Report(ctx, validReport())
	require.NoError(t, err)
	_, err = mod.API().Approve(ctx, item.ID)
	require.NoError(t, err)

	notes := &recorder{}
	view := client.NewView(alice, notes)
	require.NoError(t, view.Dispatch(ctx, client.Refresh{}))
	before := view.Items()

	err = view.Dispatch(ctx, client.Claim{ID: item.ID})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	assert.Equal(t, client.Notification{Level: client.LevelError, Message: "You cannot claim an item you reported"}, notes.last())
	assert.Equal(t, before, view.Items())

	err = view.Dispatch(ctx, client.Approve{ID: item.ID})
	require.Error(t, err)
	assert.Equal(t, before, view.Items())
}

func TestView_ConfirmedActionsUpdateState(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register("Alice", "alice@example.com")
	bob := h.register("Bob", "bob@example.com")
	mod := h.session("mod@example.com", "modpass")

	toApprove, err := alice.API().Report(ctx, validReport())
	require.NoError(t, err)
	toReject, err := alice.API().Report(ctx, validReport())
	require.NoError(t, err)

	modView := client.NewView(mod, nil)
	require.NoError(t, modView.Dispatch(ctx, client.Refresh{}))
	assert.Empty(t, modView.Items())

	require.NoError(t, modView.Dispatch(ctx, client.Approve{ID: toApprove.ID}))
	require.Len(t, modView.Items(), 1)
	assert.Equal(t, domain.ItemStatusApproved, modView.Items()[0].Status)

	require.NoError(t, modView.Dispatch(ctx, client.Reject{ID: toReject.ID}))
	require.Len(t, modView.Items(), 1)

	bobView := client.NewView(bob, nil)
	require.NoError(t, bobView.Dispatch(ctx, client.Refresh{}))
	require.NoError(t, bobView.Dispatch(ctx, client.Claim{ID: toApprove.ID}))
	require.Len(t, bobView.Items(), 1)
	assert.Equal(t, domain.ItemStatusClaimed, bobView.Items()[0].Status)

	require.NoError(t, modView.Dispatch(ctx, client.Delete{ID: toApprove.ID}))
	assert.Empty(t, modView.Items())
}
