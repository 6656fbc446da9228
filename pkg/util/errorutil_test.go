package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictRendersAsBadRequest(t *testing.T) {
	err := NewConflict("item already claimed", nil)

	de := ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, CodeConflict, de.Code)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
}

func TestHasCodeSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("approve: %w", NewForbidden("moderator role required"))

	assert.True(t, HasCode(err, CodeForbidden))
	assert.False(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeForbidden))
}

func TestToDomainErrorMapsFiberErrors(t *testing.T) {
	de := ToDomainError(fiber.NewError(http.StatusNotFound, "Cannot GET /nope"))

	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "Cannot GET /nope", de.Message)
}

func TestToDomainErrorWrapsUnknownAsInternal(t *testing.T) {
	cause := errors.New("connection refused")
	de := ToDomainError(cause)

	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.ErrorIs(t, de, cause)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestFromValidation(t *testing.T) {
	type input struct {
		Title string `json:"title"`
	}
	in := input{}
	err := FromValidation(validation.ValidateStruct(&in, validation.Field(&in.Title, validation.Required)))

	require.Error(t, err)
	domainErr := ToDomainError(err)
	assert.Equal(t, CodeValidation, domainErr.Code)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Contains(t, domainErr.Details, "title")

	assert.NoError(t, FromValidation(nil))
}
