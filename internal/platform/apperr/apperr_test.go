package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromValidation_SortsFields(t *testing.T) {
	err := validation.Errors{
		"species": errors.New("cannot be blank"),
		"gender":  errors.New("must be a valid value"),
		"size":    nil,
	}.Filter()

	got := FromValidation(err)
	require.Error(t, got)
	assert.True(t, Is(got, CodeValidation))
	assert.Equal(t, http.StatusBadRequest, StatusOf(got))

	var ae *Error
	require.True(t, errors.As(got, &ae))
	require.Len(t, ae.Fields, 2)
	assert.Equal(t, "gender", ae.Fields[0].Field)
	assert.Equal(t, "species", ae.Fields[1].Field)
}

func TestFromValidation_Nil(t *testing.T) {
	assert.NoError(t, FromValidation(nil))
}

func TestStatusOf_WrappedAndPlain(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NewNotFound("animal"))
	assert.Equal(t, http.StatusNotFound, StatusOf(wrapped))
	assert.True(t, Is(wrapped, CodeNotFound))

	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
	assert.False(t, Is(errors.New("boom"), CodeNotFound))
}

func TestBody_IncludesDetailsAndErrors(t *testing.T) {
	err := NewInvalidRequest("Photo file does not exist").WithDetails(map[string]any{"photoUrl": "/uploads/x.png"})
	body := Body(err)
	assert.Equal(t, "Photo file does not exist", body["message"])
	assert.Equal(t, "/uploads/x.png", body["photoUrl"])
	assert.NotContains(t, body, "errors")

	body = Body(NewValidation([]FieldError{{Field: "species", Message: "cannot be blank"}}))
	assert.Equal(t, "Validation error", body["message"])
	assert.Len(t, body["errors"], 1)

	assert.Equal(t, map[string]any{"message": "internal error"}, Body(errors.New("x")))
}

func TestNewInternal_Unwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternal(cause)
	assert.ErrorIs(t, err, cause)
}
