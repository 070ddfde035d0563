package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeMapKeepsLegacyContract(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, ErrValidation.StatusCode())
	assert.Equal(t, http.StatusInternalServerError, ErrNotFound.StatusCode())
	assert.Equal(t, http.StatusBadRequest, ErrUnknownAction.StatusCode())
	assert.Equal(t, http.StatusInternalServerError, ErrInternalError.StatusCode())
	assert.Equal(t, http.StatusInternalServerError, ErrorCode("SOMETHING_NEW").StatusCode())
}

func TestAsAPIError(t *testing.T) {
	assert.Nil(t, AsAPIError(nil))

	v := ValidationError("userId", "userId is required")
	wrapped := fmt.Errorf("profile: %w", v)
	got := AsAPIError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrValidation, got.Code)
	assert.Equal(t, "userId is required", got.Error())
	assert.True(t, IsCode(wrapped, ErrValidation))

	raw := stderrors.New("connection refused")
	got = AsAPIError(raw)
	assert.Equal(t, ErrInternalError, got.Code)
	assert.Equal(t, "connection refused", got.Message)
	assert.ErrorIs(t, got, raw)
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, "post not found", NotFound("post").Error())
	assert.Equal(t, "Unknown action", UnknownAction().Error())
	assert.Equal(t, http.StatusBadRequest, UnknownAction().Status())
	assert.Equal(t, "internal server error", InternalError(nil).Message)
}
