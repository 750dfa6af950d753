package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_MapsCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeValidation:   http.StatusBadRequest,
		ErrCodeBadRequest:   http.StatusBadRequest,
		ErrCodeUnauthorized: http.StatusUnauthorized,
		ErrCodeForbidden:    http.StatusForbidden,
		ErrCodeNotFound:     http.StatusNotFound,
		ErrCodeConflict:     http.StatusConflict,
		ErrCodeTooMany:      http.StatusTooManyRequests,
		ErrCodeInternal:     http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, New(code, "x").HTTPStatus, string(code))
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("sql: connection refused")
	err := Internal(cause, "не удалось сохранить")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeInternal, err.Code)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("usecase: %w", ErrListingNotFound)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.True(t, IsConflict(Conflict("занято")))
	assert.True(t, IsForbidden(Forbidden("нет")))
	assert.True(t, IsValidation(Validation("плохо")))
	assert.False(t, IsNotFound(nil))
}

func TestCodeOf_UnknownErrorIsInternal(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("boom")))
}
