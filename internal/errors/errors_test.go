package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", ErrProductNotFound, http.StatusNotFound},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"cancelled", WrapError(ErrRequestCancelled, context.Canceled), http.StatusRequestTimeout},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"store down", WrapError(ErrStoreUnavailable, cause), http.StatusServiceUnavailable},
		{"wrapped twice", fmt.Errorf("list: %w", WrapError(ErrStoreUnavailable, cause)), http.StatusServiceUnavailable},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"plain error", cause, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestWrapError_KeepsIdentityAndCause(t *testing.T) {
	wrapped := WrapError(ErrStoreUnavailable, context.DeadlineExceeded)

	assert.ErrorIs(t, wrapped, ErrStoreUnavailable)
	assert.ErrorIs(t, wrapped, context.DeadlineExceeded)
	assert.NotErrorIs(t, wrapped, ErrProductNotFound)
	assert.Equal(t, "product store unavailable: context deadline exceeded", wrapped.Error())
	assert.Equal(t, http.StatusServiceUnavailable, wrapped.Status())
	assert.Nil(t, ErrStoreUnavailable.Err, "wrapping must not mutate the shared value")
}

func TestGetDomainError(t *testing.T) {
	assert.Nil(t, GetDomainError(errors.New("plain")))
	assert.Equal(t, http.StatusInternalServerError, (&DomainError{Code: "UNMAPPED"}).Status())

	de := GetDomainError(fmt.Errorf("outer: %w", ErrProductNotFound))
	if assert.NotNil(t, de) {
		assert.Equal(t, "PRODUCT_NOT_FOUND", de.Code)
	}
}
