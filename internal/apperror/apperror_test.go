package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationIsNotRetryableAndBadRequest(t *testing.T) {
	err := Validation("generate", "destination is required")
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.False(t, err.Retryable)
	assert.False(t, IsRetryable(err))
}

func TestUpstreamIsRetryableAndWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("search_flights", "all retries exhausted", cause)
	assert.True(t, err.Retryable)
	assert.True(t, IsRetryable(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCacheAndStoreFailuresDegradeWithOKStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, Cache("get", "redis unreachable", nil).HTTPStatus)
	assert.Equal(t, http.StatusOK, Store("save_bundle", "db unreachable", nil).HTTPStatus)
	assert.Equal(t, http.StatusOK, Bus("publish", "kafka unreachable", nil).HTTPStatus)
}

func TestIsRetryableFalseForNonAppError(t *testing.T) {
	assert.False(t, IsRetryable(errors.New("plain error")))
}
