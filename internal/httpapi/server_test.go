package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/concierge/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.New(logging.Config{Service: "test", Level: "error"})
}

func TestHealthEndpointReportsOK(t *testing.T) {
	s := New(nil, nil, nil, nil, nil, testLogger())
	router := s.Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	s := New(nil, nil, nil, nil, nil, testLogger())
	router := s.Router()

	req := httptest.NewRequest(http.MethodOptions, "/concierge/bundles", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGenerateBundleRejectsMissingDestination(t *testing.T) {
	s := New(nil, nil, nil, nil, nil, testLogger())
	router := s.Router()

	body := strings.NewReader(`{"departure_date":"2026-08-01","budget":100}`)
	req := httptest.NewRequest(http.MethodPost, "/concierge/bundles", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
