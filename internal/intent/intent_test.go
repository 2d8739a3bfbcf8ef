package intent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReturnsParsedIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"destination":"LAX","budget":1200}}`))
	}))
	defer server.Close()

	c := New(server.URL, "concierge-intent-v1", time.Second)
	extracted, err := c.Extract(context.Background(), "I want to go to LA")
	require.NoError(t, err)
	require.NotNil(t, extracted.Destination)
	assert.Equal(t, "LAX", *extracted.Destination)
	require.NotNil(t, extracted.Budget)
	assert.Equal(t, 1200.0, *extracted.Budget)
}

func TestExtractWrapsNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, "concierge-intent-v1", time.Second)
	_, err := c.Extract(context.Background(), "hello")
	assert.Error(t, err)
}
