package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckOKWithKeyword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>Welcome to WordPress</html>"))
	}))
	defer srv.Close()

	conn := newFakeConn()
	result, err := HealthCheck(context.Background(), conn, map[string]any{"url": srv.URL, "keyword": "WordPress"})
	require.NoError(t, err)

	assert.Equal(t, true, result["ok"])
	assert.Equal(t, true, result["keyword_present"])
	assert.Equal(t, http.StatusOK, result["status"])
}

func TestHealthCheckFailsWithoutKeyword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>nothing here</html>"))
	}))
	defer srv.Close()

	conn := newFakeConn()
	result, err := HealthCheck(context.Background(), conn, map[string]any{"url": srv.URL, "keyword": "WordPress"})
	require.NoError(t, err)

	assert.Equal(t, false, result["ok"])
	assert.Equal(t, false, result["keyword_present"])
}

func TestHealthCheckNon200IsNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	conn := newFakeConn()
	result, err := HealthCheck(context.Background(), conn, map[string]any{"url": srv.URL})
	require.NoError(t, err)
	assert.Equal(t, false, result["ok"])
}

func TestHealthCheckRequiresURL(t *testing.T) {
	conn := newFakeConn()
	_, err := HealthCheck(context.Background(), conn, map[string]any{})
	assert.Error(t, err)
}
