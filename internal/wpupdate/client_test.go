package wpupdate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchStatusNonJSONBodyIsSchemaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, Auth{})
	_, err := client.FetchStatus(context.Background())
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, false, schemaErr.Result["ok"])
	assert.Contains(t, schemaErr.Result["body_preview"], "not json")
	assert.Equal(t, "text/html", schemaErr.Result["content_type"])
}

func TestFetchStatusUnrecognisedShapeIsSchemaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"unexpected": true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, Auth{})
	_, err := client.FetchStatus(context.Background())
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "unrecognised status shape", schemaErr.Result["error"])
}

func TestFetchStatusValidBodySucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"plugins": [], "themes": [], "core": {"current_version": "6.5.2", "latest_version": "6.5.2", "update_available": false}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, Auth{})
	view, err := client.FetchStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "6.5.2", view.Core.Current)
}
