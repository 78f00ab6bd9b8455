package wpupdate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(ctx context.Context, d time.Duration) {}

// TestDriveUpdateLadderConfirmsOnFirstStep exercises the spec's worked
// example 3: a single plugin's batch-form POST is enough; status flips
// installed==latest immediately after, so the ladder stops at step 1.
func TestDriveUpdateLadderConfirmsOnFirstStep(t *testing.T) {
	var updated atomic.Bool

	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/custom/v1/status", func(w http.ResponseWriter, r *http.Request) {
		installed := "5.0"
		if updated.Load() {
			installed = "5.3"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"plugins": []any{map[string]any{
				"name": "Akismet", "plugin_file": "akismet/akismet.php",
				"version": installed, "latest_version": "5.3",
			}},
			"themes": []any{},
		})
	})
	mux.HandleFunc("/wp-json/custom/v1/update-plugins", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		updated.Store(true)
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, Auth{})
	result, err := DriveUpdateLadder(context.Background(), client, []string{"akismet/akismet.php"}, time.Millisecond, noSleep)
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.Empty(t, result.PerPlugin)
	assert.Len(t, result.Batch, 1)
	assert.Equal(t, "batch_form", result.Batch[0].Step)
}

// TestDriveUpdateLadderFallsBackToPerPlugin simulates a site whose batch
// endpoint never actually updates anything but whose single-plugin form
// POST does, exercising the full fallback chain.
func TestDriveUpdateLadderFallsBackToPerPlugin(t *testing.T) {
	var singleFormHit atomic.Bool

	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/custom/v1/status", func(w http.ResponseWriter, r *http.Request) {
		installed := "1.0"
		if singleFormHit.Load() {
			installed = "2.0"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"plugins": []any{map[string]any{
				"name": "Widget", "plugin_file": "widget/widget.php",
				"version": installed, "latest_version": "2.0",
			}},
			"themes": []any{},
		})
	})
	mux.HandleFunc("/wp-json/custom/v1/update-plugins", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
			r.ParseForm()
			if r.FormValue("mode") == "single" {
				singleFormHit.Store(true)
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, Auth{})
	result, err := DriveUpdateLadder(context.Background(), client, []string{"widget/widget.php"}, time.Millisecond, noSleep)
	require.NoError(t, err)

	assert.True(t, result.OK)
	require.Len(t, result.PerPlugin, 1)
	assert.True(t, result.PerPlugin[0].Verified)
}

func TestDriveUpdateLadderEmptyInputIsOK(t *testing.T) {
	client := NewClient("http://example.invalid", Auth{})
	result, err := DriveUpdateLadder(context.Background(), client, nil, time.Millisecond, noSleep)
	require.NoError(t, err)
	assert.True(t, result.OK)
}

func TestDriveCoreUpdateSkipsWhenNotOutdated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/custom/v1/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"plugins": []any{}, "themes": []any{},
			"core": map[string]any{"current_version": "6.6", "latest_version": "6.6", "update_available": false},
		})
	})
	mux.HandleFunc("/wp-json/custom/v1/update-core", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("update-core should not be called when precheck finds nothing outdated")
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, Auth{})
	result, err := DriveCoreUpdate(context.Background(), client, true)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.True(t, result.Skipped)
}

func TestDriveCoreUpdatePostsWhenOutdated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/custom/v1/update-core", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"result":"ok"}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, Auth{})
	result, err := DriveCoreUpdate(context.Background(), client, false)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, http.StatusOK, result.StatusCode)
}
