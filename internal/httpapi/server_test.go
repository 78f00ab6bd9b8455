package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opsbridge/wpctl/internal/domain"
	"github.com/opsbridge/wpctl/internal/queue"
	"github.com/opsbridge/wpctl/internal/sessions"
	"github.com/opsbridge/wpctl/internal/taskstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	jobs []queue.Job
}

func (q *fakeQueue) Submit(ctx context.Context, job queue.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) Close() error { return nil }

func newTestServer() (*Server, *fakeQueue) {
	fq := &fakeQueue{}
	return &Server{
		Sessions:         sessions.New(time.Hour),
		Tasks:            taskstore.New(),
		Queue:            fq,
		CORSAllowOrigins: []string{"*"},
		DefaultWait:      200 * time.Millisecond,
	}, fq
}

func siteSubMap(t *testing.T, job queue.Job) map[string]any {
	t.Helper()
	m, ok := job.Kwargs["site"].(map[string]any)
	require.True(t, ok, "job kwargs missing nested site map")
	return m
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthcheckTaskEnqueues(t *testing.T) {
	s, fq := newTestServer()
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodPost, "/tasks/healthcheck", map[string]any{
		"kwargs": map[string]any{"url": "https://example.com"},
	}, nil)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, fq.jobs, 1)
	assert.Equal(t, "healthcheck", fq.jobs[0].Kind)
}

func TestTaskLookupUnknownReturns404(t *testing.T) {
	s, _ := newTestServer()
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodGet, "/tasks/does-not-exist", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskLookupReturnsState(t *testing.T) {
	s, _ := newTestServer()
	task := domain.NewTask("wp_status", nil, "")
	s.Tasks.Create(&task)
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodGet, "/tasks/"+task.ID.String(), nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var view domain.LookupView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, domain.TaskQueued, view.State)
}

func TestGetSiteUnknownReturns404(t *testing.T) {
	s, _ := newTestServer()
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodGet, "/sites/not-a-real-id", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequireResetTokenMissingConfigIs503(t *testing.T) {
	s, _ := newTestServer()
	s.ResetToken = ""
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodPost, "/tasks/wp-reset", map[string]any{
		"host": "example.com", "password": "x",
	}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequireResetTokenWrongTokenIs401(t *testing.T) {
	s, _ := newTestServer()
	s.ResetToken = "correct-token"
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodPost, "/tasks/wp-reset", map[string]any{
		"host": "example.com", "password": "x",
	}, map[string]string{"X-Reset-Token": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireResetTokenCorrectTokenViaBearerSucceeds(t *testing.T) {
	s, fq := newTestServer()
	s.ResetToken = "correct-token"
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodPost, "/tasks/wp-reset", map[string]any{
		"host": "example.com", "password": "x",
	}, map[string]string{"Authorization": "Bearer correct-token"})
	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, fq.jobs, 1)
	assert.Equal(t, "root", siteSubMap(t, fq.jobs[0])["user"])
}

func TestSSHLoginRejectsInvalidBody(t *testing.T) {
	s, _ := newTestServer()
	router := s.NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/ssh/login", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSSHLoginRejectsAmbiguousCredentials(t *testing.T) {
	s, _ := newTestServer()
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodPost, "/ssh/login", map[string]any{
		"host": "example.com", "password": "x", "key_path": "/tmp/id_rsa",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
}

func TestEnqueueSiteTaskUsesSessionAndForcesRoot(t *testing.T) {
	s, fq := newTestServer()
	site := domain.SiteRecord{Host: "example.com", User: "deploy", Password: "x"}
	sess := domain.NewSession(site, "Linux example 5.15")
	s.Sessions.Put(sess)
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodPost, "/tasks/wp-status", map[string]any{
		"site_id": sess.ID.String(),
		"kwargs":  map[string]any{"wp_path": "/var/www/html"},
	}, nil)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, fq.jobs, 1)
	assert.Equal(t, "root", siteSubMap(t, fq.jobs[0])["user"])
	assert.Equal(t, "/var/www/html", fq.jobs[0].Kwargs["wp_path"])
}

func TestEnqueueSiteTaskUnknownSessionIs404(t *testing.T) {
	s, _ := newTestServer()
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodPost, "/tasks/wp-status", map[string]any{
		"site_id": "00000000-0000-0000-0000-000000000000",
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadableTaskWithoutDownloadFlagJustEnqueues(t *testing.T) {
	s, fq := newTestServer()
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodPost, "/tasks/backup/db", map[string]any{
		"host": "example.com", "password": "x",
		"kwargs": map[string]any{"db_name": "wp", "db_user": "wp"},
	}, nil)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, fq.jobs, 1)
	assert.Equal(t, "backup_db", fq.jobs[0].Kind)
}

func TestDownloadableTaskTimesOutWhenTaskNeverCompletes(t *testing.T) {
	s, _ := newTestServer()
	s.DefaultWait = 100 * time.Millisecond
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodPost, "/tasks/backup/db", map[string]any{
		"host": "example.com", "password": "x",
		"download": true,
		"kwargs":   map[string]any{"db_name": "wp", "db_user": "wp"},
	}, nil)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestWPUpdateTaskRequiresBaseURL(t *testing.T) {
	s, _ := newTestServer()
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodPost, "/tasks/wp-update/core", map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWPUpdateTaskEnqueues(t *testing.T) {
	s, fq := newTestServer()
	router := s.NewRouter()

	rec := doJSON(t, router, http.MethodPost, "/tasks/wp-outdated-fetch", map[string]any{
		"base_url": "https://example.com",
	}, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, fq.jobs, 1)
	assert.Equal(t, "https://example.com", fq.jobs[0].Kwargs["base_url"])
}
