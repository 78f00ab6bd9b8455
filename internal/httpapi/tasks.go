package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/opsbridge/wpctl/internal/domain"
	"github.com/opsbridge/wpctl/internal/queue"
)

// enqueue stores a freshly created task and submits it to the queue,
// writing the standard {task_id, status:"queued"} response.
func (s *Server) enqueue(w http.ResponseWriter, r *http.Request, kind string, kwargs map[string]any, reportEmail string) {
	task := domain.NewTask(kind, kwargs, reportEmail)
	s.Tasks.Create(&task)

	job := queue.Job{TaskID: task.ID.String(), Kind: kind, Kwargs: kwargs}
	if err := s.Queue.Submit(r.Context(), job); err != nil {
		writeError(w, http.StatusServiceUnavailable, "queue unavailable")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"task_id": task.ID.String(), "status": "queued"})
}

// enqueueSiteTask builds a handler for task kinds that run against a
// site over SSH: it resolves the site (by site_id or inline
// credentials), forces the enqueued user to root regardless of caller
// input (spec §9's "surprising but preserved" invariant), and submits.
func (s *Server) enqueueSiteTask(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req siteRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		site, err := s.resolveSite(req)
		if err != nil {
			writeSiteResolveError(w, err)
			return
		}
		site = site.WithRootUser()

		kwargs := mergeKwargs(baseKwargsForSite(site), req.Kwargs)
		kwargs["site"] = siteToKwargs(site) // never let caller kwargs override the forced-root identity
		s.enqueue(w, r, kind, kwargs, req.ReportEmail)
	}
}

// enqueueLocalTask builds a handler for task kinds that never touch SSH
// (healthcheck, ssl_expiry, domain_ssl_collect): the request body is
// passed straight through as kwargs.
func (s *Server) enqueueLocalTask(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ReportEmail string         `json:"report_email"`
			Kwargs      map[string]any `json:"kwargs"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		s.enqueue(w, r, kind, body.Kwargs, body.ReportEmail)
	}
}

// enqueueWPUpdateTask builds a handler for the four WordPress-custom-
// endpoint kinds, which authenticate with the site's REST API (base_url
// + optional basic auth) instead of SSH.
func (s *Server) enqueueWPUpdateTask(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			BaseURL     string         `json:"base_url"`
			BasicUser   string         `json:"basic_user"`
			BasicPass   string         `json:"basic_pass"`
			ReportEmail string         `json:"report_email"`
			Kwargs      map[string]any `json:"kwargs"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if body.BaseURL == "" {
			writeError(w, http.StatusBadRequest, "base_url is required")
			return
		}

		kwargs := mergeKwargs(body.Kwargs, map[string]any{
			"base_url":   body.BaseURL,
			"basic_user": body.BasicUser,
			"basic_pass": body.BasicPass,
		})
		s.enqueue(w, r, kind, kwargs, body.ReportEmail)
	}
}

// handleProvision runs the provisioning script against the session
// named in the path, per spec §6's /tasks/wp-install/{site_id}.
func (s *Server) handleProvision(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "site_id")

	var body struct {
		ReportEmail string         `json:"report_email"`
		Kwargs      map[string]any `json:"kwargs"`
	}
	_ = decodeBody(r, &body)

	sess, ok := s.Sessions.Get(siteID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown or expired site_id")
		return
	}
	site := sess.Site.WithRootUser()

	kwargs := mergeKwargs(baseKwargsForSite(site), body.Kwargs)
	kwargs["site"] = siteToKwargs(site)
	s.enqueue(w, r, "provision_wp_sh", kwargs, body.ReportEmail)
}

// handleTaskLookup polls a task's current state.
func (s *Server) handleTaskLookup(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task_id")
	task, ok := s.Tasks.Lookup(taskID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown task_id")
		return
	}
	writeJSON(w, http.StatusOK, task.View())
}

// requireResetToken gates a destructive handler behind RESET_TOKEN per
// spec §7/§8: absent configuration is a 503, a missing or wrong token is
// a 401.
func (s *Server) requireResetToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ResetToken == "" {
			writeError(w, http.StatusServiceUnavailable, "destructive endpoints are disabled: RESET_TOKEN is not configured")
			return
		}
		if !checkResetToken(r, s.ResetToken) {
			writeError(w, http.StatusUnauthorized, "invalid or missing reset token")
			return
		}
		next(w, r)
	}
}

func writeSiteResolveError(w http.ResponseWriter, err error) {
	if ae, ok := err.(*apiError); ok {
		writeError(w, ae.status, ae.msg)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func mergeKwargs(base map[string]any, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
