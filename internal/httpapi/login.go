package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/opsbridge/wpctl/internal/domain"
	"github.com/opsbridge/wpctl/internal/sshexec"
)

const loginProbeTimeout = 30 * time.Second

// handleSSHLogin verifies the supplied credentials by opening a real SSH
// connection and running a trivial probe command, then stores a session
// so later task requests can reference it by site_id instead of
// resending credentials (spec §6, worked example 5).
func (s *Server) handleSSHLogin(w http.ResponseWriter, r *http.Request) {
	var req siteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	site := req.site()
	if err := site.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), loginProbeTimeout)
	defer cancel()

	conn, err := sshexec.Acquire(ctx, site)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	defer conn.Release()

	res, err := conn.Run(ctx, "echo ok && uname -a")
	if err != nil || !res.OK() {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "ssh probe failed"})
		return
	}

	sess := domain.NewSession(site, res.Stdout)
	s.Sessions.Put(sess)

	writeJSON(w, http.StatusOK, map[string]any{"site_id": sess.ID.String(), "verified": true})
}

// handleGetSite returns non-secret metadata for a previously verified
// session.
func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "site_id")
	sess, ok := s.Sessions.Get(siteID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown or expired site_id")
		return
	}
	writeJSON(w, http.StatusOK, sess.Metadata())
}
