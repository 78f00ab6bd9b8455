package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/opsbridge/wpctl/internal/domain"
	"github.com/opsbridge/wpctl/internal/queue"
	"github.com/opsbridge/wpctl/internal/sshexec"
	"github.com/opsbridge/wpctl/internal/worker"
)

const downloadPollInterval = 250 * time.Millisecond

type downloadRequest struct {
	siteRequest
	Download    bool   `json:"download"`
	Filename    string `json:"filename"`
	WaitTimeout int    `json:"wait_timeout"`
}

// enqueueDownloadableTask builds a handler for backup/db and
// backup/content: with download=false it behaves like any other
// site task; with download=true it blocks the request up to
// wait_timeout seconds for the task to finish, then streams the
// produced artefact back over a freshly opened connection rather than
// making the caller poll separately (spec §6/§9).
func (s *Server) enqueueDownloadableTask(kind, resultField string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req downloadRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		site, err := s.resolveSite(req.siteRequest)
		if err != nil {
			writeSiteResolveError(w, err)
			return
		}
		site = site.WithRootUser()

		kwargs := mergeKwargs(baseKwargsForSite(site), req.Kwargs)
		if _, ok := kwargs["out_dir"]; !ok && s.BackupDir != "" {
			kwargs["out_dir"] = s.BackupDir
		}
		kwargs["site"] = siteToKwargs(site)
		task := domain.NewTask(kind, kwargs, req.ReportEmail)
		s.Tasks.Create(&task)

		if err := s.Queue.Submit(r.Context(), queue.Job{TaskID: task.ID.String(), Kind: kind, Kwargs: kwargs}); err != nil {
			writeError(w, http.StatusServiceUnavailable, "queue unavailable")
			return
		}

		if !req.Download {
			writeJSON(w, http.StatusAccepted, map[string]any{"task_id": task.ID.String(), "status": "queued"})
			return
		}

		s.waitAndStream(w, r, task.ID.String(), resultField, req.Filename, req.WaitTimeout)
	}
}

func (s *Server) waitAndStream(w http.ResponseWriter, r *http.Request, taskID, resultField, filename string, waitSeconds int) {
	timeout := s.DefaultWait
	if waitSeconds > 0 {
		timeout = time.Duration(waitSeconds) * time.Second
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	ticker := time.NewTicker(downloadPollInterval)
	defer ticker.Stop()

	for {
		task, ok := s.Tasks.Lookup(taskID)
		if ok && task.State.IsTerminal() {
			s.streamResult(w, ctx, task, resultField, filename)
			return
		}

		select {
		case <-ctx.Done():
			writeError(w, http.StatusGatewayTimeout, "timed out waiting for task completion")
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) streamResult(w http.ResponseWriter, ctx context.Context, task domain.Task, resultField, filename string) {
	if task.State == domain.TaskFailed {
		writeJSON(w, http.StatusOK, task.View())
		return
	}

	remotePath, _ := task.Result[resultField].(string)
	if remotePath == "" {
		writeError(w, http.StatusInternalServerError, "task succeeded without a result artefact")
		return
	}

	site, err := worker.SiteFromKwargs(task.Kwargs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not resolve site for download")
		return
	}

	conn, err := sshexec.Acquire(ctx, site)
	if err != nil {
		writeError(w, http.StatusBadGateway, "could not reconnect to stream artefact")
		return
	}
	defer conn.Release()

	local, err := os.CreateTemp("", "wpctl-download-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not allocate temp file")
		return
	}
	localPath := local.Name()
	local.Close()
	defer os.Remove(localPath)

	if err := conn.Download(ctx, remotePath, localPath); err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("download failed: %v", err))
		return
	}

	f, err := os.Open(localPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not read downloaded artefact")
		return
	}
	defer f.Close()

	if filename == "" {
		filename = filepath.Base(remotePath)
	}
	if info, err := f.Stat(); err == nil {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	}
	w.Header().Set("Content-Type", "application/gzip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, f)
}
