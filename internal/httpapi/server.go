// Package httpapi is the HTTP submitter: a chi router that turns
// inbound JSON requests into queued tasks and session state, the Go
// counterpart of the original Flask blueprint's view functions.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/opsbridge/wpctl/internal/queue"
	"github.com/opsbridge/wpctl/internal/sessions"
	"github.com/opsbridge/wpctl/internal/taskstore"
	"go.uber.org/zap"
)

// Server holds every dependency an HTTP handler needs: nothing here is
// package-level global state, unlike the process this mirrors.
type Server struct {
	Sessions         *sessions.Registry
	Tasks            *taskstore.Store
	Queue            queue.Queue
	ResetToken       string
	BackupDir        string
	DefaultWait      time.Duration
	Log              *zap.Logger
	CORSAllowOrigins []string
}

// NewRouter builds the full HTTP surface described in spec §6.
func (s *Server) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.CORSAllowOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Reset-Token"},
		MaxAge:           300,
	}))

	r.Post("/ssh/login", s.handleSSHLogin)
	r.Get("/sites/{site_id}", s.handleGetSite)

	r.Post("/tasks/backup", s.enqueueSiteTask("backup_site"))
	r.Post("/tasks/backup/db", s.enqueueDownloadableTask("backup_db", "db_dump"))
	r.Post("/tasks/backup/content", s.enqueueDownloadableTask("backup_wp_content", "content_tar"))
	r.Post("/tasks/wp-status", s.enqueueSiteTask("wp_status"))
	r.Post("/tasks/update", s.enqueueSiteTask("update_with_rollback"))
	r.Post("/tasks/ssl-expiry", s.enqueueLocalTask("ssl_expiry"))
	r.Post("/tasks/healthcheck", s.enqueueLocalTask("healthcheck"))
	r.Post("/tasks/wp-install/{site_id}", s.handleProvision)
	r.Post("/tasks/wp-reset", s.requireResetToken(s.enqueueSiteTask("wp_reset_sh")))
	r.Post("/tasks/domain-ssl-collect", s.enqueueLocalTask("domain_ssl_collect"))

	r.Post("/tasks/wp-outdated-fetch", s.enqueueWPUpdateTask("wp_outdated_fetch"))
	r.Post("/tasks/wp-update/plugins", s.enqueueWPUpdateTask("wp_update_plugins"))
	r.Post("/tasks/wp-update/core", s.enqueueWPUpdateTask("wp_update_core"))
	r.Post("/tasks/wp-update/all", s.requireResetToken(s.enqueueWPUpdateTask("wp_update_all")))

	r.Get("/tasks/{task_id}", s.handleTaskLookup)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if s.Log != nil {
			s.Log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
	})
}
