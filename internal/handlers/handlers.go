// Package handlers implements one task handler per operation named in
// spec §4.4: wp_status, backup_site/backup_db/backup_wp_content,
// update_with_rollback, provision_wp_sh/wp_reset_sh, healthcheck,
// ssl_expiry, domain_ssl_collect. Each receives a live sshexec.Connection
// and a keyword-argument bag, returns a JSON-serialisable map, and
// signals failure by returning an error that becomes the task's info.
package handlers

import (
	"context"

	"github.com/opsbridge/wpctl/internal/sshexec"
)

// Handler processes one task kind against a live connection.
type Handler func(ctx context.Context, conn sshexec.Connection, kwargs map[string]any) (map[string]any, error)

// Registry maps a task kind to its handler.
type Registry map[string]Handler

// NewRegistry builds the full set of task handlers.
func NewRegistry(deps Deps) Registry {
	return Registry{
		"wp_status":           WPStatus,
		"backup_site":         BackupSite,
		"backup_db":           BackupDB,
		"backup_wp_content":   BackupWPContent,
		"update_with_rollback": UpdateWithRollback,
		"provision_wp_sh":     deps.ProvisionWPSh,
		"wp_reset_sh":         deps.WPResetSh,
		"healthcheck":         HealthCheck,
		"ssl_expiry":          SSLExpiry,
		"domain_ssl_collect":  DomainSSLCollect,
	}
}

// Deps carries handler dependencies that need configuration (local
// script bodies to upload) rather than being free functions.
type Deps struct {
	ProvisionWPSh Handler
	WPResetSh     Handler
}

// NewDefaultDeps builds Deps bound to the embedded default provision and
// reset scripts.
func NewDefaultDeps() Deps {
	return Deps{
		ProvisionWPSh: NewProvisionWPSh(ProvisionScript),
		WPResetSh:     NewWPResetSh(ResetScript),
	}
}

func run(ctx context.Context, conn sshexec.Connection, cmd string) (sshexec.Result, error) {
	return conn.Run(ctx, cmd)
}

func sudo(ctx context.Context, conn sshexec.Connection, cmd string) (sshexec.Result, error) {
	if conn.IsRoot() {
		return conn.Run(ctx, cmd)
	}
	return conn.Sudo(ctx, cmd)
}

func stringArg(kwargs map[string]any, key, def string) string {
	if v, ok := kwargs[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}

func boolArg(kwargs map[string]any, key string, def bool) bool {
	if v, ok := kwargs[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}
