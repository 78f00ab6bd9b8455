package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/opsbridge/wpctl/internal/shquote"
	"github.com/opsbridge/wpctl/internal/sshexec"
)

const (
	provisionRemoteScript  = "/tmp/wp_provision.sh"
	provisionReportPath    = "/tmp/wp_provision_report.json"
	resetRemoteScript      = "/tmp/wp_reset.sh"
	resetReportPath        = "/tmp/droplet_reset_report.json"
	rollbackReportFallback = "/tmp/wp_rollback_report.json"
)

// NewProvisionWPSh builds the provision_wp_sh handler bound to the given
// local script body. The provisioning script's internals are a
// collaborator out of scope here (spec §1); this handler only uploads,
// executes, and parses its report.
func NewProvisionWPSh(scriptBody string) Handler {
	return func(ctx context.Context, conn sshexec.Connection, kwargs map[string]any) (map[string]any, error) {
		args := []string{
			stringArg(kwargs, "domain", ""),
			stringArg(kwargs, "wp_path", "/var/www/html"),
			stringArg(kwargs, "site_title", "My Site"),
			stringArg(kwargs, "admin_user", "admin"),
			stringArg(kwargs, "admin_pass", "changeme"),
			stringArg(kwargs, "admin_email", "admin@example.com"),
			stringArg(kwargs, "db_name", "wp_db"),
			stringArg(kwargs, "db_user", "wp_user"),
			stringArg(kwargs, "db_pass", "wp_pass"),
			stringArg(kwargs, "php_version", "8.1"),
			stringArg(kwargs, "wp_version", "latest"),
			provisionReportPath,
			stringArg(kwargs, "letsencrypt_email", ""),
			stringArg(kwargs, "noninteractive", "true"),
		}
		return runScriptForReport(ctx, conn, scriptBody, provisionRemoteScript, args, provisionReportPath)
	}
}

// NewWPResetSh builds the wp_reset_sh handler bound to the given local
// script body. Flags mirror the original Fabric task: the script only
// understands --force and --no-ufw; reset_ufw=true means "do the
// firewall reset work" so it maps to the ABSENCE of --no-ufw.
func NewWPResetSh(scriptBody string) Handler {
	return func(ctx context.Context, conn sshexec.Connection, kwargs map[string]any) (map[string]any, error) {
		var flags []string
		if boolArg(kwargs, "force", true) {
			flags = append(flags, "--force")
		}
		if !boolArg(kwargs, "reset_ufw", true) {
			flags = append(flags, "--no-ufw")
		}
		reportPath := stringArg(kwargs, "report_path", resetReportPath)
		return runScriptForReport(ctx, conn, scriptBody, resetRemoteScript, flags, reportPath, rollbackReportFallback)
	}
}

// runScriptForReport uploads scriptBody to remotePath, makes it
// executable, runs it with args, then reads the first existing report
// path and parses it as JSON. A missing report yields {"status":
// "unknown", "raw": <captured output>} rather than an error, per spec
// §4.4/§7 ("script errors ... task still succeeds").
func runScriptForReport(ctx context.Context, conn sshexec.Connection, scriptBody, remotePath string, args []string, reportCandidates ...string) (map[string]any, error) {
	localTmp, err := os.CreateTemp("", "wpctl-script-*.sh")
	if err != nil {
		return nil, fmt.Errorf("script: create local temp: %w", err)
	}
	defer os.Remove(localTmp.Name())

	if _, err := localTmp.WriteString(scriptBody); err != nil {
		localTmp.Close()
		return nil, fmt.Errorf("script: write local temp: %w", err)
	}
	if err := localTmp.Close(); err != nil {
		return nil, fmt.Errorf("script: close local temp: %w", err)
	}

	if err := conn.Upload(ctx, localTmp.Name(), remotePath); err != nil {
		return nil, fmt.Errorf("script: upload: %w", err)
	}

	if _, err := sudo(ctx, conn, fmt.Sprintf("chmod +x %s", shquote.Single(remotePath))); err != nil {
		return nil, fmt.Errorf("script: chmod: %w", err)
	}

	cmd := shquote.Join(append([]string{remotePath}, args...)...)
	execRes, execErr := sudo(ctx, conn, cmd)
	if execErr != nil {
		return nil, fmt.Errorf("script: execute: %w", execErr)
	}

	for _, reportPath := range reportCandidates {
		res, err := run(ctx, conn, fmt.Sprintf("cat %s", shquote.Single(reportPath)))
		if err != nil || !res.OK() || res.Stdout == "" {
			continue
		}
		var report map[string]any
		if jsonErr := json.Unmarshal([]byte(res.Stdout), &report); jsonErr == nil {
			return report, nil
		}
		return map[string]any{"status": "unknown", "raw": res.Stdout, "parsed": false}, nil
	}

	return map[string]any{"status": "unknown", "raw": execRes.Stdout + execRes.Stderr}, nil
}
