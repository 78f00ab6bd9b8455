// Package domain holds the core entities shared by the task orchestrator,
// the remote execution engine, and the WordPress update driver: site
// records, sessions, and tasks.
package domain

import "fmt"

// SiteRecord is an immutable-per-request bundle describing a target host:
// connection credentials plus WordPress-install context.
type SiteRecord struct {
	Host string
	User string
	Port int

	KeyPath       string
	PrivateKeyPEM string
	Password      string
	SudoPassword  string

	InstallDir string
	DBName     string
	DBUser     string
	DBPassword string
}

// Validate enforces the site-record invariant: host is non-empty and
// exactly one credential form is present.
func (s SiteRecord) Validate() error {
	if s.Host == "" {
		return fmt.Errorf("site record: host is required")
	}
	forms := 0
	if s.PrivateKeyPEM != "" {
		forms++
	}
	if s.KeyPath != "" {
		forms++
	}
	if s.Password != "" {
		forms++
	}
	if forms == 0 {
		return fmt.Errorf("site record: exactly one of key_path, private_key, password is required, got none")
	}
	if forms > 1 {
		return fmt.Errorf("site record: exactly one of key_path, private_key, password is required, got %d", forms)
	}
	return nil
}

// EffectivePort returns the configured port, defaulting to 22.
func (s SiteRecord) EffectivePort() int {
	if s.Port == 0 {
		return 22
	}
	return s.Port
}

// EffectiveSudoPassword returns the sudo password, falling back to the
// login password when no sudo password was supplied.
func (s SiteRecord) EffectiveSudoPassword() string {
	if s.SudoPassword != "" {
		return s.SudoPassword
	}
	return s.Password
}

// WithRootUser returns a copy of the site record with User forced to
// "root". Every enqueued site goes through this before submission,
// regardless of what the caller sent — see spec §4.6 / §9's "surprising
// but preserved" behavior.
func (s SiteRecord) WithRootUser() SiteRecord {
	s.User = "root"
	return s
}

// RedactedFields lists the SiteRecord fields that must never appear in a
// log line or a persisted task result, per spec §5.
var RedactedFields = []string{
	"password", "sudo_password", "private_key", "key_path", "db_password",
}

// Redacted returns a loggable map with every secret field masked.
func (s SiteRecord) Redacted() map[string]any {
	mask := func(v string) string {
		if v == "" {
			return ""
		}
		return "[redacted]"
	}
	return map[string]any{
		"host":        s.Host,
		"user":        s.User,
		"port":        s.EffectivePort(),
		"key_path":    mask(s.KeyPath),
		"private_key": mask(s.PrivateKeyPEM),
		"password":    mask(s.Password),
		"sudo_password": mask(s.SudoPassword),
		"install_dir": s.InstallDir,
		"db_name":     s.DBName,
		"db_user":     s.DBUser,
		"db_password": mask(s.DBPassword),
	}
}
