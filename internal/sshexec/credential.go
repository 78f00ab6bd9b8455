package sshexec

import (
	"fmt"
	"os"

	"github.com/opsbridge/wpctl/internal/domain"
)

// CredentialKind distinguishes how a Connection authenticates.
type CredentialKind int

const (
	CredentialKey CredentialKind = iota
	CredentialPassword
)

// Credential is the materialised auth artifact for a site record.
type Credential struct {
	Kind     CredentialKind
	KeyPath  string // set when Kind == CredentialKey
	Password string // set when Kind == CredentialPassword
}

// Materialize turns a SiteRecord into a usable auth artifact. When inline
// private-key material is present it is written to a newly created,
// owner-only-readable temp file; the returned cleanup removes it. A
// key-path site record is passed through with a no-op cleanup. Otherwise
// password auth is selected.
func Materialize(site domain.SiteRecord) (Credential, func(), error) {
	noop := func() {}

	switch {
	case site.PrivateKeyPEM != "":
		f, err := os.CreateTemp("", "wpctl-key-*")
		if err != nil {
			return Credential{}, noop, fmt.Errorf("materialize credential: %w", err)
		}
		path := f.Name()

		// Belt-and-suspenders: CreateTemp already mode 0600 on most
		// platforms, but umask can weaken that, so enforce it explicitly.
		if err := f.Chmod(0o600); err != nil {
			f.Close()
			os.Remove(path)
			return Credential{}, noop, fmt.Errorf("materialize credential: chmod: %w", err)
		}
		if _, err := f.WriteString(site.PrivateKeyPEM); err != nil {
			f.Close()
			os.Remove(path)
			return Credential{}, noop, fmt.Errorf("materialize credential: write: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return Credential{}, noop, fmt.Errorf("materialize credential: close: %w", err)
		}

		cleanup := func() { os.Remove(path) }
		return Credential{Kind: CredentialKey, KeyPath: path}, cleanup, nil

	case site.KeyPath != "":
		return Credential{Kind: CredentialKey, KeyPath: site.KeyPath}, noop, nil

	default:
		return Credential{Kind: CredentialPassword, Password: site.Password}, noop, nil
	}
}
