package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSiteRecordValidateRequiresHost(t *testing.T) {
	s := SiteRecord{Password: "secret"}
	assert.Error(t, s.Validate())
}

func TestSiteRecordValidateRequiresExactlyOneCredential(t *testing.T) {
	none := SiteRecord{Host: "example.com"}
	assert.Error(t, none.Validate())

	both := SiteRecord{Host: "example.com", Password: "a", KeyPath: "/tmp/key"}
	assert.Error(t, both.Validate())

	one := SiteRecord{Host: "example.com", Password: "a"}
	assert.NoError(t, one.Validate())
}

func TestSiteRecordEffectivePortDefaults(t *testing.T) {
	assert.Equal(t, 22, SiteRecord{}.EffectivePort())
	assert.Equal(t, 2222, SiteRecord{Port: 2222}.EffectivePort())
}

func TestSiteRecordEffectiveSudoPasswordFallsBack(t *testing.T) {
	s := SiteRecord{Password: "login-pass"}
	assert.Equal(t, "login-pass", s.EffectiveSudoPassword())

	s.SudoPassword = "sudo-pass"
	assert.Equal(t, "sudo-pass", s.EffectiveSudoPassword())
}

func TestSiteRecordWithRootUser(t *testing.T) {
	s := SiteRecord{Host: "h", User: "deploy"}
	r := s.WithRootUser()
	assert.Equal(t, "root", r.User)
	assert.Equal(t, "deploy", s.User, "original record must be unmodified")
}

func TestSiteRecordRedactedMasksSecrets(t *testing.T) {
	s := SiteRecord{
		Host: "h", User: "root", Password: "secret", SudoPassword: "sudo-secret",
		PrivateKeyPEM: "-----BEGIN KEY-----", DBPassword: "dbsecret",
	}
	r := s.Redacted()
	assert.Equal(t, "[redacted]", r["password"])
	assert.Equal(t, "[redacted]", r["sudo_password"])
	assert.Equal(t, "[redacted]", r["private_key"])
	assert.Equal(t, "[redacted]", r["db_password"])
	assert.Equal(t, "h", r["host"])
}
