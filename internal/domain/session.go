package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a verified SiteRecord identified by an opaque id, created
// only after a successful SSH probe.
type Session struct {
	ID         uuid.UUID
	Site       SiteRecord
	VerifiedAt time.Time
	UnameA     string
}

// NewSession builds a session with a fresh id and the current time as its
// verification timestamp.
func NewSession(site SiteRecord, unameA string) Session {
	return Session{
		ID:         uuid.New(),
		Site:       site,
		VerifiedAt: time.Now().UTC(),
		UnameA:     unameA,
	}
}

// Metadata returns the non-secret view of a session returned by
// GET /sites/{site_id}.
func (s Session) Metadata() map[string]any {
	return map[string]any{
		"site_id":     s.ID.String(),
		"host":        s.Site.Host,
		"user":        s.Site.User,
		"port":        s.Site.EffectivePort(),
		"verified_at": s.VerifiedAt.Format(time.RFC3339),
		"uname":       s.UnameA,
	}
}
