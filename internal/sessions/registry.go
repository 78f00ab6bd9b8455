// Package sessions is the process-local session registry: an opaque
// session id mapped to a verified SiteRecord, guarded the way the
// teacher's alias store guards its own map (internal/config.AliasStore).
package sessions

import (
	"sync"
	"time"

	"github.com/opsbridge/wpctl/internal/domain"
)

// Registry maps session ids to verified sessions. Concurrent inserts and
// reads are safe; eviction beyond the idle-TTL sweep is not specified by
// the system this mirrors.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	idleTTL  time.Duration
}

// New builds an empty registry. idleTTL of zero disables the sweep.
func New(idleTTL time.Duration) *Registry {
	return &Registry{sessions: make(map[string]domain.Session), idleTTL: idleTTL}
}

// Put stores a newly verified session.
func (r *Registry) Put(s domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID.String()] = s
}

// Get returns the session by id, if present and not expired.
func (r *Registry) Get(id string) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	if r.idleTTL > 0 && time.Since(s.VerifiedAt) > r.idleTTL {
		return domain.Session{}, false
	}
	return s, true
}

// Sweep removes every session whose VerifiedAt is older than idleTTL. A
// no-op when idleTTL is zero. This is a deviation beyond what the system
// being mirrored specifies (it leaves eviction unspecified); it exists so
// a long-lived control plane doesn't accumulate session state forever.
func (r *Registry) Sweep() {
	if r.idleTTL <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if time.Since(s.VerifiedAt) > r.idleTTL {
			delete(r.sessions, id)
		}
	}
}

// RunSweeper starts a ticker that calls Sweep at the given interval,
// stopping when stop is closed.
func (r *Registry) RunSweeper(interval time.Duration, stop <-chan struct{}) {
	if r.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
