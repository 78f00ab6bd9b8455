package sessions

import (
	"testing"
	"time"

	"github.com/opsbridge/wpctl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPutGet(t *testing.T) {
	r := New(time.Hour)
	s := domain.NewSession(domain.SiteRecord{Host: "h"}, "Linux x")
	r.Put(s)

	got, ok := r.Get(s.ID.String())
	require.True(t, ok)
	assert.Equal(t, "h", got.Site.Host)
}

func TestRegistryGetUnknown(t *testing.T) {
	r := New(time.Hour)
	_, ok := r.Get("does-not-exist")
	assert.False(t, ok)
}

func TestRegistrySweepEvictsExpired(t *testing.T) {
	r := New(time.Millisecond)
	s := domain.NewSession(domain.SiteRecord{Host: "h"}, "")
	r.Put(s)

	time.Sleep(5 * time.Millisecond)
	r.Sweep()

	_, ok := r.Get(s.ID.String())
	assert.False(t, ok)
}

func TestRegistryZeroTTLNeverExpires(t *testing.T) {
	r := New(0)
	s := domain.NewSession(domain.SiteRecord{Host: "h"}, "")
	r.Put(s)

	time.Sleep(5 * time.Millisecond)
	r.Sweep()

	_, ok := r.Get(s.ID.String())
	assert.True(t, ok)
}
