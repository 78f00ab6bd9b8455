package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSSLExpiryRequiresDomain(t *testing.T) {
	conn := newFakeConn()
	_, err := SSLExpiry(context.Background(), conn, map[string]any{})
	assert.Error(t, err)
}

func TestDomainSSLCollectRequiresDomain(t *testing.T) {
	conn := newFakeConn()
	_, err := DomainSSLCollect(context.Background(), conn, map[string]any{})
	assert.Error(t, err)
}
