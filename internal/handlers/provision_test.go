package handlers

import (
	"context"
	"testing"

	"github.com/opsbridge/wpctl/internal/sshexec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisionWPShParsesJSONReport(t *testing.T) {
	conn := newFakeConn()
	conn.stub("cat '/tmp/wp_provision_report.json'", sshexec.Result{Stdout: `{"status":"ok"}`})

	handler := NewProvisionWPSh("#!/bin/sh\necho hi\n")
	result, err := handler(context.Background(), conn, map[string]any{"domain": "example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ok", result["status"])
	_, uploaded := conn.uploads["/tmp/wp_provision.sh"]
	assert.True(t, uploaded)
}

func TestProvisionWPShMissingReportReturnsUnknown(t *testing.T) {
	conn := newFakeConn()
	// no stub for "cat ..." -> fakeConn default returns ExitCode 0 with
	// empty stdout, which the report loop treats as "not found".
	handler := NewProvisionWPSh("#!/bin/sh\n")
	result, err := handler(context.Background(), conn, map[string]any{"domain": "example.com"})
	require.NoError(t, err)
	assert.Equal(t, "unknown", result["status"])
}

func TestWPResetShUsesRootPathWhenRoot(t *testing.T) {
	conn := newFakeConn()
	conn.isRoot = true
	conn.stub("cat '/tmp/droplet_reset_report.json'", sshexec.Result{Stdout: `{"status":"ok"}`})

	handler := NewWPResetSh("#!/bin/sh\n")
	result, err := handler(context.Background(), conn, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "ok", result["status"])

	for _, call := range conn.calls {
		assert.NotContains(t, call, "sudo: ")
	}
}

func TestWPResetShFallsBackToRollbackReport(t *testing.T) {
	conn := newFakeConn()
	conn.stub("sudo: cat '/tmp/droplet_reset_report.json'", sshexec.Result{ExitCode: 1})
	conn.stub("sudo: cat '/tmp/wp_rollback_report.json'", sshexec.Result{Stdout: `{"status":"ok"}`})

	handler := NewWPResetSh("#!/bin/sh\n")
	result, err := handler(context.Background(), conn, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "ok", result["status"])
}
