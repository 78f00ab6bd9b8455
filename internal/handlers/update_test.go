package handlers

import (
	"context"
	"testing"

	"github.com/opsbridge/wpctl/internal/sshexec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kwargsForUpdate() map[string]any {
	return map[string]any{
		"wp_path": "/var/www/html", "db_name": "wp_site", "db_user": "wp_user", "db_pass": "secret",
	}
}

func TestUpdateWithRollbackSucceeds(t *testing.T) {
	conn := newFakeConn()
	conn.stub("cd '/var/www/html' && wp plugin update --all --format=json",
		sshexec.Result{Stdout: `[{"name":"akismet","status":"updated"}]`})

	result, err := UpdateWithRollback(context.Background(), conn, kwargsForUpdate())
	require.NoError(t, err)

	assert.Equal(t, true, result["updated"])
	assert.NotNil(t, result["snapshot"])
}

func TestUpdateWithRollbackRestoresOnFailure(t *testing.T) {
	conn := newFakeConn()
	conn.stub("cd '/var/www/html' && wp plugin update --all --format=json",
		sshexec.Result{ExitCode: 1, Stderr: "update failed"})

	result, err := UpdateWithRollback(context.Background(), conn, kwargsForUpdate())
	require.NoError(t, err)

	assert.Equal(t, false, result["updated"])
	assert.Equal(t, "update failed", result["error"])
	assert.NotNil(t, result["snapshot"])

	restoredCalls := 0
	for _, call := range conn.calls {
		if call == "mkdir -p '/var/www/html/wp-content'" {
			restoredCalls++
		}
	}
	assert.Equal(t, 1, restoredCalls)

	assert.Contains(t, result, "restore_errors")
	assert.Nil(t, result["restore_errors"])
}

func TestUpdateWithRollbackRequiresWPPath(t *testing.T) {
	conn := newFakeConn()
	_, err := UpdateWithRollback(context.Background(), conn, map[string]any{})
	assert.Error(t, err)
}
