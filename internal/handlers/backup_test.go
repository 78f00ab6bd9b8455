package handlers

import (
	"context"
	"testing"

	"github.com/opsbridge/wpctl/internal/sshexec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupDBBuildsDumpCommand(t *testing.T) {
	conn := newFakeConn()
	kwargs := map[string]any{"db_name": "wp_site", "db_user": "wp_user", "db_pass": "secret", "out_dir": "/tmp/backups"}

	result, err := BackupDB(context.Background(), conn, kwargs)
	require.NoError(t, err)

	dump, _ := result["db_dump"].(string)
	assert.Contains(t, dump, "/tmp/backups/wp_site-")
	assert.Contains(t, dump, ".sql.gz")

	foundDump := false
	for _, call := range conn.calls {
		if call == "mkdir -p '/tmp/backups'" {
			foundDump = true
		}
	}
	assert.True(t, foundDump, "expected mkdir call, got %v", conn.calls)
}

func TestBackupDBRequiresNameAndUser(t *testing.T) {
	conn := newFakeConn()
	_, err := BackupDB(context.Background(), conn, map[string]any{})
	assert.Error(t, err)
}

func TestBackupWPContentBuildsTarCommand(t *testing.T) {
	conn := newFakeConn()
	result, err := BackupWPContent(context.Background(), conn, map[string]any{"wp_path": "/var/www/html"})
	require.NoError(t, err)

	tar, _ := result["content_tar"].(string)
	assert.Contains(t, tar, "wp-content-")
	assert.Contains(t, tar, ".tar.gz")
}

func TestBackupSiteSharesTimestamp(t *testing.T) {
	conn := newFakeConn()
	result, err := BackupSite(context.Background(), conn, map[string]any{
		"db_name": "wp_site", "db_user": "wp_user", "db_pass": "secret", "wp_path": "/var/www/html",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result["timestamp"])
	assert.NotEmpty(t, result["db_dump"])
	assert.NotEmpty(t, result["content_tar"])
}

func TestBackupDBFailsOnNonZeroExit(t *testing.T) {
	original := backupTimestamp
	backupTimestamp = func() string { return "20260101000000" }
	defer func() { backupTimestamp = original }()

	conn := newFakeConn()
	conn.stub("export MYSQL_PWD='secret' && mysqldump -u 'wp_user' 'wp_site' | gzip > '/tmp/backups/wp_site-20260101000000.sql.gz'",
		sshexec.Result{ExitCode: 1, Stderr: "access denied"})

	_, err := BackupDB(context.Background(), conn, map[string]any{
		"db_name": "wp_site", "db_user": "wp_user", "db_pass": "secret",
	})
	assert.Error(t, err)
}
