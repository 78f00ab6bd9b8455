package handlers

import (
	"context"
	"testing"

	"github.com/opsbridge/wpctl/internal/sshexec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWPStatusParsesThreeSubcommands(t *testing.T) {
	conn := newFakeConn()
	conn.stub("cd /var/www/html && wp core check-update --format=json",
		sshexec.Result{Stdout: `[{"version":"6.6"}]`})
	conn.stub("cd /var/www/html && wp plugin list --update=available --format=json",
		sshexec.Result{Stdout: `[{"name":"Akismet"}]`})
	conn.stub("cd /var/www/html && wp theme list --update=available --format=json",
		sshexec.Result{Stdout: ""})

	result, err := WPStatus(context.Background(), conn, map[string]any{"wp_path": "/var/www/html"})
	require.NoError(t, err)

	assert.Equal(t, []any{map[string]any{"version": "6.6"}}, result["core"])
	assert.Equal(t, []any{map[string]any{"name": "Akismet"}}, result["plugins"])
	assert.Equal(t, []any{}, result["themes"])
}

func TestWPStatusRequiresWPPath(t *testing.T) {
	conn := newFakeConn()
	_, err := WPStatus(context.Background(), conn, map[string]any{})
	assert.Error(t, err)
}
