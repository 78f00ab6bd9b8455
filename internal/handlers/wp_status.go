package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opsbridge/wpctl/internal/shquote"
	"github.com/opsbridge/wpctl/internal/sshexec"
)

// WPStatus invokes the site's wp-cli across three JSON-producing
// subcommands and returns their parsed arrays keyed by component,
// grounded on the original Fabric task's wp_status (Dev_Fabric/
// fabric_tasks.py): core check-update, plugin list --update=available,
// theme list --update=available.
func WPStatus(ctx context.Context, conn sshexec.Connection, kwargs map[string]any) (map[string]any, error) {
	wpPath := stringArg(kwargs, "wp_path", "")
	if wpPath == "" {
		return nil, fmt.Errorf("wp_status: wp_path is required")
	}

	core, err := wpJSON(ctx, conn, wpPath, "core check-update --format=json")
	if err != nil {
		return nil, fmt.Errorf("wp_status: core check-update: %w", err)
	}
	plugins, err := wpJSON(ctx, conn, wpPath, "plugin list --update=available --format=json")
	if err != nil {
		return nil, fmt.Errorf("wp_status: plugin list: %w", err)
	}
	themes, err := wpJSON(ctx, conn, wpPath, "theme list --update=available --format=json")
	if err != nil {
		return nil, fmt.Errorf("wp_status: theme list: %w", err)
	}

	return map[string]any{"core": core, "plugins": plugins, "themes": themes}, nil
}

// wpJSON runs `cd {wpPath} && wp {cmd}` and parses stdout as JSON,
// treating an empty body as an empty array (wp-cli emits nothing when
// there's nothing to report).
func wpJSON(ctx context.Context, conn sshexec.Connection, wpPath, cmd string) (any, error) {
	res, err := run(ctx, conn, fmt.Sprintf("cd %s && wp %s", shquote.Single(wpPath), cmd))
	if err != nil {
		return nil, err
	}
	out := res.Stdout
	if out == "" {
		out = "[]"
	}
	var parsed any
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return nil, fmt.Errorf("parse wp-cli json: %w (stdout=%q)", err, out)
	}
	return parsed, nil
}
