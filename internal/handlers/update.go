package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opsbridge/wpctl/internal/shquote"
	"github.com/opsbridge/wpctl/internal/sshexec"
)

// UpdateWithRollback snapshots the site, runs the in-site plugin update,
// and on a non-zero exit restores the database and wp-content from the
// snapshot, accumulating each restoration step's own error without
// aborting the others. Grounded on the original Fabric
// update_with_rollback task.
func UpdateWithRollback(ctx context.Context, conn sshexec.Connection, kwargs map[string]any) (map[string]any, error) {
	wpPath := stringArg(kwargs, "wp_path", "")
	if wpPath == "" {
		return nil, fmt.Errorf("update_with_rollback: wp_path is required")
	}

	snapshot, err := BackupSite(ctx, conn, kwargs)
	if err != nil {
		return nil, fmt.Errorf("update_with_rollback: snapshot: %w", err)
	}

	res, err := run(ctx, conn, fmt.Sprintf("cd %s && wp plugin update --all --format=json", shquote.Single(wpPath)))
	if err != nil {
		return nil, fmt.Errorf("update_with_rollback: plugin update: %w", err)
	}
	if res.OK() {
		out := res.Stdout
		if out == "" {
			out = "[]"
		}
		var details any
		if jsonErr := json.Unmarshal([]byte(out), &details); jsonErr != nil {
			details = out
		}
		return map[string]any{
			"updated":  true,
			"snapshot": snapshot,
			"details":  map[string]any{"plugins": details},
		}, nil
	}

	restoreErrors := restoreFromSnapshot(ctx, conn, kwargs, snapshot)

	return map[string]any{
		"updated":        false,
		"error":          res.Stderr,
		"snapshot":       snapshot,
		"restored":       len(restoreErrors) == 0,
		"restore_errors": restoreErrors,
	}, nil
}

// restoreFromSnapshot decompresses the SQL dump into the database and
// extracts the content tar over the install directory, normalising
// permissions (directories 0755, files 0644). Each step accumulates its
// own error record without aborting the others.
func restoreFromSnapshot(ctx context.Context, conn sshexec.Connection, kwargs map[string]any, snapshot map[string]any) []string {
	wpPath := stringArg(kwargs, "wp_path", "")
	dbName := stringArg(kwargs, "db_name", "")
	dbUser := stringArg(kwargs, "db_user", "")
	dbPass := stringArg(kwargs, "db_pass", "")

	var errs []string

	if dbDump, _ := snapshot["db_dump"].(string); dbDump != "" {
		cmd := fmt.Sprintf(
			"export MYSQL_PWD=%s && gunzip -c %s | mysql -u %s %s",
			shquote.Single(dbPass), shquote.Single(dbDump), shquote.Single(dbUser), shquote.Single(dbName),
		)
		if res, err := run(ctx, conn, cmd); err != nil {
			errs = append(errs, fmt.Sprintf("db_restore: %v", err))
		} else if !res.OK() {
			errs = append(errs, fmt.Sprintf("db_restore: %s", res.Stderr))
		}
	}

	if contentTar, _ := snapshot["content_tar"].(string); contentTar != "" && wpPath != "" {
		if _, err := run(ctx, conn, fmt.Sprintf("mkdir -p %s/wp-content", shquote.Single(wpPath))); err != nil {
			errs = append(errs, fmt.Sprintf("content_restore: %v", err))
		} else if res, err := run(ctx, conn, fmt.Sprintf("tar -C %s -xzf %s", shquote.Single(wpPath), shquote.Single(contentTar))); err != nil {
			errs = append(errs, fmt.Sprintf("content_restore: %v", err))
		} else if !res.OK() {
			errs = append(errs, fmt.Sprintf("content_restore: %s", res.Stderr))
		} else {
			dirCmd := fmt.Sprintf("find %s/wp-content -type d -exec chmod 755 {} +", shquote.Single(wpPath))
			fileCmd := fmt.Sprintf("find %s/wp-content -type f -exec chmod 644 {} +", shquote.Single(wpPath))
			run(ctx, conn, dirCmd)
			run(ctx, conn, fileCmd)
		}
	}

	return errs
}
