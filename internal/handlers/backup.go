package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/opsbridge/wpctl/internal/shquote"
	"github.com/opsbridge/wpctl/internal/sshexec"
)

const timestampFormat = "20060102150405" // YYYYMMDDHHMMSS, UTC

// backupTimestamp is a seam so tests can observe a fixed clock; tests
// exercise the command-building helpers directly rather than this path.
var backupTimestamp = func() string { return time.Now().UTC().Format(timestampFormat) }

// BackupSite produces both a database dump and a wp-content tarball,
// grounded on the original Fabric backup_site task.
func BackupSite(ctx context.Context, conn sshexec.Connection, kwargs map[string]any) (map[string]any, error) {
	dbResult, err := runDBDump(ctx, conn, kwargs)
	if err != nil {
		return nil, err
	}
	tarResult, err := runContentTar(ctx, conn, kwargs, dbResult.ts)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"db_dump":     dbResult.path,
		"content_tar": tarResult.path,
		"timestamp":   dbResult.ts,
	}, nil
}

// BackupDB produces only the database dump.
func BackupDB(ctx context.Context, conn sshexec.Connection, kwargs map[string]any) (map[string]any, error) {
	dbResult, err := runDBDump(ctx, conn, kwargs)
	if err != nil {
		return nil, err
	}
	return map[string]any{"db_dump": dbResult.path, "timestamp": dbResult.ts}, nil
}

// BackupWPContent produces only the wp-content tarball.
func BackupWPContent(ctx context.Context, conn sshexec.Connection, kwargs map[string]any) (map[string]any, error) {
	ts := backupTimestamp()
	tarResult, err := runContentTar(ctx, conn, kwargs, ts)
	if err != nil {
		return nil, err
	}
	return map[string]any{"content_tar": tarResult.path, "timestamp": tarResult.ts}, nil
}

type dumpResult struct {
	path string
	ts   string
}

// runDBDump pipes mysqldump through gzip, injecting the database
// password via the MYSQL_PWD environment variable rather than the
// command line, per spec §4.4.
func runDBDump(ctx context.Context, conn sshexec.Connection, kwargs map[string]any) (dumpResult, error) {
	dbName := stringArg(kwargs, "db_name", "")
	dbUser := stringArg(kwargs, "db_user", "")
	dbPass := stringArg(kwargs, "db_pass", "")
	outDir := stringArg(kwargs, "out_dir", "/tmp/backups")
	if dbName == "" || dbUser == "" {
		return dumpResult{}, fmt.Errorf("backup: db_name and db_user are required")
	}

	ts := backupTimestamp()
	sqlPath := fmt.Sprintf("%s/%s-%s.sql.gz", outDir, dbName, ts)

	if _, err := run(ctx, conn, fmt.Sprintf("mkdir -p %s", shquote.Single(outDir))); err != nil {
		return dumpResult{}, fmt.Errorf("backup: mkdir out_dir: %w", err)
	}

	cmd := fmt.Sprintf(
		"export MYSQL_PWD=%s && mysqldump -u %s %s | gzip > %s",
		shquote.Single(dbPass), shquote.Single(dbUser), shquote.Single(dbName), shquote.Single(sqlPath),
	)
	res, err := run(ctx, conn, cmd)
	if err != nil {
		return dumpResult{}, fmt.Errorf("backup: mysqldump: %w", err)
	}
	if !res.OK() {
		return dumpResult{}, fmt.Errorf("backup: mysqldump failed: %s", res.Stderr)
	}

	return dumpResult{path: sqlPath, ts: ts}, nil
}

type tarResult struct {
	path string
	ts   string
}

// runContentTar archives wp-content under wpPath into a timestamped
// tarball in outDir.
func runContentTar(ctx context.Context, conn sshexec.Connection, kwargs map[string]any, ts string) (tarResult, error) {
	wpPath := stringArg(kwargs, "wp_path", "")
	outDir := stringArg(kwargs, "out_dir", "/tmp/backups")
	if wpPath == "" {
		return tarResult{}, fmt.Errorf("backup: wp_path is required")
	}

	tarPath := fmt.Sprintf("%s/wp-content-%s.tar.gz", outDir, ts)

	if _, err := run(ctx, conn, fmt.Sprintf("mkdir -p %s", shquote.Single(outDir))); err != nil {
		return tarResult{}, fmt.Errorf("backup: mkdir out_dir: %w", err)
	}

	cmd := fmt.Sprintf("tar -C %s -czf %s wp-content", shquote.Single(wpPath), shquote.Single(tarPath))
	res, err := run(ctx, conn, cmd)
	if err != nil {
		return tarResult{}, fmt.Errorf("backup: tar: %w", err)
	}
	if !res.OK() {
		return tarResult{}, fmt.Errorf("backup: tar failed: %s", res.Stderr)
	}

	return tarResult{path: tarPath, ts: ts}, nil
}
