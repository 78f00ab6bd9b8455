// Package worker bridges the durable queue to the task handlers: it
// decodes a job's kwargs back into a domain.SiteRecord, acquires a live
// SSH connection for the handlers that need one, runs the handler,
// records the outcome in the task store, and fires the reporter.
package worker

import (
	"context"
	"fmt"

	"github.com/opsbridge/wpctl/internal/domain"
	"github.com/opsbridge/wpctl/internal/handlers"
	"github.com/opsbridge/wpctl/internal/logging"
	"github.com/opsbridge/wpctl/internal/queue/asynqueue"
	"github.com/opsbridge/wpctl/internal/reporter"
	"github.com/opsbridge/wpctl/internal/sshexec"
	"github.com/opsbridge/wpctl/internal/taskstore"
	"go.uber.org/zap"
)

// Dispatcher owns the pieces every SSH-backed task handler needs to run
// and report: the task store, the handler registry, and the reporter.
type Dispatcher struct {
	Store    *taskstore.Store
	Registry handlers.Registry
	Report   *reporter.Reporter
	Log      *zap.Logger
}

// localKinds never touch SSH: they probe the public internet (TLS dial,
// RDAP, an HTTP GET) from the worker process itself, mirroring the
// original Fabric tasks that ran via c.local instead of c.run.
var localKinds = map[string]bool{
	"healthcheck":        true,
	"ssl_expiry":         true,
	"domain_ssl_collect": true,
}

// HandlerFor returns an asynqueue.HandlerFunc that drives the named
// handler kind against a freshly acquired connection, scoped to one
// task's lifetime per spec §4.2. For localKinds it skips the SSH
// acquisition entirely and invokes the handler with a nil connection.
func (d *Dispatcher) HandlerFor(kind string) asynqueue.HandlerFunc {
	h, ok := d.Registry[kind]
	if !ok {
		panic(fmt.Sprintf("worker: no handler registered for kind %q", kind))
	}

	if localKinds[kind] {
		return func(ctx context.Context, taskID string, kwargs map[string]any) error {
			if err := d.Store.MarkRunning(taskID); err != nil {
				return err
			}
			result, err := h(ctx, nil, kwargs)
			if err != nil {
				return d.fail(taskID, kwargs, err)
			}
			return d.succeed(taskID, result)
		}
	}

	return func(ctx context.Context, taskID string, kwargs map[string]any) error {
		if err := d.Store.MarkRunning(taskID); err != nil {
			return err
		}

		site, err := SiteFromKwargs(kwargs)
		if err != nil {
			return d.fail(taskID, kwargs, err)
		}

		conn, err := sshexec.Acquire(ctx, site)
		if err != nil {
			return d.fail(taskID, kwargs, fmt.Errorf("connect: %w", err))
		}
		defer conn.Release()

		result, err := h(ctx, conn, kwargs)
		if err != nil {
			return d.fail(taskID, kwargs, err)
		}
		return d.succeed(taskID, result)
	}
}

func (d *Dispatcher) succeed(taskID string, result map[string]any) error {
	if err := d.Store.Complete(taskID, result); err != nil {
		return err
	}
	d.notify(taskID)
	return nil
}

func (d *Dispatcher) fail(taskID string, kwargs map[string]any, cause error) error {
	info := cause.Error()
	if err := d.Store.Fail(taskID, info); err != nil {
		return err
	}
	if d.Log != nil {
		d.Log.Warn("task failed",
			zap.String("task_id", taskID),
			zap.String("info", info),
			zap.Any("kwargs", logging.Redact(kwargs)),
		)
	}
	d.notify(taskID)
	return nil
}

func (d *Dispatcher) notify(taskID string) {
	if d.Report == nil {
		return
	}
	task, ok := d.Store.Lookup(taskID)
	if !ok {
		return
	}
	if err := d.Report.Report(task.ReportEmail, task); err != nil && d.Log != nil {
		d.Log.Warn("report send failed", zap.String("task_id", taskID), zap.Error(err))
	}
}

// SiteFromKwargs pulls the "site" sub-map every enqueued job carries and
// decodes it into a domain.SiteRecord.
func SiteFromKwargs(kwargs map[string]any) (domain.SiteRecord, error) {
	raw, ok := kwargs["site"]
	if !ok {
		return domain.SiteRecord{}, fmt.Errorf("worker: job is missing site credentials")
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return domain.SiteRecord{}, fmt.Errorf("worker: site credentials have the wrong shape")
	}

	site := domain.SiteRecord{
		Host:          stringOf(m["host"]),
		User:          stringOf(m["user"]),
		Port:          intOf(m["port"]),
		KeyPath:       stringOf(m["key_path"]),
		PrivateKeyPEM: stringOf(m["private_key"]),
		Password:      stringOf(m["password"]),
		SudoPassword:  stringOf(m["sudo_password"]),
		InstallDir:    stringOf(m["install_dir"]),
		DBName:        stringOf(m["db_name"]),
		DBUser:        stringOf(m["db_user"]),
		DBPassword:    stringOf(m["db_password"]),
	}
	if err := site.Validate(); err != nil {
		return domain.SiteRecord{}, err
	}
	return site, nil
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func intOf(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
