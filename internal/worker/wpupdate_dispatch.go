package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/opsbridge/wpctl/internal/queue/asynqueue"
	"github.com/opsbridge/wpctl/internal/wpupdate"
)

// These four kinds talk to a site's custom WordPress REST endpoints
// over plain HTTP; they never touch SSH, unlike every other task kind.
const (
	KindOutdatedFetch = "wp_outdated_fetch"
	KindUpdatePlugins = "wp_update_plugins"
	KindUpdateCore    = "wp_update_core"
	KindUpdateAll     = "wp_update_all"
)

// WPUpdateHandlerFor returns the asynqueue.HandlerFunc for one of the
// four HTTP-only WordPress update kinds.
func (d *Dispatcher) WPUpdateHandlerFor(kind string) asynqueue.HandlerFunc {
	return func(ctx context.Context, taskID string, kwargs map[string]any) error {
		if err := d.Store.MarkRunning(taskID); err != nil {
			return err
		}

		client, err := wpupdateClientFromKwargs(kwargs)
		if err != nil {
			return d.fail(taskID, kwargs, err)
		}

		result, err := d.runWPUpdate(ctx, kind, client, kwargs)
		if err != nil {
			return d.fail(taskID, kwargs, err)
		}
		return d.succeed(taskID, result)
	}
}

func (d *Dispatcher) runWPUpdate(ctx context.Context, kind string, client *wpupdate.Client, kwargs map[string]any) (map[string]any, error) {
	switch kind {
	case KindOutdatedFetch:
		status, err := client.FetchStatus(ctx)
		if schemaErr := asSchemaError(err); schemaErr != nil {
			return schemaErr.Result, nil
		}
		if err != nil {
			return nil, fmt.Errorf("wp_outdated_fetch: %w", err)
		}
		summary := wpupdate.Summarize(status)
		return map[string]any{
			"plugins_outdated":      summary.PluginsOutdated,
			"core_update_available": summary.CoreUpdateAvailable,
			"core":                  summary.Core,
		}, nil

	case KindUpdatePlugins:
		status, err := client.FetchStatus(ctx)
		if schemaErr := asSchemaError(err); schemaErr != nil {
			return schemaErr.Result, nil
		}
		if err != nil {
			return nil, fmt.Errorf("wp_update_plugins: %w", err)
		}
		tokens := stringSliceArg(kwargs, "plugins")
		blocklist := stringSliceArg(kwargs, "blocklist")
		var files []string
		if len(tokens) > 0 {
			files = wpupdate.NormalizePluginTokens(tokens, status)
		} else {
			files = wpupdate.SelectOutdatedPlugins(status, blocklist)
		}
		ladder, err := wpupdate.DriveUpdateLadder(ctx, client, files, wpupdate.DefaultSettleInterval, wpupdate.RealSleeper)
		if err != nil {
			return nil, fmt.Errorf("wp_update_plugins: %w", err)
		}
		return map[string]any{"ok": ladder.OK, "per_plugin": ladder.PerPlugin, "batch": ladder.Batch}, nil

	case KindUpdateCore:
		res, err := wpupdate.DriveCoreUpdate(ctx, client, boolArgFromKwargs(kwargs, "precheck", true))
		if err != nil {
			return nil, fmt.Errorf("wp_update_core: %w", err)
		}
		return structToMap(res), nil

	case KindUpdateAll:
		status, err := client.FetchStatus(ctx)
		if schemaErr := asSchemaError(err); schemaErr != nil {
			return schemaErr.Result, nil
		}
		if err != nil {
			return nil, fmt.Errorf("wp_update_all: %w", err)
		}
		blocklist := stringSliceArg(kwargs, "blocklist")
		files := wpupdate.SelectOutdatedPlugins(status, blocklist)
		ladder, err := wpupdate.DriveUpdateLadder(ctx, client, files, wpupdate.DefaultSettleInterval, wpupdate.RealSleeper)
		if err != nil {
			return nil, fmt.Errorf("wp_update_all: %w", err)
		}
		core, err := wpupdate.DriveCoreUpdate(ctx, client, true)
		if err != nil {
			return nil, fmt.Errorf("wp_update_all: %w", err)
		}
		return map[string]any{
			"plugins": map[string]any{"ok": ladder.OK, "per_plugin": ladder.PerPlugin, "batch": ladder.Batch},
			"core":    structToMap(core),
		}, nil

	default:
		return nil, fmt.Errorf("worker: unknown wpupdate kind %q", kind)
	}
}

// asSchemaError unwraps err into a *wpupdate.SchemaError if that's what it
// is, so callers can report its Result as a succeeded task instead of
// failing the task outright (spec's schema-error propagation rule).
func asSchemaError(err error) *wpupdate.SchemaError {
	var schemaErr *wpupdate.SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr
	}
	return nil
}

func wpupdateClientFromKwargs(kwargs map[string]any) (*wpupdate.Client, error) {
	baseURL := stringOf(kwargs["base_url"])
	if baseURL == "" {
		return nil, fmt.Errorf("wpupdate: base_url is required")
	}
	auth := wpupdate.Auth{
		BasicUser: stringOf(kwargs["basic_user"]),
		BasicPass: stringOf(kwargs["basic_pass"]),
	}
	return wpupdate.NewClient(baseURL, auth), nil
}

func stringSliceArg(kwargs map[string]any, key string) []string {
	raw, ok := kwargs[key]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func boolArgFromKwargs(kwargs map[string]any, key string, def bool) bool {
	if v, ok := kwargs[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// structToMap round-trips a JSON-tagged result struct through the
// encoder so it stores in the task result the same way every other
// handler's map[string]any result does.
func structToMap(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{"error": err.Error()}
	}
	return m
}
