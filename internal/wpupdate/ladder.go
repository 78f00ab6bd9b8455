package wpupdate

import (
	"context"
	"net/http"
	"time"
)

// DefaultSettleInterval is the pause between an update attempt and the
// status re-read used to verify it.
const DefaultSettleInterval = 1 * time.Second

// BatchAttempt records one HTTP attempt within the update ladder.
type BatchAttempt struct {
	Step       string `json:"step"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// PluginAttempt records the per-plugin fallback attempts made after the
// batch steps failed to confirm a plugin.
type PluginAttempt struct {
	PluginFile string         `json:"plugin_file"`
	Attempts   []BatchAttempt `json:"attempts"`
	Verified   bool           `json:"verified"`
}

// LadderResult is the full outcome of driving the update ladder.
type LadderResult struct {
	OK        bool            `json:"ok"`
	PerPlugin []PluginAttempt `json:"per_plugin"`
	Batch     []BatchAttempt  `json:"batch"`
}

// Sleeper abstracts the settle pause so tests can drive the ladder
// without waiting out real time.
type Sleeper func(ctx context.Context, d time.Duration)

// RealSleeper sleeps for d or until ctx is cancelled, whichever comes
// first.
func RealSleeper(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// DriveUpdateLadder requests that pluginFiles (already resolved
// plugin_file tokens) be updated, attempting in order: a batch form
// POST, a batch JSON POST, then for anything still unconfirmed a single
// form POST followed by a single JSON POST. Between steps it sleeps
// settle and re-reads status; a plugin counts as updated once its
// installed version changed or its installed equals its latest.
func DriveUpdateLadder(ctx context.Context, client *Client, pluginFiles []string, settle time.Duration, sleep Sleeper) (LadderResult, error) {
	if settle <= 0 {
		settle = DefaultSettleInterval
	}
	if sleep == nil {
		sleep = RealSleeper
	}

	result := LadderResult{PerPlugin: []PluginAttempt{}, Batch: []BatchAttempt{}}
	if len(pluginFiles) == 0 {
		result.OK = true
		return result, nil
	}

	confirmed := make(map[string]bool, len(pluginFiles))

	beforeStatus, err := client.FetchStatus(ctx)
	if err != nil {
		return LadderResult{}, err
	}
	before := versionsByFile(beforeStatus)

	resp, _, attemptErr := client.UpdatePlugins(ctx, pluginFiles, EncodingForm)
	result.Batch = append(result.Batch, batchAttemptFrom("batch_form", resp, attemptErr))
	sleep(ctx, settle)
	if after, statusErr := client.FetchStatus(ctx); statusErr == nil {
		markConfirmed(confirmed, pluginFiles, before, after)
		before = versionsByFile(after)
	}

	remaining := unconfirmed(pluginFiles, confirmed)
	if len(remaining) > 0 {
		resp, _, attemptErr = client.UpdatePlugins(ctx, remaining, EncodingJSON)
		result.Batch = append(result.Batch, batchAttemptFrom("batch_json", resp, attemptErr))
		sleep(ctx, settle)
		if after, statusErr := client.FetchStatus(ctx); statusErr == nil {
			markConfirmed(confirmed, remaining, before, after)
			before = versionsByFile(after)
		}
	}

	remaining = unconfirmed(pluginFiles, confirmed)
	for _, pf := range remaining {
		attempt := PluginAttempt{PluginFile: pf}

		resp, _, attemptErr = client.UpdatePlugins(ctx, []string{pf}, EncodingForm)
		attempt.Attempts = append(attempt.Attempts, batchAttemptFrom("single_form", resp, attemptErr))
		sleep(ctx, settle)
		if after, statusErr := client.FetchStatus(ctx); statusErr == nil {
			if isConfirmed(pf, before, after) {
				confirmed[pf] = true
				attempt.Verified = true
				before = versionsByFile(after)
				result.PerPlugin = append(result.PerPlugin, attempt)
				continue
			}
			before = versionsByFile(after)
		}

		resp, _, attemptErr = client.UpdatePlugins(ctx, []string{pf}, EncodingJSON)
		attempt.Attempts = append(attempt.Attempts, batchAttemptFrom("single_json", resp, attemptErr))
		sleep(ctx, settle)
		if after, statusErr := client.FetchStatus(ctx); statusErr == nil {
			if isConfirmed(pf, before, after) {
				confirmed[pf] = true
				attempt.Verified = true
				before = versionsByFile(after)
			}
		}
		result.PerPlugin = append(result.PerPlugin, attempt)
	}

	result.OK = len(unconfirmed(pluginFiles, confirmed)) == 0
	return result, nil
}

func versionsByFile(status StatusView) map[string]PluginRow {
	m := make(map[string]PluginRow, len(status.Plugins))
	for _, row := range status.Plugins {
		if row.PluginFile != "" {
			m[row.PluginFile] = row
		}
	}
	return m
}

func isConfirmed(pf string, before, after map[string]PluginRow) bool {
	afterRow, ok := after[pf]
	if !ok {
		return false
	}
	if beforeRow, hadBefore := before[pf]; hadBefore && beforeRow.Version != afterRow.Version {
		return true
	}
	return afterRow.LatestVersion != "" && afterRow.Version == afterRow.LatestVersion
}

func markConfirmed(confirmed map[string]bool, candidates []string, before, after map[string]PluginRow) {
	for _, pf := range candidates {
		if isConfirmed(pf, before, after) {
			confirmed[pf] = true
		}
	}
}

func unconfirmed(all []string, confirmed map[string]bool) []string {
	var out []string
	for _, pf := range all {
		if !confirmed[pf] {
			out = append(out, pf)
		}
	}
	return out
}

func batchAttemptFrom(step string, resp *http.Response, err error) BatchAttempt {
	a := BatchAttempt{Step: step}
	if err != nil {
		a.Error = err.Error()
		return a
	}
	a.StatusCode = resp.StatusCode
	return a
}
