package wpupdate

import "context"

// CoreUpdateResult is the outcome of driving a core update.
type CoreUpdateResult struct {
	OK             bool        `json:"ok"`
	Skipped        bool        `json:"skipped,omitempty"`
	Reason         string      `json:"reason,omitempty"`
	Current        string      `json:"current,omitempty"`
	Latest         string      `json:"latest,omitempty"`
	StatusSnapshot *StatusView `json:"status_snapshot,omitempty"`
	StatusCode     int         `json:"status_code,omitempty"`
	URL            string      `json:"url,omitempty"`
	Response       string      `json:"response,omitempty"`
}

// DriveCoreUpdate drives the core-update operation. When precheck is
// true and the status read shows no core update available, it returns a
// skipped result without POSTing to the update-core endpoint.
func DriveCoreUpdate(ctx context.Context, client *Client, precheck bool) (CoreUpdateResult, error) {
	if precheck {
		status, err := client.FetchStatus(ctx)
		if err != nil {
			return CoreUpdateResult{}, err
		}
		if !status.Core.UpdateAvailable {
			snap := status
			return CoreUpdateResult{
				OK:             true,
				Skipped:        true,
				Reason:         "core already at latest version",
				Current:        status.Core.CurrentVersion,
				Latest:         status.Core.LatestVersion,
				StatusSnapshot: &snap,
			}, nil
		}
	}

	statusCode, body, err := client.UpdateCore(ctx)
	if err != nil {
		return CoreUpdateResult{}, err
	}
	return CoreUpdateResult{
		OK:         statusCode >= 200 && statusCode < 300,
		StatusCode: statusCode,
		URL:        joinURL(client.BaseURL, updateCorePath),
		Response:   body,
	}, nil
}

// OutdatedPlugin is one row of the outdated-fetch summary.
type OutdatedPlugin struct {
	Name    string `json:"name"`
	Current string `json:"current"`
	Latest  string `json:"latest"`
	Active  bool   `json:"active"`
}

// OutdatedSummary is the shape returned by the wp-outdated-fetch
// handler.
type OutdatedSummary struct {
	PluginsOutdated     []OutdatedPlugin `json:"plugins_outdated"`
	CoreUpdateAvailable bool             `json:"core_update_available"`
	Core                CoreInfo         `json:"core"`
}

// Summarize builds the outdated-fetch report from a status view.
func Summarize(status StatusView) OutdatedSummary {
	var plugins []OutdatedPlugin
	for _, row := range status.Plugins {
		if !row.UpdateAvailable {
			continue
		}
		plugins = append(plugins, OutdatedPlugin{
			Name:    row.Name,
			Current: row.Version,
			Latest:  row.LatestVersion,
			Active:  row.Active,
		})
	}
	return OutdatedSummary{
		PluginsOutdated:     plugins,
		CoreUpdateAvailable: status.Core.UpdateAvailable,
		Core:                status.Core,
	}
}
