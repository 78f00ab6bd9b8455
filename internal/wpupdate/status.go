// Package wpupdate is the WordPress-side update driver: a schema-tolerant
// REST client over a site's custom status/update endpoints, with
// selection, name normalisation, and the documented update-ladder
// fallback chain.
package wpupdate

// PluginRow is a unified projection of a plugin or theme entry from
// either the legacy or the new status schema (spec §3).
type PluginRow struct {
	PluginFile      string
	Slug            string
	Name            string
	Version         string // installed
	LatestVersion   string // available
	UpdateAvailable bool
	Active          bool
}

// CoreInfo is the unified core-version projection.
type CoreInfo struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
}

// StatusView is the schema-independent projection over a site's custom
// status endpoint, built by Coerce.
type StatusView struct {
	Plugins []PluginRow
	Themes  []PluginRow
	Core    CoreInfo
}
