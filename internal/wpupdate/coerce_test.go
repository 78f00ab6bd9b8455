package wpupdate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceLegacyShape(t *testing.T) {
	raw := map[string]any{
		"plugins": []any{
			map[string]any{
				"name":             "Hello Dolly",
				"plugin_file":      "hello.php",
				"version":          "1.7.2",
				"latest_version":   "1.7.3",
				"update_available": true,
			},
		},
		"themes": []any{},
		"core": map[string]any{
			"current_version":  "6.5.2",
			"latest_version":   "6.6",
			"update_available": true,
		},
		"php_mysql": map[string]any{"php_version": "8.1.0", "mysql_version": "8.0.30"},
	}

	view, ok := Coerce(raw)
	require.True(t, ok)
	require.Len(t, view.Plugins, 1)
	assert.Equal(t, "hello.php", view.Plugins[0].PluginFile)
	assert.True(t, view.Core.UpdateAvailable)

	summary := Summarize(view)
	assert.Equal(t, []OutdatedPlugin{{Name: "Hello Dolly", Current: "1.7.2", Latest: "1.7.3", Active: false}}, summary.PluginsOutdated)
	assert.True(t, summary.CoreUpdateAvailable)
}

func TestCoerceNewShape(t *testing.T) {
	raw := map[string]any{
		"core": map[string]any{
			"installed": "6.5.2",
			"updates": []any{
				map[string]any{"version": "6.6", "response": "upgrade"},
			},
		},
		"plugins": map[string]any{
			"list": []any{
				map[string]any{
					"name": "Akismet", "slug": "akismet", "file": "akismet/akismet.php",
					"installed": "5.0", "available": "5.3", "has_update": true,
				},
			},
		},
		"themes": map[string]any{"list": []any{}},
	}

	view, ok := Coerce(raw)
	require.True(t, ok)
	require.Len(t, view.Plugins, 1)
	assert.Equal(t, "akismet/akismet.php", view.Plugins[0].PluginFile)
	assert.True(t, view.Core.UpdateAvailable)
	assert.Equal(t, "6.6", view.Core.LatestVersion)

	outdated := SelectOutdatedPlugins(view, nil)
	assert.Equal(t, []string{"akismet/akismet.php"}, outdated)
}

func TestCoerceWrappedRaw(t *testing.T) {
	inner := map[string]any{"plugins": []any{}, "themes": []any{}}
	wrapped := map[string]any{"raw": inner}

	view, ok := Coerce(wrapped)
	require.True(t, ok)
	assert.Empty(t, view.Plugins)
}

func TestCoerceWrappedResultRaw(t *testing.T) {
	inner := map[string]any{"plugins": []any{}, "themes": []any{}}
	wrapped := map[string]any{"result": map[string]any{"raw": inner}}

	_, ok := Coerce(wrapped)
	assert.True(t, ok)
}

func TestCoerceWrappedResultDirect(t *testing.T) {
	wrapped := map[string]any{"result": map[string]any{"plugins": []any{}, "themes": []any{}}}

	_, ok := Coerce(wrapped)
	assert.True(t, ok)
}

func TestCoerceJSONString(t *testing.T) {
	_, ok := Coerce(`{"plugins": [], "themes": []}`)
	assert.True(t, ok)
}

func TestCoerceUnrecognisedShape(t *testing.T) {
	_, ok := Coerce(map[string]any{"foo": "bar"})
	assert.False(t, ok)
}

func TestSelectOutdatedPluginsDropsMissingFile(t *testing.T) {
	view := StatusView{Plugins: []PluginRow{
		{PluginFile: "", UpdateAvailable: true},
		{PluginFile: "a/a.php", UpdateAvailable: true},
	}}
	assert.Equal(t, []string{"a/a.php"}, SelectOutdatedPlugins(view, nil))
}

func TestSelectOutdatedPluginsHonorsBlocklist(t *testing.T) {
	view := StatusView{Plugins: []PluginRow{
		{PluginFile: "a/a.php", UpdateAvailable: true},
		{PluginFile: "b/b.php", UpdateAvailable: true},
	}}
	assert.Equal(t, []string{"b/b.php"}, SelectOutdatedPlugins(view, []string{"a/a.php"}))
}

func TestSelectOutdatedPluginsIdempotent(t *testing.T) {
	view := StatusView{Plugins: []PluginRow{
		{PluginFile: "a/a.php", UpdateAvailable: true},
	}}
	first := SelectOutdatedPlugins(view, nil)
	second := SelectOutdatedPlugins(view, nil)
	assert.Equal(t, first, second)
}

func TestNormalizePluginTokenResolvesSlug(t *testing.T) {
	view := StatusView{Plugins: []PluginRow{{Slug: "akismet", PluginFile: "akismet/akismet.php"}}}
	assert.Equal(t, "akismet/akismet.php", NormalizePluginToken("akismet", view))
}

func TestNormalizePluginTokenPassthroughForPluginFile(t *testing.T) {
	view := StatusView{}
	assert.Equal(t, "already/a.php", NormalizePluginToken("already/a.php", view))
}

func TestNormalizePluginTokenUnknownPassesThrough(t *testing.T) {
	view := StatusView{}
	assert.Equal(t, "mystery-plugin", NormalizePluginToken("mystery-plugin", view))
}

func TestVersionsDifferUsesSemverOrdering(t *testing.T) {
	// "1.10.0" is newer than "1.9.0" under semver but would look older
	// under a naive string compare; update_available must follow
	// semver ordering when neither side states it explicitly.
	assert.True(t, versionsDiffer("1.9.0", "1.10.0"))
	assert.False(t, versionsDiffer("1.10.0", "1.10.0"))
	assert.False(t, versionsDiffer("1.10.0", "1.9.0"))
}

func TestVersionsDifferFallsBackToStringCompare(t *testing.T) {
	// Neither side parses as semver, so the fallback is a plain
	// inequality check.
	assert.True(t, versionsDiffer("not-a-version", "also-not-a-version"))
	assert.False(t, versionsDiffer("weird-build-1", "weird-build-1"))
}

func TestCoercePluginUpdateAvailableFallsBackToSemver(t *testing.T) {
	raw := map[string]any{
		"plugins": []any{
			map[string]any{
				"name": "Example", "plugin_file": "example/example.php",
				"version": "1.9.0", "latest_version": "1.10.0",
			},
		},
		"themes": []any{},
		"core":   map[string]any{},
	}

	view, ok := Coerce(raw)
	require.True(t, ok)
	require.Len(t, view.Plugins, 1)
	assert.True(t, view.Plugins[0].UpdateAvailable)
}
