package wpupdate

import (
	"encoding/json"

	"github.com/Masterminds/semver/v3"
)

// Coerce accepts a dict, a JSON string, or one of the wrapped envelope
// shapes ({raw: {...}}, {result: {raw: {...}}}, {result: {plugins,
// themes, ...}}) and unwraps until it reaches a body carrying both
// "plugins" and "themes" keys, building a unified StatusView from it.
// Returns false when no such body could be found anywhere in the
// envelope.
func Coerce(raw any) (StatusView, bool) {
	body, ok := unwrap(raw)
	if !ok {
		return StatusView{}, false
	}
	return build(body), true
}

func unwrap(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return nil, false
		}
		return unwrap(parsed)
	case map[string]any:
		if _, hasPlugins := v["plugins"]; hasPlugins {
			if _, hasThemes := v["themes"]; hasThemes {
				return v, true
			}
		}
		if rawField, ok := v["raw"]; ok {
			return unwrap(rawField)
		}
		if resultField, ok := v["result"]; ok {
			return unwrap(resultField)
		}
		return nil, false
	default:
		return nil, false
	}
}

func build(body map[string]any) StatusView {
	return StatusView{
		Plugins: buildRows(body["plugins"]),
		Themes:  buildRows(body["themes"]),
		Core:    buildCore(body["core"]),
	}
}

func buildRows(raw any) []PluginRow {
	switch v := raw.(type) {
	case []any:
		return rowsFromList(v)
	case map[string]any:
		if list, ok := v["list"].([]any); ok {
			return rowsFromList(list)
		}
	}
	return nil
}

func rowsFromList(list []any) []PluginRow {
	var rows []PluginRow
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rows = append(rows, rowFromMap(m))
	}
	return rows
}

func rowFromMap(m map[string]any) PluginRow {
	pluginFile := firstNonEmpty(m, "plugin_file", "file")
	version := firstNonEmpty(m, "version", "installed")
	latest := firstNonEmpty(m, "latest_version", "available")

	updateAvailable, explicit := boolField(m, "update_available")
	if !explicit {
		updateAvailable, explicit = boolField(m, "has_update")
	}
	if !explicit {
		updateAvailable = versionsDiffer(version, latest)
	}

	active, _ := boolField(m, "active")

	return PluginRow{
		PluginFile:      pluginFile,
		Slug:            stringField(m, "slug"),
		Name:            stringField(m, "name"),
		Version:         version,
		LatestVersion:   latest,
		UpdateAvailable: updateAvailable,
		Active:          active,
	}
}

func buildCore(raw any) CoreInfo {
	m, ok := raw.(map[string]any)
	if !ok {
		return CoreInfo{}
	}

	current := firstNonEmpty(m, "current_version", "installed")
	latest := stringField(m, "latest_version")
	if latest == "" {
		if updates, ok := m["updates"].([]any); ok && len(updates) > 0 {
			if first, ok := updates[0].(map[string]any); ok {
				latest = stringField(first, "version")
			}
		}
	}

	updateAvailable, explicit := boolField(m, "update_available")
	if !explicit {
		updateAvailable = versionsDiffer(current, latest)
	}

	return CoreInfo{CurrentVersion: current, LatestVersion: latest, UpdateAvailable: updateAvailable}
}

// versionsDiffer reports whether latest is newer than current. Both
// sides are parsed as semver when possible, which tolerates a "v"
// prefix or missing patch component the API might send; when either
// side fails to parse, it falls back to a plain string comparison.
func versionsDiffer(current, latest string) bool {
	if current == "" || latest == "" {
		return false
	}
	cur, err1 := semver.NewVersion(current)
	lat, err2 := semver.NewVersion(latest)
	if err1 != nil || err2 != nil {
		return current != latest
	}
	return lat.GreaterThan(cur)
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func firstNonEmpty(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := stringField(m, k); v != "" {
			return v
		}
	}
	return ""
}

func boolField(m map[string]any, key string) (value bool, present bool) {
	v, ok := m[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	if !ok {
		return false, false
	}
	return b, true
}
