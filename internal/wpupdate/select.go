package wpupdate

import "strings"

// SelectOutdatedPlugins keeps plugin rows with update_available=true and
// a non-empty plugin_file not present in blocklist, matching by exact
// plugin_file. It is idempotent: applying it twice to the same status
// yields the same list.
func SelectOutdatedPlugins(status StatusView, blocklist []string) []string {
	blocked := make(map[string]bool, len(blocklist))
	for _, b := range blocklist {
		blocked[b] = true
	}

	var out []string
	for _, row := range status.Plugins {
		if row.PluginFile == "" || !row.UpdateAvailable || blocked[row.PluginFile] {
			continue
		}
		out = append(out, row.PluginFile)
	}
	return out
}

// NormalizePluginToken resolves a caller-supplied human name or slug
// against a status snapshot into a plugin_file: exact slug match, exact
// case-insensitive name match, prefix match of plugin_file by
// "{slug}/", else the token is passed through unchanged. A token already
// shaped like a plugin_file (contains "/" and ends in ".php") is
// returned unchanged without lookup.
func NormalizePluginToken(token string, status StatusView) string {
	if looksLikePluginFile(token) {
		return token
	}
	for _, row := range status.Plugins {
		if row.Slug == token {
			return row.PluginFile
		}
	}
	for _, row := range status.Plugins {
		if strings.EqualFold(row.Name, token) {
			return row.PluginFile
		}
	}
	prefix := token + "/"
	for _, row := range status.Plugins {
		if strings.HasPrefix(row.PluginFile, prefix) {
			return row.PluginFile
		}
	}
	return token
}

// NormalizePluginTokens normalises a batch of caller-supplied tokens.
func NormalizePluginTokens(tokens []string, status StatusView) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = NormalizePluginToken(t, status)
	}
	return out
}

func looksLikePluginFile(token string) bool {
	idx := strings.Index(token, "/")
	return idx > 0 && strings.HasSuffix(token, ".php")
}
