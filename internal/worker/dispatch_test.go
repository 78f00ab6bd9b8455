package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteFromKwargsDecodesAndValidates(t *testing.T) {
	site, err := SiteFromKwargs(map[string]any{
		"site": map[string]any{
			"host":     "example.com",
			"user":     "root",
			"port":     float64(2222),
			"password": "hunter2",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "example.com", site.Host)
	assert.Equal(t, 2222, site.Port)
	assert.Equal(t, "hunter2", site.Password)
}

func TestSiteFromKwargsMissingSiteErrors(t *testing.T) {
	_, err := SiteFromKwargs(map[string]any{})
	assert.Error(t, err)
}

func TestSiteFromKwargsRejectsAmbiguousCredentials(t *testing.T) {
	_, err := SiteFromKwargs(map[string]any{
		"site": map[string]any{
			"host":     "example.com",
			"password": "hunter2",
			"key_path": "/tmp/id_rsa",
		},
	})
	assert.Error(t, err)
}

func TestStringSliceArgIgnoresNonStringElements(t *testing.T) {
	out := stringSliceArg(map[string]any{"plugins": []any{"akismet", 5, "jetpack"}}, "plugins")
	assert.Equal(t, []string{"akismet", "jetpack"}, out)
}

func TestBoolArgFromKwargsDefaults(t *testing.T) {
	assert.True(t, boolArgFromKwargs(map[string]any{}, "precheck", true))
	assert.False(t, boolArgFromKwargs(map[string]any{"precheck": false}, "precheck", true))
}

func TestWPUpdateClientFromKwargsRequiresBaseURL(t *testing.T) {
	_, err := wpupdateClientFromKwargs(map[string]any{})
	assert.Error(t, err)
}

func TestWPUpdateClientFromKwargsBuildsAuth(t *testing.T) {
	client, err := wpupdateClientFromKwargs(map[string]any{
		"base_url":   "https://example.com",
		"basic_user": "admin",
		"basic_pass": "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", client.Auth.BasicUser)
}

func TestStructToMapRoundTrips(t *testing.T) {
	type inner struct {
		OK bool `json:"ok"`
	}
	m := structToMap(inner{OK: true})
	assert.Equal(t, true, m["ok"])
}
