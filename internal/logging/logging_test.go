package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactMasksSecretFields(t *testing.T) {
	in := map[string]any{
		"host":          "example.com",
		"password":      "s3cret",
		"sudo_password": "s3cret2",
		"db_password":   "dbpw",
		"key_path":      "/tmp/key",
	}
	out := Redact(in)

	assert.Equal(t, "example.com", out["host"])
	assert.Equal(t, "[redacted]", out["password"])
	assert.Equal(t, "[redacted]", out["sudo_password"])
	assert.Equal(t, "[redacted]", out["db_password"])
	assert.Equal(t, "[redacted]", out["key_path"])
}

func TestRedactRecursesNestedMaps(t *testing.T) {
	in := map[string]any{
		"site": map[string]any{
			"host":     "example.com",
			"password": "s3cret",
		},
	}
	out := Redact(in)
	nested := out["site"].(map[string]any)
	assert.Equal(t, "example.com", nested["host"])
	assert.Equal(t, "[redacted]", nested["password"])
}

func TestRedactNilIsNil(t *testing.T) {
	assert.Nil(t, Redact(nil))
}

func TestRedactLeavesNonSecretFieldsUntouched(t *testing.T) {
	in := map[string]any{"task_id": "abc", "state": "succeeded"}
	out := Redact(in)
	assert.Equal(t, in, out)
}

func TestNewBuildsDevAndProdLoggers(t *testing.T) {
	devLogger, err := New("dev", "debug")
	assert.NoError(t, err)
	assert.NotNil(t, devLogger)

	prodLogger, err := New("prod", "info")
	assert.NoError(t, err)
	assert.NotNil(t, prodLogger)
}

func TestNewFallsBackToInfoOnBadLevel(t *testing.T) {
	logger, err := New("prod", "not-a-level")
	assert.NoError(t, err)
	assert.NotNil(t, logger)
}
