package reporter

import (
	"testing"

	"github.com/opsbridge/wpctl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportNoOpWithoutRecipient(t *testing.T) {
	r := New(Config{Host: "smtp.example.com", Port: 587})
	task := domain.NewTask("wp_status", nil, "")
	assert.NoError(t, r.Report("", task))
}

func TestReportNoOpWithoutHost(t *testing.T) {
	r := New(Config{})
	task := domain.NewTask("wp_status", nil, "")
	assert.NoError(t, r.Report("ops@example.com", task))
}

func TestFormatBodyIncludesAdminCreds(t *testing.T) {
	task := domain.NewTask("provision_wp_sh", nil, "")
	task.Result = map[string]any{"admin_user": "admin", "db_user": "wp_user", "db_name": "wp_db"}

	body, err := formatBody(task)
	require.NoError(t, err)
	assert.Contains(t, body, "Admin User: admin")
	assert.Contains(t, body, "DB: wp_db / wp_user")
}

func TestFormatBodyWithoutCredsOmitsThem(t *testing.T) {
	task := domain.NewTask("ssl_expiry", nil, "")
	body, err := formatBody(task)
	require.NoError(t, err)
	assert.NotContains(t, body, "Admin User")
	assert.NotContains(t, body, "DB:")
}
