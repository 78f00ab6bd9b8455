package nginx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSiteAvailablePath(t *testing.T) {
	assert.Equal(t, "/etc/nginx/sites-available/example.com", siteAvailablePath("example.com"))
}

func TestGenerateSiteConfigIncludesServerName(t *testing.T) {
	s := &Service{}
	cfg := s.generateSiteConfig("example.com", false)
	assert.Contains(t, cfg, "server_name example.com;")
	assert.NotContains(t, cfg, "ssl_certificate")
}

func TestGenerateSiteConfigWithSSLAddsCertPaths(t *testing.T) {
	s := &Service{}
	cfg := s.generateSiteConfig("example.com", true)
	assert.True(t, strings.Contains(cfg, "ssl_certificate /etc/letsencrypt/live/example.com/fullchain.pem;"))
	assert.True(t, strings.Contains(cfg, "return 301 https://$host$request_uri;"))
}
