package main

import (
	"github.com/opsbridge/wpctl/internal/services/nginx"
	"github.com/opsbridge/wpctl/internal/services/monitoring"
	"github.com/opsbridge/wpctl/pkg/plugin"
)

// initializeBuiltinPlugins registers the built-in plugins that remain in
// scope for WordPress site provisioning: nginx (vhost/SSL setup) and
// monitoring (server-level healthchecks the CLI still exposes).
func initializeBuiltinPlugins() {
	plugin.RegisterBuiltin("github.com/opsbridge/wpctl/plugins/nginx", nginx.NewPlugin())
	plugin.RegisterBuiltin("github.com/opsbridge/wpctl/plugins/monitoring", monitoring.NewPlugin())
}