// Package logging builds the control plane's zap logger and redacts
// secrets before anything reaches it.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. "dev" yields a human-readable console encoder;
// anything else (including "") yields production JSON logging.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "dev" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// secretFields are redacted from any kwargs/result map before it is
// logged or persisted, per spec §5.
var secretFields = []string{
	"password", "sudo_password", "sudo-password", "private_key",
	"private_key_pem", "key_path", "db_password", "dbpass",
}

// Redact returns a shallow copy of m with every secret-named key masked.
// Nested maps are redacted recursively.
func Redact(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if isSecretKey(k) {
			out[k] = "[redacted]"
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = Redact(nested)
			continue
		}
		out[k] = v
	}
	return out
}

func isSecretKey(key string) bool {
	lower := strings.ToLower(key)
	for _, f := range secretFields {
		if lower == f {
			return true
		}
	}
	return false
}
