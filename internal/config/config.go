package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the control plane's environment configuration, per spec §6.
type Config struct {
	HTTPAddr string
	LogLevel string
	LogEnv   string

	BrokerURL     string
	ResultBackend string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	SMTPFrom     string
	SMTPStartTLS bool

	ResetToken string

	CORSAllowOrigins []string

	BackupDir          string
	WaitTimeout        time.Duration
	SessionIdleTTL     time.Duration
	QueueConcurrency   int
}

// Load reads the control plane configuration from the environment.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENV", "prod")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_STARTTLS", true)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("BACKUP_DIR", "/tmp/backups")
	v.SetDefault("WAIT_TIMEOUT_SECONDS", 600)
	v.SetDefault("SESSION_IDLE_TTL_HOURS", 24)
	v.SetDefault("QUEUE_CONCURRENCY", 0)

	origins := v.GetString("CORS_ALLOW_ORIGINS")
	var originList []string
	if origins == "*" || origins == "" {
		originList = []string{"*"}
	} else {
		for _, o := range strings.Split(origins, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				originList = append(originList, o)
			}
		}
	}

	cfg := Config{
		HTTPAddr:         v.GetString("HTTP_ADDR"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogEnv:           v.GetString("LOG_ENV"),
		BrokerURL:        v.GetString("BROKER_URL"),
		ResultBackend:    v.GetString("RESULT_BACKEND"),
		SMTPHost:         v.GetString("SMTP_HOST"),
		SMTPPort:         v.GetInt("SMTP_PORT"),
		SMTPUser:         v.GetString("SMTP_USER"),
		SMTPPass:         v.GetString("SMTP_PASS"),
		SMTPFrom:         v.GetString("SMTP_FROM"),
		SMTPStartTLS:     v.GetBool("SMTP_STARTTLS"),
		ResetToken:       v.GetString("RESET_TOKEN"),
		CORSAllowOrigins: originList,
		BackupDir:        v.GetString("BACKUP_DIR"),
		WaitTimeout:      time.Duration(v.GetInt("WAIT_TIMEOUT_SECONDS")) * time.Second,
		SessionIdleTTL:   time.Duration(v.GetInt("SESSION_IDLE_TTL_HOURS")) * time.Hour,
		QueueConcurrency: v.GetInt("QUEUE_CONCURRENCY"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every missing required field at once. RESET_TOKEN is
// intentionally not required here: its absence is a 503 at request time
// on destructive routes, not a load-time failure (spec §7).
func (c Config) Validate() error {
	var missing []string
	if c.BrokerURL == "" {
		missing = append(missing, "BROKER_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ResetTokenConfigured reports whether destructive endpoints may be used.
func (c Config) ResetTokenConfigured() bool {
	return c.ResetToken != ""
}
