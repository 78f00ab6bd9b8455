// Command controlplane runs the HTTP submitter and the per-kind worker
// pool described in spec §4/§6: it wires the durable queue, the task
// store, the session registry, the task handlers, the WordPress update
// driver, and the SMTP reporter into one process.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/opsbridge/wpctl/internal/config"
	"github.com/opsbridge/wpctl/internal/handlers"
	"github.com/opsbridge/wpctl/internal/httpapi"
	"github.com/opsbridge/wpctl/internal/logging"
	"github.com/opsbridge/wpctl/internal/queue/asynqueue"
	"github.com/opsbridge/wpctl/internal/reporter"
	"github.com/opsbridge/wpctl/internal/sessions"
	"github.com/opsbridge/wpctl/internal/taskstore"
	"github.com/opsbridge/wpctl/internal/worker"
)

// sshKinds are dispatched through the handler registry (some over a
// live SSH connection, some locally — see worker.localKinds).
var sshKinds = []string{
	"wp_status", "backup_site", "backup_db", "backup_wp_content",
	"update_with_rollback", "provision_wp_sh", "wp_reset_sh",
	"healthcheck", "ssl_expiry", "domain_ssl_collect",
}

// wpUpdateKinds are dispatched straight against a site's custom REST
// endpoints, bypassing SSH entirely.
var wpUpdateKinds = []string{
	worker.KindOutdatedFetch, worker.KindUpdatePlugins, worker.KindUpdateCore, worker.KindUpdateAll,
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "controlplane:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.LogEnv, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	redisOpt, err := redisConnOpt(cfg.BrokerURL)
	if err != nil {
		return fmt.Errorf("parse BROKER_URL: %w", err)
	}

	taskStore := taskstore.New()
	sessionRegistry := sessions.New(cfg.SessionIdleTTL)

	rep := reporter.New(reporter.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
		From:     cfg.SMTPFrom,
		StartTLS: cfg.SMTPStartTLS,
	})

	registry := handlers.NewRegistry(handlers.NewDefaultDeps())
	dispatcher := &worker.Dispatcher{Store: taskStore, Registry: registry, Report: rep, Log: log}

	queueServer := asynqueue.NewServer(redisOpt, cfg.QueueConcurrency)
	for _, kind := range sshKinds {
		queueServer.RegisterHandler(kind, dispatcher.HandlerFor(kind))
	}
	for _, kind := range wpUpdateKinds {
		queueServer.RegisterHandler(kind, dispatcher.WPUpdateHandlerFor(kind))
	}
	if err := queueServer.Start(); err != nil {
		return fmt.Errorf("start worker pool: %w", err)
	}
	defer queueServer.Shutdown()

	queueClient := asynqueue.NewClient(redisOpt)
	defer queueClient.Close()

	stopSweep := make(chan struct{})
	go sessionRegistry.RunSweeper(time.Hour, stopSweep)
	defer close(stopSweep)

	api := &httpapi.Server{
		Sessions:         sessionRegistry,
		Tasks:            taskStore,
		Queue:            queueClient,
		ResetToken:       cfg.ResetToken,
		BackupDir:        cfg.BackupDir,
		DefaultWait:      cfg.WaitTimeout,
		Log:              log,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-sig:
		log.Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// redisConnOpt parses BROKER_URL (a redis:// URL) into the connection
// options asynq needs.
func redisConnOpt(brokerURL string) (asynq.RedisConnOpt, error) {
	opts, err := redis.ParseURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	}, nil
}
