// Package asynqueue backs internal/queue.Queue with github.com/hibiken/asynq,
// mirroring the Celery/Redis broker the original control plane used
// (original_source/Dev_Fabric/celery_app.py): one Redis-backed queue per
// task kind, FIFO within a kind, kinds running independently of one
// another.
package asynqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/hibiken/asynq"
	"github.com/opsbridge/wpctl/internal/queue"
)

// DefaultConcurrency is used when a Server is built with concurrency <=
// 0, mirroring asynq's own default guidance for a single process.
func DefaultConcurrency() int {
	return runtime.NumCPU() * 2
}

// HandlerFunc processes one task kind's payload.
type HandlerFunc func(ctx context.Context, taskID string, kwargs map[string]any) error

// payload is the wire shape of a job's asynq.Task.Payload.
type payload struct {
	TaskID string         `json:"task_id"`
	Kwargs map[string]any `json:"kwargs"`
}

// queueName maps a task kind onto its dedicated asynq queue so that
// kinds never contend with one another for worker slots.
func queueName(kind string) string {
	return "wpctl_" + kind
}

// Client submits jobs to Redis via asynq and implements queue.Queue.
type Client struct {
	client *asynq.Client
}

var _ queue.Queue = (*Client)(nil)

// NewClient dials the Redis broker identified by redisAddr (host:port,
// parsed out of the BROKER_URL the teacher's config layer already
// resolves for us).
func NewClient(redisOpt asynq.RedisConnOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpt)}
}

func (c *Client) Submit(ctx context.Context, job queue.Job) error {
	body, err := json.Marshal(payload{TaskID: job.TaskID, Kwargs: job.Kwargs})
	if err != nil {
		return fmt.Errorf("asynqueue: marshal payload: %w", err)
	}

	t := asynq.NewTask(job.Kind, body)
	_, err = c.client.EnqueueContext(ctx, t, asynq.Queue(queueName(job.Kind)), asynq.TaskID(job.TaskID))
	if err != nil {
		return fmt.Errorf("asynqueue: enqueue %s: %w", job.Kind, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Server runs one asynq worker per registered task kind against its own
// dedicated queue, so kinds never contend with one another for worker
// slots; each kind's queue still delivers in FIFO order regardless of
// concurrency (spec §4/§5 — delivery order, not completion order, is
// the guarantee).
type Server struct {
	redisOpt    asynq.RedisConnOpt
	concurrency int
	handlers    map[string]HandlerFunc
	servers     []*asynq.Server
}

// NewServer creates a worker pool bound to redisOpt, each per-kind
// worker running up to concurrency tasks of its kind at once.
// concurrency <= 0 falls back to DefaultConcurrency(). Register
// handlers with RegisterHandler before calling Start.
func NewServer(redisOpt asynq.RedisConnOpt, concurrency int) *Server {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency()
	}
	return &Server{redisOpt: redisOpt, concurrency: concurrency, handlers: make(map[string]HandlerFunc)}
}

// RegisterHandler binds a task kind to its processing function.
func (s *Server) RegisterHandler(kind string, fn HandlerFunc) {
	s.handlers[kind] = fn
}

// Start launches one asynq.Server per registered kind in its own
// goroutine. It returns immediately; call Shutdown to stop them all.
func (s *Server) Start() error {
	for kind, fn := range s.handlers {
		qn := queueName(kind)
		srv := asynq.NewServer(s.redisOpt, asynq.Config{
			Concurrency: s.concurrency,
			Queues:      map[string]int{qn: 1},
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(kind, makeAsynqHandler(fn))

		if err := srv.Start(mux); err != nil {
			s.Shutdown()
			return fmt.Errorf("asynqueue: start worker for %s: %w", kind, err)
		}
		s.servers = append(s.servers, srv)
	}
	return nil
}

// Shutdown stops every registered per-kind worker.
func (s *Server) Shutdown() {
	for _, srv := range s.servers {
		srv.Shutdown()
	}
}

func makeAsynqHandler(fn HandlerFunc) func(ctx context.Context, t *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var p payload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("asynqueue: unmarshal payload: %w", err)
		}
		return fn(ctx, p.TaskID, p.Kwargs)
	}
}
