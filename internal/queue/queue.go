// Package queue defines the durable task-submission boundary between the
// HTTP surface and the worker pool, independent of the concrete broker.
package queue

import "context"

// Job is a unit of work handed to the queue: a task kind plus its
// arguments, already validated by the HTTP layer.
type Job struct {
	TaskID  string
	Kind    string
	Kwargs  map[string]any
}

// Queue submits jobs for asynchronous execution and enforces FIFO
// ordering per task kind (spec §4: same-kind tasks never race each
// other, different kinds run concurrently).
type Queue interface {
	Submit(ctx context.Context, job Job) error
	Close() error
}
