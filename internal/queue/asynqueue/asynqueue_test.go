package asynqueue

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
)

func TestNewServerDefaultsConcurrencyWhenUnset(t *testing.T) {
	s := NewServer(asynq.RedisClientOpt{Addr: "localhost:6379"}, 0)
	assert.Equal(t, DefaultConcurrency(), s.concurrency)
}

func TestNewServerHonorsExplicitConcurrency(t *testing.T) {
	s := NewServer(asynq.RedisClientOpt{Addr: "localhost:6379"}, 4)
	assert.Equal(t, 4, s.concurrency)
}

func TestQueueNameIsPerKind(t *testing.T) {
	assert.Equal(t, "wpctl_wp_status", queueName("wp_status"))
	assert.NotEqual(t, queueName("wp_status"), queueName("backup_site"))
}
