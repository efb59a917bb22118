package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type testSchedulerConfig struct {
	redisURL string
	queue    string
}

func (c testSchedulerConfig) GetRedisURL() string      { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error when redis url is not configured")
	}
}

func TestClientEnqueueLeadRescore(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + mr.Addr(), queue: "scoring"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	err = client.EnqueueLeadRescore(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("EnqueueLeadRescore: %v", err)
	}

	if len(mr.Keys()) == 0 {
		t.Fatal("expected task written to redis")
	}
}

func TestClientEnqueueOrganizationRescoreDedupes(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + mr.Addr(), queue: "scoring"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	orgID := uuid.New()
	if err := client.EnqueueOrganizationRescore(context.Background(), orgID); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	// Same org again while the first task is still pending: swallowed, not an error
	if err := client.EnqueueOrganizationRescore(context.Background(), orgID); err != nil {
		t.Fatalf("duplicate enqueue: %v", err)
	}
}

func TestNilClientIsNoOp(t *testing.T) {
	var client *Client
	if err := client.EnqueueLeadRescore(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("nil client enqueue: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("nil client close: %v", err)
	}
}

func TestRedisClientOpt(t *testing.T) {
	opt, err := redisClientOpt("redis://:secret@localhost:6380/2", false)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.Addr != "localhost:6380" {
		t.Fatalf("expected addr localhost:6380, got %s", opt.Addr)
	}
	if opt.Password != "secret" {
		t.Fatalf("expected password parsed, got %q", opt.Password)
	}
	if opt.DB != 2 {
		t.Fatalf("expected db 2, got %d", opt.DB)
	}
	if opt.TLSConfig != nil {
		t.Fatal("expected no TLS config for redis:// URL")
	}

	if _, err := redisClientOpt("not a url", false); err == nil {
		t.Fatal("expected error for invalid redis url")
	}
}
