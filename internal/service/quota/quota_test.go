package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Anannyachuli/Product-Portfolio/internal/testutil"
	"github.com/redis/go-redis/v9"
)

// fakeCounterClient 记录调用的 Redis 计数命令
type fakeCounterClient struct {
	counts    map[string]int64
	expires   map[string]time.Duration
	incrErr   error
	expireErr error
	expireOK  bool
	expireN   int
}

func newFakeCounterClient() *fakeCounterClient {
	return &fakeCounterClient{
		counts:   make(map[string]int64),
		expires:  make(map[string]time.Duration),
		expireOK: true,
	}
}

func (f *fakeCounterClient) Incr(ctx context.Context, key string) *redis.IntCmd {
	if f.incrErr != nil {
		return redis.NewIntResult(0, f.incrErr)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounterClient) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expireN++
	if f.expireErr != nil {
		return redis.NewBoolResult(false, f.expireErr)
	}
	f.expires[key] = expiration
	return redis.NewBoolResult(f.expireOK, nil)
}

func (f *fakeCounterClient) TTL(ctx context.Context, key string) *redis.DurationCmd {
	if _, ok := f.counts[key]; !ok {
		return redis.NewDurationResult(-2, nil)
	}
	if d, ok := f.expires[key]; ok {
		return redis.NewDurationResult(d, nil)
	}
	return redis.NewDurationResult(-1, nil)
}

func TestRedisCounter(t *testing.T) {
	client := newFakeCounterClient()
	c := NewRedisCounter(client)

	for i := int64(1); i <= 3; i++ {
		n, err := c.Incr(context.Background(), "abc", time.Hour)
		if err != nil {
			t.Fatalf("Incr() error = %v", err)
		}
		if n != i {
			t.Errorf("Incr() = %d, want %d", n, i)
		}
	}

	if got := client.expires["portfolio:quota:abc"]; got != time.Hour {
		t.Errorf("expire = %v, want 1h", got)
	}
	if client.expireN != 1 {
		t.Errorf("expire set %d times, want once", client.expireN)
	}
}

func TestRedisCounter_RestoresMissingExpiry(t *testing.T) {
	client := newFakeCounterClient()
	client.expireErr = errors.New("i/o timeout")
	c := NewRedisCounter(client)

	if _, err := c.Incr(context.Background(), "abc", time.Hour); err == nil {
		t.Fatal("Incr() expected expire error")
	}

	client.expireErr = nil
	n, err := c.Incr(context.Background(), "abc", time.Hour)
	if err != nil {
		t.Fatalf("Incr() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Incr() = %d, want 2", n)
	}
	if got := client.expires["portfolio:quota:abc"]; got != time.Hour {
		t.Errorf("expire = %v, want 1h", got)
	}

	// 已有过期时间时不再设置
	_, _ = c.Incr(context.Background(), "abc", time.Hour)
	if client.expireN != 2 {
		t.Errorf("expire calls = %d, want 2", client.expireN)
	}
}

func TestMemoryCounter_Window(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCounter()
	c.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		_, _ = c.Incr(context.Background(), "k", time.Hour)
	}
	n, _ := c.Incr(context.Background(), "k", time.Hour)
	if n != 4 {
		t.Errorf("Incr() = %d, want 4", n)
	}

	now = now.Add(time.Hour)
	n, _ = c.Incr(context.Background(), "k", time.Hour)
	if n != 1 {
		t.Errorf("Incr() after window = %d, want 1", n)
	}
}

func TestMemoryCounter_Sweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCounter()
	c.now = func() time.Time { return now }

	_, _ = c.Incr(context.Background(), "a", time.Minute)
	_, _ = c.Incr(context.Background(), "b", time.Minute)

	now = now.Add(2 * time.Minute)
	_, _ = c.Incr(context.Background(), "c", time.Minute)

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after sweep", c.Len())
	}
}

func TestGuard_Limit(t *testing.T) {
	g := NewGuard(NewMemoryCounter(), 15, time.Hour, nil)

	for i := 1; i <= 15; i++ {
		if !g.Allow(context.Background(), "session") {
			t.Fatalf("message %d rejected", i)
		}
	}
	if g.Allow(context.Background(), "session") {
		t.Error("16th message allowed")
	}
	if !g.Allow(context.Background(), "another-session") {
		t.Error("independent session rejected")
	}
}

func TestGuard_FailsOpen(t *testing.T) {
	client := newFakeCounterClient()
	client.incrErr = errors.New("connection refused")
	log, logs := testutil.ObservedLogger()
	g := NewGuard(NewRedisCounter(client), 1, time.Hour, log)

	for i := 0; i < 3; i++ {
		if !g.Allow(context.Background(), "k") {
			t.Fatal("Allow() = false on counter failure, want true")
		}
	}
	if n := logs.FilterMessage("quota counter failed, allowing request").Len(); n != 3 {
		t.Errorf("warn logs = %d, want 3", n)
	}
}
