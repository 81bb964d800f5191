package cache

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })

	s, err := NewRedisFromURL(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("NewRedisFromURL: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStoreRoundtrip(t *testing.T) {
	s, _ := newTestRedis(t)
	ctx := context.Background()

	if err := s.Set(ctx, "url", []byte(`{"ok":true}`), 30*time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "url")
	if err != nil || !ok {
		t.Fatalf("Get = (_, %v, %v), want hit", ok, err)
	}
	if !bytes.Equal(v, []byte(`{"ok":true}`)) {
		t.Fatalf("Get value = %q", v)
	}
}

func TestRedisStoreMiss(t *testing.T) {
	s, _ := newTestRedis(t)
	_, ok, err := s.Get(context.Background(), "nope")
	if err != nil || ok {
		t.Fatalf("Get miss = (_, %v, %v), want (false, nil)", ok, err)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	s, mr := newTestRedis(t)
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(time.Minute + time.Second)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected absent after ttl")
	}
}
