package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestTTLMapPutGet(t *testing.T) {
	m := NewTTLMap[string]()
	m.Put("k", "v", time.Minute)
	got, ok := m.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get after Put = (%q, %v), want (v, true)", got, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Fatalf("expected absent for unknown key")
	}
}

func TestTTLMapExpiry(t *testing.T) {
	m := NewTTLMap[int]()
	now := time.Now()
	m.now = func() time.Time { return now }

	m.Put("k", 7, 30*time.Minute)
	now = now.Add(30*time.Minute - time.Nanosecond)
	if _, ok := m.Get("k"); !ok {
		t.Fatalf("expected hit just before expiry")
	}

	// elapsed == ttl already reads absent
	now = now.Add(time.Nanosecond)
	if got, ok := m.Get("k"); ok {
		t.Fatalf("Get at exactly ttl = (%d, %v), want absent", got, ok)
	}
}

func TestTTLMapLastWriteWins(t *testing.T) {
	m := NewTTLMap[string]()
	m.Put("k", "first", time.Minute)
	m.Put("k", "second", time.Minute)
	got, ok := m.Get("k")
	if !ok || got != "second" {
		t.Fatalf("Get = (%q, %v), want (second, true)", got, ok)
	}
}

func TestTTLMapOverwriteResetsExpiry(t *testing.T) {
	m := NewTTLMap[string]()
	now := time.Now()
	m.now = func() time.Time { return now }

	m.Put("k", "v", time.Minute)
	now = now.Add(50 * time.Second)
	m.Put("k", "v2", time.Minute)
	now = now.Add(30 * time.Second)
	if got, ok := m.Get("k"); !ok || got != "v2" {
		t.Fatalf("expected refreshed entry to still be live, got (%q, %v)", got, ok)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	if err := s.Set(ctx, "k", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || !bytes.Equal(v, []byte("payload")) {
		t.Fatalf("Get = (%q, %v, %v)", v, ok, err)
	}
}
