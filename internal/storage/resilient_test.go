package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// flakyStore fails the first failures calls and then delegates to a MemoryStore.
type flakyStore struct {
	mu       sync.Mutex
	failures int
	calls    int
	inner    *MemoryStore
}

var errTransient = errors.New("disk busy")

func (f *flakyStore) fail() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures > 0 {
		f.failures--
		return errTransient
	}
	return nil
}

func (f *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := f.fail(); err != nil {
		return "", false, err
	}
	return f.inner.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.inner.Set(ctx, key, value)
}

func (f *flakyStore) Remove(ctx context.Context, key string) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.inner.Remove(ctx, key)
}

func testResilientConfig() ResilientConfig {
	return ResilientConfig{
		MaxAttempts:      3,
		InitialDelay:     time.Millisecond,
		MaxDelay:         5 * time.Millisecond,
		FailureThreshold: 10,
		OpenTimeout:      time.Second,
	}
}

func TestResilientStore_RetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStore{failures: 2, inner: NewMemoryStore()}
	s := NewResilientStore(flaky, testResilientConfig())

	if err := s.Set(ctx, KeyProgress, "data"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if flaky.calls != 3 {
		t.Errorf("calls = %d, want 3", flaky.calls)
	}

	v, found, err := s.Get(ctx, KeyProgress)
	if err != nil || !found || v != "data" {
		t.Errorf("Get() = (%q, %v, %v), want (data, true, nil)", v, found, err)
	}
}

func TestResilientStore_GivesUp(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStore{failures: 100, inner: NewMemoryStore()}
	s := NewResilientStore(flaky, testResilientConfig())

	if err := s.Remove(ctx, KeyProgress); err == nil {
		t.Fatal("Remove() should fail when every attempt fails")
	}
}

func TestResilientStore_InvalidKeyNotRetried(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStore{inner: NewMemoryStore()}
	s := NewResilientStore(flaky, testResilientConfig())

	if err := s.Set(ctx, "../escape", "x"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("Set() error = %v, want ErrInvalidKey", err)
	}
	if flaky.calls != 0 {
		t.Errorf("calls = %d, want 0", flaky.calls)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errTransient, true},
		{ErrInvalidKey, false},
		{context.Canceled, false},
		{context.DeadlineExceeded, false},
	}
	for _, tt := range tests {
		if got := isRetryable(tt.err); got != tt.want {
			t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
