package progress

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/wolong/internal/clock"
	"github.com/felixgeelhaar/wolong/internal/storage"
)

var testNow = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

// brokenStore fails every operation.
type brokenStore struct{}

var errBroken = errors.New("quota exceeded")

func (brokenStore) Get(context.Context, string) (string, bool, error) { return "", false, errBroken }
func (brokenStore) Set(context.Context, string, string) error { return errBroken }
func (brokenStore) Remove(context.Context, string) error { return errBroken }

func newTestStore() (*Store, *storage.MemoryStore) {
	mem := storage.NewMemoryStore()
	return NewStore(mem, clock.NewFake(testNow)), mem
}
