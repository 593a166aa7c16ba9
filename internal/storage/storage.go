// Package storage defines the key/value blob store the game persists through.
//
// Callers treat every write as best-effort: a failed Set or Remove is logged
// by the caller and never blocks play.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Well-known keys.
const (
	KeyProgress     = "wolong-math-progress"
	KeySoundEnabled = "wolong-sound-enabled"
	KeySoundVolume  = "wolong-sound-volume"
)

// ErrInvalidKey is returned for keys that are empty or could escape a
// file-backed store's directory.
var ErrInvalidKey = errors.New("invalid storage key")

// BlobStore is an opaque string store. Get reports absence with found=false
// rather than an error; Remove of an absent key is not an error.
type BlobStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// ValidateKey checks that key is usable by every backend.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
