// Package settings persists the player's sound preferences.
package settings

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"github.com/felixgeelhaar/wolong/internal/storage"
)

// DefaultVolume is used when no valid volume is stored.
const DefaultVolume = 0.5

// Sound holds the sound preferences.
type Sound struct {
	Enabled bool    `json:"enabled"`
	Volume  float64 `json:"volume"`
}

// Defaults returns sound enabled at half volume.
func Defaults() Sound {
	return Sound{Enabled: true, Volume: DefaultVolume}
}

// Store reads and writes sound settings. Failures are logged and swallowed.
type Store struct {
	blobs storage.BlobStore
}

// NewStore creates a settings store over blobs.
func NewStore(blobs storage.BlobStore) *Store {
	return &Store{blobs: blobs}
}

// Load returns the stored settings. Sound is enabled unless the stored
// value is exactly "false".
func (s *Store) Load(ctx context.Context) Sound {
	out := Defaults()

	if v, found, err := s.blobs.Get(ctx, storage.KeySoundEnabled); err != nil {
		slog.Warn("failed to load sound setting", "key", storage.KeySoundEnabled, "error", err)
	} else if found {
		out.Enabled = v != "false"
	}

	if v, found, err := s.blobs.Get(ctx, storage.KeySoundVolume); err != nil {
		slog.Warn("failed to load sound setting", "key", storage.KeySoundVolume, "error", err)
	} else if found {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out.Volume = ClampVolume(f)
		}
	}

	return out
}

// SetEnabled stores the enabled flag and returns the resulting settings.
func (s *Store) SetEnabled(ctx context.Context, enabled bool) Sound {
	if err := s.blobs.Set(ctx, storage.KeySoundEnabled, strconv.FormatBool(enabled)); err != nil {
		slog.Error("failed to save sound setting", "key", storage.KeySoundEnabled, "error", err)
	}
	out := s.Load(ctx)
	out.Enabled = enabled
	return out
}

// SetVolume clamps volume into [0, 1], stores it and returns the resulting settings.
func (s *Store) SetVolume(ctx context.Context, volume float64) Sound {
	volume = ClampVolume(volume)
	if err := s.blobs.Set(ctx, storage.KeySoundVolume, strconv.FormatFloat(volume, 'f', -1, 64)); err != nil {
		slog.Error("failed to save sound setting", "key", storage.KeySoundVolume, "error", err)
	}
	out := s.Load(ctx)
	out.Volume = volume
	return out
}

// Reset removes both keys.
func (s *Store) Reset(ctx context.Context) Sound {
	for _, key := range []string{storage.KeySoundEnabled, storage.KeySoundVolume} {
		if err := s.blobs.Remove(ctx, key); err != nil {
			slog.Error("failed to reset sound setting", "key", key, "error", err)
		}
	}
	return Defaults()
}

// ClampVolume limits v to [0, 1]. NaN maps to DefaultVolume.
func ClampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultVolume
	}
	return math.Max(0, math.Min(1, v))
}
