package progress

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/felixgeelhaar/wolong/internal/domain"
)

// Decode parses a persisted blob and fills everything missing or malformed
// from Defaults(now). Each top-level field is decoded on its own so one bad
// field does not discard the rest. completedLevels is merged per mode;
// achievements, when present, replace the default list wholesale.
// CurrentLevel is recomputed from the merged star total.
//
// The error is non-nil only when the blob is not a JSON object at all, in
// which case the returned progress is Defaults(now).
func Decode(blob []byte, now time.Time) (domain.PlayerProgress, error) {
	p := Defaults(now)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(blob, &fields); err != nil {
		return p, fmt.Errorf("decode progress: %w", err)
	}

	if raw, ok := present(fields, "totalStars"); ok {
		var stars int
		if err := json.Unmarshal(raw, &stars); err == nil && stars >= 0 {
			p.TotalStars = stars
		} else {
			slog.Warn("ignoring malformed progress field", "field", "totalStars")
		}
	}

	if raw, ok := present(fields, "completedLevels"); ok {
		var byMode map[string]json.RawMessage
		if err := json.Unmarshal(raw, &byMode); err != nil {
			slog.Warn("ignoring malformed progress field", "field", "completedLevels")
		}
		for _, mode := range domain.AllModes() {
			levelsRaw, ok := present(byMode, string(mode))
			if !ok {
				continue
			}
			var levels []int
			if err := json.Unmarshal(levelsRaw, &levels); err != nil {
				slog.Warn("ignoring malformed progress field", "field", "completedLevels."+string(mode))
				continue
			}
			p.CompletedLevels[mode] = normalizeLevels(levels)
		}
	}

	if raw, ok := present(fields, "achievements"); ok {
		var list []domain.Achievement
		if err := json.Unmarshal(raw, &list); err == nil {
			p.Achievements = list
		} else {
			slog.Warn("ignoring malformed progress field", "field", "achievements")
		}
	}

	if raw, ok := present(fields, "lastPlayed"); ok {
		var at time.Time
		if err := json.Unmarshal(raw, &at); err == nil {
			p.LastPlayed = at
		}
	}

	// currentLevel is derived; a stored value is never trusted.
	p.CurrentLevel = domain.RankFor(p.TotalStars)

	return p, nil
}

// Encode serializes progress in the persisted schema.
func Encode(p domain.PlayerProgress) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode progress: %w", err)
	}
	return data, nil
}

// present returns the raw field when it exists and is not JSON null.
func present(fields map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

// normalizeLevels drops out-of-range and repeated levels, keeping first-seen order.
func normalizeLevels(levels []int) []int {
	out := make([]int, 0, len(levels))
	for _, l := range levels {
		if l < 1 || slices.Contains(out, l) {
			continue
		}
		out = append(out, l)
	}
	return out
}
