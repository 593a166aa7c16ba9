package domain

import (
	"fmt"
	"strings"
)

// GameMode identifies one of the three mini-games.
type GameMode string

const (
	ModeRoundUp        GameMode = "round-up"
	ModeMultiplication GameMode = "multiplication"
	ModeBalance        GameMode = "balance"
)

// LevelsPerMode is the number of selectable levels in every mode.
const LevelsPerMode = 10

// AllModes returns every game mode in menu order.
func AllModes() []GameMode {
	return []GameMode{ModeRoundUp, ModeMultiplication, ModeBalance}
}

// Valid reports whether m is one of the known modes.
func (m GameMode) Valid() bool {
	switch m {
	case ModeRoundUp, ModeMultiplication, ModeBalance:
		return true
	}
	return false
}

func (m GameMode) String() string {
	return string(m)
}

// ParseGameMode normalizes user input into a GameMode.
func ParseGameMode(s string) (GameMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "round-up", "roundup", "round_up":
		return ModeRoundUp, nil
	case "multiplication", "multiply", "mul":
		return ModeMultiplication, nil
	case "balance", "bridge":
		return ModeBalance, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// ModeInfo holds the display metadata shown on the level-select screen.
type ModeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

var modeInfo = map[GameMode]ModeInfo{
	ModeRoundUp:        {Name: "破阵篇", Description: "数字拆分与合并", Icon: "⚔️"},
	ModeMultiplication: {Name: "奇兵篇", Description: "乘法视觉化", Icon: "🔥"},
	ModeBalance:        {Name: "粮草篇", Description: "加减法平衡桥", Icon: "⚖️"},
}

// Info returns display metadata for the mode.
func (m GameMode) Info() ModeInfo {
	return modeInfo[m]
}
