package domain

import "errors"

// -----------------------------------------------------------------------------
// Domain Errors
// Returned by the game coordinator and the outer surfaces (daemon, MCP, CLI).
// Persistence failures never surface as errors; see progress.Store.
// -----------------------------------------------------------------------------

// Input errors
var (
	ErrInvalidMode  = errors.New("invalid game mode")
	ErrInvalidLevel = errors.New("invalid level")
	ErrInvalidStars = errors.New("invalid star count")
	ErrInvalidInput = errors.New("invalid input")
)

// Gate errors
var (
	ErrLevelLocked = errors.New("level is locked")
)

// Session errors
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionNotActive = errors.New("session is not active")
	ErrWrongMode        = errors.New("action not supported by this game mode")
)
