package mcp

import (
	"context"
	"fmt"
	"time"

	mcp "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/server"
	"github.com/felixgeelhaar/wolong/internal/domain"
	"github.com/felixgeelhaar/wolong/internal/problem"
	"github.com/felixgeelhaar/wolong/internal/progress"
)

// Server wraps the MCP server with Wolong functionality
type Server struct {
	mcpServer *server.Server
	progress  progress.ProgressService
	generator *problem.Generator
}

// Config contains configuration for the MCP server
type Config struct {
	Progress  progress.ProgressService
	Generator *problem.Generator
}

// NewServer creates a new MCP server for Wolong
func NewServer(cfg Config) *Server {
	s := &Server{
		progress:  cfg.Progress,
		generator: cfg.Generator,
	}

	s.mcpServer = server.New(server.Info{
		Name:    "wolong",
		Version: "0.1.0",
	}, server.WithInstructions(`
Wolong Math is an arithmetic game for children with three modes:
- round-up: pick numbers that add up to a round target
- multiplication: a factor x factor grid of blocks
- balance: add weights until the scale reaches its target

Available tools:
- wolong_problem: Generate a practice problem for a mode and level
- wolong_progress: Show stars, rank and completed levels
- wolong_levels: Show which levels of a mode are unlocked
- wolong_achievements: List achievements and when they were unlocked

Levels run from 1 to 10. Level n unlocks after level n-1 of the same mode is completed.
`))

	s.registerTools()

	return s
}

// registerTools registers all Wolong MCP tools
func (s *Server) registerTools() {
	s.mcpServer.Tool("wolong_problem").
		Description("Generate a practice problem with its answer for a game mode and level.").
		Handler(s.handleProblem)

	s.mcpServer.Tool("wolong_progress").
		Description("Get the player's stars, rank and completed levels.").
		Handler(s.handleProgress)

	s.mcpServer.Tool("wolong_levels").
		Description("Get the level-select view for a game mode.").
		Handler(s.handleLevels)

	s.mcpServer.Tool("wolong_achievements").
		Description("List achievements and their unlock state.").
		Handler(s.handleAchievements)
}

// Input/Output types for tools

type ProblemInput struct {
	Mode  string `json:"mode" jsonschema:"description=Game mode,enum=round-up,enum=multiplication,enum=balance"`
	Level int    `json:"level,omitempty" jsonschema:"description=Level 1-10 (default: 1)"`
}

type ProblemOutput struct {
	Mode    string         `json:"mode"`
	Level   int            `json:"level"`
	Prompt  string         `json:"prompt"`
	Answer  string         `json:"answer"`
	Problem domain.Problem `json:"problem"`
}

type ProgressInput struct{}

type ProgressOutput struct {
	TotalStars      int              `json:"total_stars"`
	Rank            string           `json:"rank"`
	NextRank        string           `json:"next_rank,omitempty"`
	StarsToNextRank int              `json:"stars_to_next_rank,omitempty"`
	CompletedLevels map[string][]int `json:"completed_levels"`
	Unlocked        int              `json:"achievements_unlocked"`
	LastPlayed      string           `json:"last_played"`
}

type LevelsInput struct {
	Mode string `json:"mode" jsonschema:"description=Game mode,enum=round-up,enum=multiplication,enum=balance"`
}

type LevelsOutput struct {
	Mode   string                `json:"mode"`
	Name   string                `json:"name"`
	Levels []progress.LevelState `json:"levels"`
}

type AchievementsInput struct {
	UnlockedOnly bool `json:"unlocked_only,omitempty" jsonschema:"description=Only list unlocked achievements"`
}

type AchievementView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
	UnlockedAt  string `json:"unlocked_at,omitempty"`
}

type AchievementsOutput struct {
	Unlocked     int               `json:"unlocked"`
	Total        int               `json:"total"`
	Achievements []AchievementView `json:"achievements"`
}

// Tool handlers

func (s *Server) handleProblem(ctx context.Context, input ProblemInput) (ProblemOutput, error) {
	mode, err := domain.ParseGameMode(input.Mode)
	if err != nil {
		return ProblemOutput{}, err
	}
	level := input.Level
	if level == 0 {
		level = 1
	}

	p, err := s.generator.Generate(mode, level)
	if err != nil {
		return ProblemOutput{}, fmt.Errorf("generate problem: %w", err)
	}

	prompt, answer := problem.Describe(p)
	return ProblemOutput{
		Mode:    string(mode),
		Level:   p.Level,
		Prompt:  prompt,
		Answer:  answer,
		Problem: p,
	}, nil
}

func (s *Server) handleProgress(ctx context.Context, _ ProgressInput) (ProgressOutput, error) {
	p := s.progress.Progress(ctx)

	completed := make(map[string][]int, len(p.CompletedLevels))
	for mode, levels := range p.CompletedLevels {
		completed[string(mode)] = levels
	}

	out := ProgressOutput{
		TotalStars:      p.TotalStars,
		Rank:            string(p.CurrentLevel),
		CompletedLevels: completed,
		Unlocked:        p.UnlockedCount(),
		LastPlayed:      p.LastPlayed.Format(time.RFC3339),
	}
	if next, needed, ok := domain.StarsToNextRank(p.TotalStars); ok {
		out.NextRank = string(next)
		out.StarsToNextRank = needed
	}
	return out, nil
}

func (s *Server) handleLevels(ctx context.Context, input LevelsInput) (LevelsOutput, error) {
	mode, err := domain.ParseGameMode(input.Mode)
	if err != nil {
		return LevelsOutput{}, err
	}

	levels, err := s.progress.Levels(ctx, mode)
	if err != nil {
		return LevelsOutput{}, fmt.Errorf("list levels: %w", err)
	}

	return LevelsOutput{
		Mode:   string(mode),
		Name:   mode.Info().Name,
		Levels: levels,
	}, nil
}

func (s *Server) handleAchievements(ctx context.Context, input AchievementsInput) (AchievementsOutput, error) {
	p := s.progress.Progress(ctx)

	out := AchievementsOutput{
		Unlocked:     p.UnlockedCount(),
		Total:        len(p.Achievements),
		Achievements: make([]AchievementView, 0, len(p.Achievements)),
	}
	for _, a := range p.Achievements {
		if input.UnlockedOnly && !a.Unlocked {
			continue
		}
		view := AchievementView{
			ID:          string(a.ID),
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
			Unlocked:    a.Unlocked,
		}
		if a.UnlockedAt != nil {
			view.UnlockedAt = a.UnlockedAt.Format(time.RFC3339)
		}
		out.Achievements = append(out.Achievements, view)
	}
	return out, nil
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

// ServeHTTP starts the MCP server on HTTP (alternative transport)
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr)
}

// GetMCPServer returns the underlying MCP server (for testing)
func (s *Server) GetMCPServer() *server.Server {
	return s.mcpServer
}
