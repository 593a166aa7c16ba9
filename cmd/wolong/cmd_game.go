package main

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/wolong/internal/app"
	"github.com/felixgeelhaar/wolong/internal/config"
	"github.com/felixgeelhaar/wolong/internal/domain"
	"github.com/felixgeelhaar/wolong/internal/problem"
)

// openApp wires the services on the configured local storage.
func openApp(ctx context.Context) (*app.App, error) {
	wolongDir, err := config.EnsureWolongDir()
	if err != nil {
		return nil, fmt.Errorf("ensure wolong dir: %w", err)
	}
	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(ctx, cfg, wolongDir, app.Options{})
}

// cmdProgress shows stars, rank and completed levels
func cmdProgress() error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.Progress.Progress(ctx)

	fmt.Println("Progress")
	fmt.Println("========")
	fmt.Printf("Rank:         %s (%s)\n", p.CurrentLevel, p.CurrentLevel.EnglishName())
	fmt.Printf("Total Stars:  %d ⭐\n", p.TotalStars)
	if next, needed, ok := domain.StarsToNextRank(p.TotalStars); ok {
		have := float64(p.TotalStars) / float64(p.TotalStars+needed)
		fmt.Printf("Next Rank:    %s %s %d more\n", next, renderProgressBar(have, 20), needed)
	}
	fmt.Printf("Achievements: %d/%d\n", p.UnlockedCount(), len(p.Achievements))
	fmt.Printf("Last Played:  %s\n", p.LastPlayed.Local().Format("2006-01-02 15:04"))

	fmt.Println("\nCompleted Levels")
	fmt.Println("----------------")
	for _, mode := range domain.AllModes() {
		levels := slices.Sorted(slices.Values(p.CompletedLevels[mode]))
		info := mode.Info()
		fmt.Printf("%s %-8s %2d/%d  %s\n", info.Icon, info.Name, len(levels), domain.LevelsPerMode, formatLevels(levels))
	}

	return nil
}

// cmdAchievements lists achievements with their unlock state
func cmdAchievements() error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.Progress.Progress(ctx)

	fmt.Printf("Achievements (%d/%d)\n", p.UnlockedCount(), len(p.Achievements))
	fmt.Println("====================")
	for _, ach := range p.Achievements {
		mark := "✗"
		when := ""
		if ach.Unlocked {
			mark = "✓"
			if ach.UnlockedAt != nil {
				when = "  " + ach.UnlockedAt.Local().Format("2006-01-02")
			}
		}
		fmt.Printf("%s %s %s - %s%s\n", mark, ach.Icon, ach.Name, ach.Description, when)
	}

	return nil
}

// cmdLevels shows the level-select view for a mode
func cmdLevels(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: wolong levels <round-up|multiplication|balance>")
	}
	mode, err := domain.ParseGameMode(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	levels, err := a.Progress.Levels(ctx, mode)
	if err != nil {
		return err
	}

	info := mode.Info()
	fmt.Printf("%s %s - %s\n\n", info.Icon, info.Name, info.Description)
	for _, l := range levels {
		state := "🔒 locked"
		switch {
		case l.Completed:
			state = "⭐ completed"
		case l.Unlocked:
			state = "▶ open"
		}
		fmt.Printf("  Level %2d  %s\n", l.Level, state)
	}

	return nil
}

// cmdProblem prints a practice problem
func cmdProblem(args []string) error {
	var (
		positional []string
		showAnswer bool
	)
	for _, arg := range args {
		if arg == "--answer" || arg == "-a" {
			showAnswer = true
			continue
		}
		positional = append(positional, arg)
	}
	if len(positional) < 1 {
		return fmt.Errorf("usage: wolong problem <mode> [level] [--answer]")
	}

	mode, err := domain.ParseGameMode(positional[0])
	if err != nil {
		return err
	}
	level := 1
	if len(positional) > 1 {
		level, err = strconv.Atoi(positional[1])
		if err != nil {
			return fmt.Errorf("parse level: %w", err)
		}
	}

	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gen, err := problem.ForSeed(cfg.Game.Seed)
	if err != nil {
		return err
	}

	p, err := gen.Generate(mode, level)
	if err != nil {
		return err
	}

	prompt, answer := problem.Describe(p)
	fmt.Printf("%s Level %d\n", mode.Info().Name, p.Level)
	fmt.Println(prompt)
	if p.RoundUp != nil {
		fmt.Printf("Hint: %s\n", p.RoundUp.Hint)
	}
	if showAnswer {
		fmt.Printf("Answer: %s\n", answer)
	}

	return nil
}

// cmdReset erases all progress after confirmation
func cmdReset(args []string) error {
	if !slices.Contains(args, "--yes") && !slices.Contains(args, "-y") {
		fmt.Print("Erase all stars, levels and achievements? [y/N] ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Cancelled")
			return nil
		}
	}

	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.Progress.Reset(ctx)
	fmt.Printf("✓ Progress reset (rank %s, %d stars)\n", p.CurrentLevel, p.TotalStars)
	return nil
}

// formatLevels renders completed levels as a compact list.
func formatLevels(levels []int) string {
	if len(levels) == 0 {
		return "-"
	}
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, " ")
}

// redactURL hides the password in a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return "(unset)"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "(invalid)"
	}
	return u.Redacted()
}
