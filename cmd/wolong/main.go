package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Storage warnings only; the daemon log carries the rest.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	var err error
	switch os.Args[1] {
	case "init":
		err = cmdInit()
	case "start":
		err = cmdStart()
	case "stop":
		err = cmdStop()
	case "status":
		err = cmdStatus()
	case "logs":
		err = cmdLogs()
	case "config":
		err = cmdConfig()
	case "progress":
		err = cmdProgress()
	case "achievements":
		err = cmdAchievements()
	case "levels":
		err = cmdLevels(os.Args[2:])
	case "problem":
		err = cmdProblem(os.Args[2:])
	case "reset":
		err = cmdReset(os.Args[2:])
	case "sound":
		err = cmdSound(os.Args[2:])
	case "mcp":
		err = cmdMCP(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("wolong %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Wolong Math - arithmetic games for young strategists

Usage:
  wolong <command> [arguments]

Setup Commands:
  init            Create ~/.wolong and a default configuration
  config          Show current configuration

Daemon Commands:
  start           Start the Wolong daemon
  stop            Stop the Wolong daemon
  status          Show daemon status
  logs            View daemon logs

Game Commands:
  progress        Show stars, rank and completed levels
  achievements    List achievements
  levels <mode>   Show unlocked levels for a mode
  problem <mode> [level] [--answer]
                  Print a practice problem
  reset [--yes]   Erase all progress
  sound [on|off|volume <0-1>|reset]
                  Show or change sound settings

Integration Commands:
  mcp [--http <addr>]
                  Start MCP server (stdio by default)

Other:
  help            Show this help message
  version         Show version information

Modes: round-up, multiplication, balance

Examples:
  wolong start                       # Start daemon
  wolong levels balance              # Level select for the balance game
  wolong problem round-up 4 --answer # Practice problem with its answer
  wolong sound volume 0.3            # Quieter sound effects`)
}

// renderProgressBar creates a visual progress bar
func renderProgressBar(value float64, width int) string {
	filled := min(max(int(value*float64(width)), 0), width)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
