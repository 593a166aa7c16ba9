package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/felixgeelhaar/wolong/internal/mcp"
)

// cmdMCP starts the MCP server on stdio, or on HTTP with --http <addr>
func cmdMCP(args []string) error {
	httpAddr := ""
	if len(args) > 0 {
		if args[0] != "--http" || len(args) < 2 {
			return fmt.Errorf("usage: wolong mcp [--http <addr>]")
		}
		httpAddr = args[1]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	mcpSrv := mcpserver.NewServer(mcpserver.Config{
		Progress:  a.Progress,
		Generator: a.Generator,
	})

	if httpAddr != "" {
		return mcpSrv.ServeHTTP(ctx, httpAddr)
	}
	return mcpSrv.ServeStdio(ctx)
}
