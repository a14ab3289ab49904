package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/tldrs/internal/config"
	"github.com/standardbeagle/tldrs/internal/coordinator"
	"github.com/standardbeagle/tldrs/internal/debug"
	"github.com/standardbeagle/tldrs/internal/index"
	"github.com/standardbeagle/tldrs/internal/mcpserver"
	"github.com/standardbeagle/tldrs/internal/serialize"
	"github.com/standardbeagle/tldrs/internal/types"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "tldrs",
		Usage:   "Token-budgeted code context packs for AI assistants",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Workspace root to index (default: current directory)",
				Value:   ".",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Start the MCP server over stdio",
				Action: mcpCommand,
			},
			{
				Name:   "pack",
				Usage:  "Build a context pack for one or more seed symbols",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "budget", Value: 4000, Usage: "Token budget for the pack"},
					&cli.IntFlag{Name: "depth", Value: 1, Usage: "Call-graph expansion depth"},
					&cli.StringFlag{Name: "zoom", Value: "full", Usage: "map|index|sketch|windowed|full"},
					&cli.StringFlag{Name: "format", Value: "text", Usage: "text|ultracompact|json|cache_friendly"},
				},
				Action: packCommand,
			},
			{
				Name:   "status",
				Usage:  "Build the index and report its summary",
				Action: statusCommand,
			},
		},
		Before: func(c *cli.Context) error {
			// Diagnostics always go to stderr, never stdout — the mcp
			// subcommand needs a clean stdout for the stdio JSON-RPC transport.
			debug.SetOutput(os.Stderr)
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tldrs: %v\n", err)
		os.Exit(1)
	}
}

func workspaceRoot(c *cli.Context) (string, error) {
	root := c.String("root")
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve workspace root %q: %w", root, err)
	}
	return abs, nil
}

func newCoordinator(c *cli.Context) (*coordinator.Coordinator, error) {
	root, err := workspaceRoot(c)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadWithRoot(root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	sessionDir := filepath.Join(root, ".tldrs", "sessions")
	return coordinator.New(root, cfg, sessionDir), nil
}

func mcpCommand(c *cli.Context) error {
	debug.SetSilent(true)
	defer debug.SetSilent(false)

	coord, err := newCoordinator(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := coord.BuildIndex(ctx, index.Options{IncludeSources: true, IncludeRanges: true}); err != nil {
		return fmt.Errorf("initial index build: %w", err)
	}

	closeWatch, err := coord.WatchForChanges(ctx, index.Options{IncludeSources: true, IncludeRanges: true})
	if err != nil {
		debug.Printf("file watcher disabled: %v", err)
	} else {
		defer closeWatch()
	}

	root, err := workspaceRoot(c)
	if err != nil {
		return err
	}
	server := mcpserver.New(coord, root)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		cancel()
		select {
		case err := <-errCh:
			return err
		case <-time.After(2 * time.Second):
			return nil
		}
	}
}

func packCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("usage: tldrs pack <seed symbol id> [more seeds...]")
	}

	coord, err := newCoordinator(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if _, err := coord.BuildIndex(ctx, index.Options{IncludeSources: true, IncludeRanges: true}); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	seeds := make([]types.SymbolID, 0, c.NArg())
	for _, entry := range c.Args().Slice() {
		result, err := coord.ResolveEntry(entry)
		if err != nil {
			return fmt.Errorf("resolve entry %q: %w", entry, err)
		}
		seeds = append(seeds, result.Resolved)
	}

	zoom, err := mcpserver.ParseZoom(c.String("zoom"))
	if err != nil {
		return err
	}
	format, err := mcpserver.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	pack, err := coord.Pack(ctx, seeds, coordinator.PackRequest{
		Depth:  uint8(c.Int("depth")),
		Budget: c.Int("budget"),
		Zoom:   zoom,
	})
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	rendered, err := serialize.Render(pack, format, coord.Estimator())
	if err != nil {
		return fmt.Errorf("render pack: %w", err)
	}
	fmt.Println(rendered)
	return nil
}

func statusCommand(c *cli.Context) error {
	coord, err := newCoordinator(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	fingerprint, err := coord.BuildIndex(ctx, index.Options{})
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	st := coord.Status()
	fmt.Printf("fingerprint:   %s\n", fingerprint)
	fmt.Printf("index age:     %s\n", st.IndexAge.Round(time.Millisecond))
	fmt.Printf("symbol count:  %d\n", st.SymbolCount)
	fmt.Printf("file count:    %d\n", st.FileCount)
	fmt.Printf("session count: %d\n", st.SessionCount)
	return nil
}
