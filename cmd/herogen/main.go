// Command herogen writes the "We Are Future" hero asset into the public
// directory, either as an AI-generated raster or as an SVG placeholder.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/yangwenmai/herogen/internal/config"
)

type (
	cmd struct {
		PublicDir string `help:"Directory hero artifacts are written to. Overrides PUBLIC_DIR." placeholder:"DIR"`
		HistoryDB string `name:"history-db" help:"SQLite file for run history. Overrides HISTORY_DB." placeholder:"PATH"`

		Generate cmdGenerate `cmd:"" default:"1" help:"Generate the hero asset once (default)."`
		Serve    cmdServe    `cmd:"" help:"Serve the current hero asset and run history over HTTP."`
		History  cmdHistory  `cmd:"" help:"List recent runs."`
	}
	cmdServe struct {
		Port string `help:"Listen port. Overrides PORT."`
	}
	cmdHistory struct {
		Limit int `help:"Maximum number of runs to list. Overrides HISTORY_LIMIT."`
	}
	cmdGenerate struct{}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := doMain(ctx, os.Stdout, os.Stderr, os.Args[1:], config.Load())
	stop()
	os.Exit(code)
}

// doMain parses args, applies flag overrides to cfg and runs the selected
// command. It returns the process exit code.
func doMain(ctx context.Context, stdout, stderr io.Writer, args []string, cfg config.Config) int {
	var c cmd
	parser, err := kong.New(&c,
		kong.Name("herogen"),
		kong.Description("Hero asset generator for the \"We Are Future\" page."),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating parser: %v\n", err)
		return 2
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "herogen: %v\n", err)
		return 2
	}

	cfg = c.apply(cfg)
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	slog.Debug("config loaded", "config", cfg)

	switch kctx.Command() {
	case "generate":
		err = generate(ctx, cfg, stdout)
	case "serve":
		err = serve(ctx, cfg, stdout)
	case "history":
		err = history(ctx, cfg, stdout)
	default:
		panic("unreachable")
	}
	if err != nil {
		slog.Error(kctx.Command()+" failed", "error", err)
		return 1
	}
	return 0
}

// apply overlays command-line flags on the environment configuration.
func (c cmd) apply(cfg config.Config) config.Config {
	if c.PublicDir != "" {
		cfg.PublicDir = c.PublicDir
	}
	if c.HistoryDB != "" {
		cfg.HistoryDB = c.HistoryDB
	}
	if c.Serve.Port != "" {
		cfg.Port = c.Serve.Port
	}
	if c.History.Limit > 0 {
		cfg.HistoryLimit = c.History.Limit
	}
	return cfg
}
