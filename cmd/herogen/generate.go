package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/yangwenmai/herogen/internal/artifact"
	"github.com/yangwenmai/herogen/internal/config"
	"github.com/yangwenmai/herogen/internal/engine"
	"github.com/yangwenmai/herogen/internal/store"
)

// generate runs the pipeline once and prints the written artifact. The
// remote client is only constructed when a credential is configured.
func generate(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	var gen engine.ImageGenerator
	if cfg.HasCredential() {
		gen = engine.NewOpenAIImageClient(cfg.OpenAIKey,
			engine.WithBaseURL(cfg.OpenAIBaseURL),
			engine.WithImageModel(cfg.OpenAIImageModel),
			engine.WithTimeout(cfg.HTTPTimeout),
		)
	}

	var opts []engine.PipelineOption
	if cfg.HistoryEnabled() {
		s, err := store.Open(cfg.HistoryDB)
		if err != nil {
			slog.WarnContext(ctx, "run history unavailable", "path", cfg.HistoryDB, "error", err)
		} else {
			defer s.Close()
			opts = append(opts, engine.WithRecorder(s))
		}
	}

	p, err := engine.NewPipeline(cfg, gen, artifact.NewWriter(cfg.PublicDir), opts...)
	if err != nil {
		return err
	}
	a, err := p.Run(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "%s (%s)\n", a.Path, a.Variant)
	return nil
}
