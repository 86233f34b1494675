package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yangwenmai/herogen/internal/config"
	"github.com/yangwenmai/herogen/internal/model"
	"github.com/yangwenmai/herogen/internal/placeholder"
)

// Pipeline produces the hero artifact. Each Run takes exactly one of three
// branches and always ends by writing one file:
//
//	no credential           -> basic placeholder    -> we-are-future.svg
//	remote success          -> downloaded image     -> we-are-future-ai.png
//	remote failure (any)    -> enhanced placeholder -> we-are-future.svg
type Pipeline struct {
	cfg       config.Config
	request   model.GenerationRequest
	generator ImageGenerator
	writer    ArtifactWriter
	recorder  RunRecorder
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithRecorder stores a history record after every run.
func WithRecorder(r RunRecorder) PipelineOption {
	return func(p *Pipeline) { p.recorder = r }
}

// WithRequest overrides the generation request.
func WithRequest(req model.GenerationRequest) PipelineOption {
	return func(p *Pipeline) { p.request = req }
}

// NewPipeline creates a pipeline with the given dependencies. The generator
// may be nil only when cfg carries no credential.
func NewPipeline(cfg config.Config, gen ImageGenerator, w ArtifactWriter, opts ...PipelineOption) (*Pipeline, error) {
	if w == nil {
		return nil, errors.New("artifact writer is required")
	}
	if cfg.HasCredential() && gen == nil {
		return nil, errors.New("image generator is required when a credential is configured")
	}

	p := &Pipeline{
		cfg:       cfg,
		request:   model.DefaultRequest().WithModel(cfg.OpenAIImageModel),
		generator: gen,
		writer:    w,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes the pipeline once. The only error it returns is a
// *model.ArtifactWriteError; remote failures are recovered internally.
func (p *Pipeline) Run(ctx context.Context) (*model.Artifact, error) {
	run := model.NewRun()

	result := p.decide(ctx, &run)

	artifact, err := p.writer.Write(ctx, result)
	if err != nil {
		slog.ErrorContext(ctx, "failed to write artifact", "run_id", run.ID, "variant", result.Variant(), "error", err)
		return nil, fmt.Errorf("run %s: %w", run.ID, err)
	}

	run.Finish(*artifact)
	slog.InfoContext(ctx, "hero artifact created",
		"run_id", run.ID, "variant", artifact.Variant, "path", artifact.Path, "bytes", artifact.Size)
	p.record(ctx, run)
	return artifact, nil
}

// Decide runs the credential check and, if needed, the remote generator, and
// returns the result to persist without writing it.
func (p *Pipeline) Decide(ctx context.Context) model.Result {
	run := model.NewRun()
	return p.decide(ctx, &run)
}

func (p *Pipeline) decide(ctx context.Context, run *model.Run) model.Result {
	if !p.cfg.HasCredential() {
		slog.InfoContext(ctx, "OPENAI_API_KEY not set, rendering basic placeholder", "run_id", run.ID)
		return model.BasicPlaceholder{Markup: placeholder.Basic()}
	}

	slog.InfoContext(ctx, "generating hero image", "run_id", run.ID, "size", p.request.Size)
	run.RemoteAttempted = true

	data, err := p.generator.Generate(ctx, p.request)
	if err == nil && len(data) == 0 {
		err = &model.RemoteGenerationError{Stage: StageDownload, Err: errEmptyImage}
	}
	if err != nil {
		slog.WarnContext(ctx, "image generation failed, rendering enhanced placeholder", "run_id", run.ID, "error", err)
		run.FailureReason = err.Error()
		return model.EnhancedPlaceholder{Markup: placeholder.Enhanced()}
	}
	return model.RemoteImage{Data: data}
}

// record stores the run; history problems never affect the outcome.
func (p *Pipeline) record(ctx context.Context, run model.Run) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.RecordRun(ctx, run); err != nil {
		slog.WarnContext(ctx, "failed to record run", "run_id", run.ID, "error", err)
	}
}
