package engine

import (
	"context"

	"github.com/yangwenmai/herogen/internal/model"
)

// ImageGenerator produces raster bytes for a request. Implementations report
// every failure as a *model.RemoteGenerationError.
type ImageGenerator interface {
	Generate(ctx context.Context, req model.GenerationRequest) ([]byte, error)
}

// ImageFetcher downloads the bytes behind an image URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ArtifactWriter persists a result. Failures are *model.ArtifactWriteError.
type ArtifactWriter interface {
	Write(ctx context.Context, r model.Result) (*model.Artifact, error)
}

// RunRecorder stores the history of runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, run model.Run) error
}
