package store

import (
	"context"

	"github.com/yangwenmai/herogen/internal/model"
)

// RunWriter appends run history.
type RunWriter interface {
	RecordRun(ctx context.Context, run model.Run) error
}

// RunReader provides read access to run history.
type RunReader interface {
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	LatestRun(ctx context.Context) (*model.Run, error)
}

// RunRepository combines all run history operations.
type RunRepository interface {
	RunWriter
	RunReader
}
