package engine

import (
	"context"

	"github.com/yangwenmai/herogen/internal/model"
)

// StubGenerator returns fixed bytes or a fixed error (for development/testing).
// A non-nil Err is wrapped as a remote generation failure.
type StubGenerator struct {
	Data  []byte
	Err   error
	Calls int
	Last  model.GenerationRequest
}

func (g *StubGenerator) Generate(_ context.Context, req model.GenerationRequest) ([]byte, error) {
	g.Calls++
	g.Last = req
	if g.Err != nil {
		return nil, &model.RemoteGenerationError{Stage: StageGenerate, Err: g.Err}
	}
	return g.Data, nil
}
