// Package artifact persists pipeline results under the public-assets directory
// and locates the current hero asset for downstream consumers.
package artifact

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yangwenmai/herogen/internal/model"
)

// Writer writes results to fixed file names inside Dir.
type Writer struct {
	Dir string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Path returns where a result with the given artifact name is stored.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Write persists r to its artifact path, replacing any previous file there.
// The file for the other variant is left untouched. Errors are returned as
// *model.ArtifactWriteError and nothing is rolled back.
func (w *Writer) Write(ctx context.Context, r model.Result) (*model.Artifact, error) {
	path := w.Path(r.ArtifactName())
	if err := ctx.Err(); err != nil {
		return nil, &model.ArtifactWriteError{Path: path, Err: err}
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, &model.ArtifactWriteError{Path: path, Err: err}
	}
	data := r.Bytes()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, &model.ArtifactWriteError{Path: path, Err: err}
	}

	a := model.NewArtifact(r, path)
	slog.DebugContext(ctx, "artifact written", "path", path, "variant", a.Variant, "bytes", a.Size)
	return &a, nil
}
