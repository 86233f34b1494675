package artifact

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/yangwenmai/herogen/internal/model"
)

// ErrNoArtifact is returned by Resolve when no hero asset exists yet.
var ErrNoArtifact = errors.New("no hero artifact found")

// Current describes the hero asset a page should reference.
type Current struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// Resolve picks the hero asset in dir. Runs write either the SVG or the PNG
// and never delete the other, so both may exist; the most recently modified
// one reflects the latest run. On equal timestamps the PNG wins.
func Resolve(dir string) (*Current, error) {
	var best *Current
	for _, name := range model.ArtifactNames() {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		c := &Current{
			Name:        name,
			Path:        path,
			ContentType: model.ContentTypeForName(name),
			Size:        info.Size(),
			ModifiedAt:  info.ModTime(),
		}
		if best == nil || !c.ModifiedAt.Before(best.ModifiedAt) {
			best = c
		}
	}
	if best == nil {
		return nil, ErrNoArtifact
	}
	return best, nil
}
