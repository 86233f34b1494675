package model

import "time"

// Artifact describes a file written by the pipeline.
type Artifact struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Variant   Variant   `json:"variant"`
	Size      int64     `json:"size"`
	WrittenAt time.Time `json:"written_at"`
}

// NewArtifact creates an Artifact for content just written at path.
func NewArtifact(r Result, path string) Artifact {
	return Artifact{
		Name:      r.ArtifactName(),
		Path:      path,
		Variant:   r.Variant(),
		Size:      int64(len(r.Bytes())),
		WrittenAt: time.Now().UTC(),
	}
}
