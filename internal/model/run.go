package model

import (
	"time"

	"github.com/google/uuid"
)

// Run is the history record of a single invocation.
// It never carries the credential.
type Run struct {
	ID              string    `json:"id"`
	Variant         Variant   `json:"variant"`
	ArtifactPath    string    `json:"artifact_path"`
	ArtifactSize    int64     `json:"artifact_size"`
	RemoteAttempted bool      `json:"remote_attempted"`
	FailureReason   string    `json:"failure_reason,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
}

// NewRun starts a Run with a fresh ID.
func NewRun() Run {
	return Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
}

// Finish stamps the outcome of the run.
func (r *Run) Finish(a Artifact) {
	r.Variant = a.Variant
	r.ArtifactPath = a.Path
	r.ArtifactSize = a.Size
	r.FinishedAt = time.Now().UTC()
}

// Duration is how long the run took, or zero if it has not finished.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
