package model

import "errors"

// Sentinels for errors.Is checks at the pipeline boundary.
var (
	ErrRemoteGenerationFailed = errors.New("remote generation failed")
	ErrArtifactWriteFailed    = errors.New("artifact write failed")
)

// RemoteGenerationError reports any failure of the generate-then-download
// exchange. Stage is informational only; callers treat every stage the same.
type RemoteGenerationError struct {
	Stage string
	Err   error
}

func (e *RemoteGenerationError) Error() string {
	return "remote generation failed (" + e.Stage + "): " + e.Err.Error()
}

func (e *RemoteGenerationError) Unwrap() error {
	return e.Err
}

func (e *RemoteGenerationError) Is(target error) bool {
	return target == ErrRemoteGenerationFailed
}

// ArtifactWriteError reports a failure to persist the artifact. It is the
// only error a run can end with.
type ArtifactWriteError struct {
	Path string
	Err  error
}

func (e *ArtifactWriteError) Error() string {
	return "write artifact " + e.Path + ": " + e.Err.Error()
}

func (e *ArtifactWriteError) Unwrap() error {
	return e.Err
}

func (e *ArtifactWriteError) Is(target error) bool {
	return target == ErrArtifactWriteFailed
}
