package artifacts

import (
	"context"
	"errors"
)

// Artifact kinds a run can leave behind for the UI's download buttons.
const (
	KindTranscript = "transcript"
	KindSummary    = "summary"
)

// ErrNotFound is returned when the artifact expired or never existed.
var ErrNotFound = errors.New("artifact not found")

// Store keeps a run's downloadable artifacts for a short while. Storage is
// best-effort: a run never fails because the store does.
type Store interface {
	Put(ctx context.Context, runID, kind string, data []byte, mimeType string) error
	Get(ctx context.Context, runID, kind string) ([]byte, string, error)
}

// IsKind reports whether the request names a known artifact kind.
func IsKind(kind string) bool {
	return kind == KindTranscript || kind == KindSummary
}
