package media

import "context"

// Inspector describes what the orchestrator needs from the media tooling
type Inspector interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	ReadTags(path string) (map[string]string, error)
	EnsureTags(path string, fallback Tags) error
}
