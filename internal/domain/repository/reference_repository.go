package repository

import "context"

// ReferenceRepository provides the fact lists that can live outside the
// binary: airline cost classes, airport codes, and person names.
type ReferenceRepository interface {
	Airlines(ctx context.Context) (map[string]string, error)
	Airports(ctx context.Context) (map[string]string, error)
	FirstNames(ctx context.Context) ([]string, error)
	LastNames(ctx context.Context) ([]string, error)
}
