package ports

import (
	"context"

	"filerename/internal/domain"
)

// MatchFunc decides whether a walked path is a rename candidate
type MatchFunc func(path string, regular bool) bool

// FileSystem defines the filesystem operations the rename engine depends on
type FileSystem interface {
	// Find walks root up to maxDepth levels (0 = unbounded, 1 = direct
	// children only) and returns every path accepted by match, sorted.
	Find(ctx context.Context, root string, maxDepth int, match MatchFunc) ([]string, error)

	// Move and Copy never overwrite. An existing destination is reported
	// as domain.ErrDestinationExists, any other failure is returned as is.
	Move(src, dst string) error
	Copy(src, dst string) error

	// CreationTime fails with domain.ErrMetadataUnavailable where the
	// platform or filesystem does not record birth times.
	domain.MetadataReader
}
