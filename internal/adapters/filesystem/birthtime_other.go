//go:build !linux && !darwin && !windows

package filesystem

import (
	"fmt"
	"time"

	"filerename/internal/domain"
)

func birthTime(path string) (time.Time, error) {
	return time.Time{}, fmt.Errorf("%w: birth time not supported on this platform (%s)", domain.ErrMetadataUnavailable, path)
}
