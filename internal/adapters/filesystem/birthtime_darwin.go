//go:build darwin

package filesystem

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"filerename/internal/domain"
)

func birthTime(path string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, fmt.Errorf("%w: stat %s: %v", domain.ErrMetadataUnavailable, path, err)
	}
	return time.Unix(st.Birthtimespec.Unix()), nil
}
