//go:build linux

package filesystem

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"filerename/internal/domain"
)

func birthTime(path string) (time.Time, error) {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx); err != nil {
		return time.Time{}, fmt.Errorf("%w: statx %s: %v", domain.ErrMetadataUnavailable, path, err)
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, fmt.Errorf("%w: filesystem does not record birth time for %s", domain.ErrMetadataUnavailable, path)
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), nil
}
