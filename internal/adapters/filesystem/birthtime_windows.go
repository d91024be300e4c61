//go:build windows

package filesystem

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"filerename/internal/domain"
)

func birthTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrMetadataUnavailable, err)
	}
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: no file attributes for %s", domain.ErrMetadataUnavailable, path)
	}
	return time.Unix(0, attrs.CreationTime.Nanoseconds()), nil
}
