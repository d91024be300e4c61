//go:build linux

package filesystem

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"filerename/internal/domain"
)

// renameNoReplace uses renameat2(RENAME_NOREPLACE) so the existence check
// and the rename happen atomically. Filesystems without support fall back
// to renameChecked.
func renameNoReplace(src, dst string) error {
	err := unix.Renameat2(unix.AT_FDCWD, src, unix.AT_FDCWD, dst, unix.RENAME_NOREPLACE)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EEXIST):
		return fmt.Errorf("%w: %s", domain.ErrDestinationExists, dst)
	case errors.Is(err, unix.ENOSYS), errors.Is(err, unix.EINVAL):
		return renameChecked(src, dst)
	default:
		return err
	}
}
