package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"filerename/internal/domain"
	"filerename/internal/ports"
)

// FileSystem implements ports.FileSystem on top of the local disk
type FileSystem struct{}

// New creates a local FileSystem
func New() *FileSystem {
	return &FileSystem{}
}

var _ ports.FileSystem = (*FileSystem)(nil)

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// Find walks root and returns the sorted paths accepted by match.
// maxDepth <= 0 walks the whole tree, 1 stops at the direct children of root.
func (f *FileSystem) Find(ctx context.Context, root string, maxDepth int, match ports.MatchFunc) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}

		depth := depthOf(root, path)
		if d.IsDir() {
			if maxDepth > 0 && depth >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if match(path, d.Type().IsRegular()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// Move renames src to dst without replacing an existing dst
func (f *FileSystem) Move(src, dst string) error {
	if err := renameNoReplace(src, dst); err != nil {
		if errors.Is(err, domain.ErrDestinationExists) {
			return err
		}
		return fmt.Errorf("failed to move %s: %w", src, err)
	}
	return nil
}

// Copy copies src to a newly created dst, keeping the permission bits
func (f *FileSystem) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", domain.ErrDestinationExists, dst)
		}
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	return nil
}

// CreationTime returns the birth time of path
func (f *FileSystem) CreationTime(path string) (time.Time, error) {
	return birthTime(path)
}

// renameChecked is the portable rename: it refuses an existing destination
// before renaming. The check and the rename are not atomic.
func renameChecked(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrDestinationExists, dst)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(src, dst)
}
