// Package filelock serializes mutating runs over a directory tree across
// processes and provides atomic file writes for reports.
package filelock

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"filerename/internal/application"
	"filerename/internal/ports"
)

// FileLock wraps a flock file lock
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a lock backed by the file at path
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Lock acquires an exclusive lock, blocking until it is available
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// TryLock attempts the lock without blocking.
// It returns false when another process holds it.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// Path returns the lock file path
func (fl *FileLock) Path() string {
	return fl.path
}

// DirectoryLocker implements ports.DirectoryLocker with one lock file per
// absolute root, kept under dir.
type DirectoryLocker struct {
	dir string
}

var _ ports.DirectoryLocker = (*DirectoryLocker)(nil)

// NewDirectoryLocker keeps lock files under dir, or the OS temp dir when empty
func NewDirectoryLocker(dir string) *DirectoryLocker {
	if dir == "" {
		dir = os.TempDir()
	}
	return &DirectoryLocker{dir: dir}
}

// LockPath returns the lock file used for root
func (d *DirectoryLocker) LockPath(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(d.dir, "filerename-"+hex.EncodeToString(sum[:8])+".lock"), nil
}

// Acquire blocks until root's lock is held
func (d *DirectoryLocker) Acquire(root string) (func() error, error) {
	path, err := d.LockPath(root)
	if err != nil {
		return nil, err
	}
	lock := NewFileLock(path)
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	return lock.Unlock, nil
}

// TryAcquire takes root's lock only if no other run holds it
func (d *DirectoryLocker) TryAcquire(root string) (func() error, error) {
	path, err := d.LockPath(root)
	if err != nil {
		return nil, err
	}
	lock := NewFileLock(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", root, application.ErrLocked)
	}
	return lock.Unlock, nil
}

// AtomicWrite writes data to path through a temp file and rename, so
// readers never observe a partial file.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}
