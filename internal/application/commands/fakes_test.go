package commands

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"filerename/internal/domain"
	"filerename/internal/ports"
)

// memFS is an in-memory ports.FileSystem
type memFS struct {
	mu        sync.Mutex
	files     map[string]string
	created   map[string]time.Time
	mutations int
	finds     int
	ioErr     error
	findErr   error
}

var _ ports.FileSystem = (*memFS)(nil)

func newMemFS(paths ...string) *memFS {
	m := &memFS{files: make(map[string]string), created: make(map[string]time.Time)}
	for _, p := range paths {
		m.files[p] = p
	}
	return m
}

func (m *memFS) Find(ctx context.Context, root string, maxDepth int, match ports.MatchFunc) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.findErr != nil {
		return nil, m.findErr
	}

	var out []string
	for p := range m.files {
		rel, err := filepath.Rel(root, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		depth := strings.Count(rel, string(filepath.Separator)) + 1
		if maxDepth > 0 && depth > maxDepth {
			continue
		}
		if match(p, true) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memFS) transfer(src, dst string, keep bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	if m.ioErr != nil {
		return m.ioErr
	}
	content, ok := m.files[src]
	if !ok {
		return fmt.Errorf("open %s: %w", src, fs.ErrNotExist)
	}
	if _, exists := m.files[dst]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDestinationExists, dst)
	}
	m.files[dst] = content
	if !keep {
		delete(m.files, src)
	}
	return nil
}

func (m *memFS) Move(src, dst string) error { return m.transfer(src, dst, false) }
func (m *memFS) Copy(src, dst string) error { return m.transfer(src, dst, true) }

func (m *memFS) CreationTime(path string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts, ok := m.created[path]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", domain.ErrMetadataUnavailable, path)
	}
	return ts, nil
}

func (m *memFS) exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

func (m *memFS) names(dir string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for p := range m.files {
		if filepath.Dir(p) == dir {
			out = append(out, filepath.Base(p))
		}
	}
	sort.Strings(out)
	return out
}

// recordingLogger keeps every formatted message
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) add(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debugf(format string, args ...any) { l.add("DEBUG", format, args...) }
func (l *recordingLogger) Infof(format string, args ...any)  { l.add("INFO", format, args...) }
func (l *recordingLogger) Warnf(format string, args ...any)  { l.add("WARN", format, args...) }
func (l *recordingLogger) Errorf(format string, args ...any) { l.add("ERROR", format, args...) }

func (l *recordingLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
