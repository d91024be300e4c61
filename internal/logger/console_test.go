package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(buf *bytes.Buffer, level string) *ConsoleLogger {
	l := NewConsoleLogger(buf, level)
	l.now = func() time.Time { return time.Date(2022, 1, 15, 10, 35, 22, 0, time.UTC) }
	return l
}

func TestLogLevelFiltering(t *testing.T) {
	tests := []struct {
		logLevel     string
		messageLevel string
		shouldAppear bool
	}{
		{"trace", "trace", true},
		{"debug", "trace", false},
		{"debug", "debug", true},
		{"info", "debug", false},
		{"info", "info", true},
		{"info", "warn", true},
		{"warn", "info", false},
		{"warn", "error", true},
		{"error", "warn", false},
		{"error", "error", true},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel+"/"+tt.messageLevel, func(t *testing.T) {
			buf := &bytes.Buffer{}
			l := newTestLogger(buf, tt.logLevel)

			switch tt.messageLevel {
			case "trace":
				l.Tracef("msg")
			case "debug":
				l.Debugf("msg")
			case "info":
				l.Infof("msg")
			case "warn":
				l.Warnf("msg")
			case "error":
				l.Errorf("msg")
			}
			assert.Equal(t, tt.shouldAppear, strings.Contains(buf.String(), "msg"))
		})
	}
}

func TestConsoleLogger_Format(t *testing.T) {
	buf := &bytes.Buffer{}
	l := newTestLogger(buf, "info")

	l.Infof("renamed %d files", 3)
	assert.Equal(t, "[10:35:22] [INFO] renamed 3 files\n", buf.String())
}

func TestNormalizeLogLevel(t *testing.T) {
	assert.Equal(t, "debug", NewConsoleLogger(nil, " DEBUG ").Level())
	assert.Equal(t, "info", NewConsoleLogger(nil, "").Level())
	assert.Equal(t, "info", NewConsoleLogger(nil, "verbose").Level())
	assert.True(t, IsValidLevel("Warn"))
	assert.False(t, IsValidLevel("fatal"))
}

func TestConsoleLogger_NoColorForBuffers(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
	assert.False(t, isTerminal(nil))
}

func TestConsoleLogger_NilWriter(t *testing.T) {
	l := NewConsoleLogger(nil, "trace")
	assert.NotPanics(t, func() { l.Errorf("dropped") })
}

func TestConsoleLogger_ConcurrentLinesStayWhole(t *testing.T) {
	buf := &bytes.Buffer{}
	l := newTestLogger(buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Infof("job %02d done", n)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 20)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "[10:35:22] [INFO] job "), line)
	}
}
