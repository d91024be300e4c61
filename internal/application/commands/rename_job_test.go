package commands

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filerename/internal/domain"
	"filerename/internal/logger"
)

func newJob(t *testing.T, fs *memFS, source, input, output string, mutate func(*JobArguments)) *RenameJob {
	t.Helper()
	factory := &domain.RuleFactory{Metadata: fs, Counter: new(atomic.Int64), Location: time.UTC}
	rules, err := factory.Build(input, output)
	require.NoError(t, err)
	search, err := rules.CompileSearch()
	require.NoError(t, err)

	args := JobArguments{Source: source, Rules: rules, Search: search, MaxRetries: 1000}
	if mutate != nil {
		mutate(&args)
	}
	return NewRenameJob(fs, logger.NopLogger{}, args)
}

func TestRenameJob_Lifecycle(t *testing.T) {
	fs := newMemFS("/d/a.txt")
	job := newJob(t, fs, "/d/a.txt", "a.txt", "b.txt", nil)
	assert.Equal(t, domain.JobCreated, job.Status())

	require.NoError(t, job.Prepare())
	assert.Equal(t, domain.JobReady, job.Status())
	assert.Equal(t, "/d/b.txt", job.Target())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, domain.JobSuccess, job.Status())
	assert.Equal(t, "SUCCESS /d/a.txt -> /d/b.txt", job.String())

	report := job.Report()
	assert.Equal(t, 1, report.Attempts)
	assert.NoError(t, report.Err)
}

func TestRenameJob_RejectsOutOfOrderCalls(t *testing.T) {
	fs := newMemFS("/d/a.txt")
	job := newJob(t, fs, "/d/a.txt", "a.txt", "b.txt", nil)

	assert.Error(t, job.Run(context.Background()), "run before prepare")
	assert.Equal(t, domain.JobCreated, job.Status())

	require.NoError(t, job.Prepare())
	assert.Error(t, job.Prepare(), "second prepare")

	require.NoError(t, job.Run(context.Background()))
	assert.Error(t, job.Run(context.Background()), "second run")
	assert.Equal(t, 1, fs.mutations)
}

func TestRenameJob_UnchangedNameIsNoOp(t *testing.T) {
	fs := newMemFS("/d/same.txt")
	job := newJob(t, fs, "/d/same.txt", "same.txt", "same.txt", nil)

	require.NoError(t, job.Prepare())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, domain.JobSuccess, job.Status())
	assert.True(t, job.Report().Unchanged)
	assert.Zero(t, fs.mutations)
	assert.Contains(t, job.String(), "unchanged")
}

func TestRenameJob_RetriesExhausted(t *testing.T) {
	fs := newMemFS("/d/a.jpg", "/d/photo.jpg", "/d/photo-1.jpg", "/d/photo-2.jpg")
	job := newJob(t, fs, "/d/a.jpg", "a.jpg", "photo.jpg", func(a *JobArguments) {
		a.Collision = domain.CollisionEnumerate
		a.MaxRetries = 2
	})

	require.NoError(t, job.Prepare())
	err := job.Run(context.Background())
	assert.True(t, errors.Is(err, domain.ErrRetriesExhausted))
	assert.Equal(t, domain.JobFailed, job.Status())
	assert.Equal(t, 3, job.Report().Attempts)
	assert.True(t, fs.exists("/d/a.jpg"))
}

func TestRenameJob_EnumeratesUntilFree(t *testing.T) {
	fs := newMemFS("/d/a.jpg", "/d/photo.jpg", "/d/photo-1.jpg")
	job := newJob(t, fs, "/d/a.jpg", "a.jpg", "photo.jpg", func(a *JobArguments) {
		a.Collision = domain.CollisionEnumerate
	})

	require.NoError(t, job.Prepare())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "/d/photo-2.jpg", job.Target())
	assert.Equal(t, 3, job.Report().Attempts)
}

func TestRenameJob_EnumeratedNameMatchingSourceIsNoOp(t *testing.T) {
	fs := newMemFS("/d/photo.jpg", "/d/photo-1.jpg")
	job := newJob(t, fs, "/d/photo-1.jpg", `photo<<R|-\d>>.jpg`, "photo.jpg", func(a *JobArguments) {
		a.Collision = domain.CollisionEnumerate
	})

	require.NoError(t, job.Prepare())
	assert.Equal(t, "/d/photo.jpg", job.Target())
	require.NoError(t, job.Run(context.Background()))

	report := job.Report()
	assert.Equal(t, domain.JobSuccess, report.Status)
	assert.True(t, report.Unchanged)
	assert.Equal(t, "/d/photo-1.jpg", report.Target)
	assert.Equal(t, 1, report.Attempts)
	assert.Equal(t, []string{"photo-1.jpg", "photo.jpg"}, fs.names("/d"))
}

func TestRenameJob_EnumeratorNeedsSuffix(t *testing.T) {
	fs := newMemFS("/d/a.txt", "/d/README")
	job := newJob(t, fs, "/d/a.txt", "a.txt", "README", func(a *JobArguments) {
		a.Collision = domain.CollisionEnumerate
	})

	require.NoError(t, job.Prepare())
	err := job.Run(context.Background())
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	assert.Equal(t, domain.JobFailed, job.Status())
}

func TestRenameJob_OtherIOErrorsAreNotRetried(t *testing.T) {
	fs := newMemFS("/d/a.jpg")
	fs.ioErr = errors.New("disk full")
	job := newJob(t, fs, "/d/a.jpg", "a.jpg", "b.jpg", func(a *JobArguments) {
		a.Collision = domain.CollisionEnumerate
	})

	require.NoError(t, job.Prepare())
	err := job.Run(context.Background())
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 1, job.Report().Attempts)
	assert.Equal(t, domain.JobFailed, job.Status())
	assert.Contains(t, job.String(), "FAILED /d/a.jpg: disk full")
}

func TestRenameJob_PrepareFailure(t *testing.T) {
	fs := newMemFS("/d/a.jpg")
	job := newJob(t, fs, "/d/a.jpg", "a.jpg", "<<CD|yyyy>>.jpg", nil)

	err := job.Prepare()
	assert.True(t, errors.Is(err, domain.ErrMetadataUnavailable))
	assert.Equal(t, domain.JobFailed, job.Status())
	assert.Empty(t, job.Target())
	assert.Error(t, job.Run(context.Background()))
	assert.Zero(t, fs.mutations)
}

func TestRenameJob_CancelledBeforeRun(t *testing.T) {
	fs := newMemFS("/d/a.jpg")
	job := newJob(t, fs, "/d/a.jpg", "a.jpg", "b.jpg", nil)
	require.NoError(t, job.Prepare())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, job.Run(ctx), context.Canceled)
	assert.Equal(t, domain.JobReady, job.Status(), "a job that never ran keeps its state")
}
