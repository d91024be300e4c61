package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filerename/internal/application"
	"filerename/internal/application/commands"
	"filerename/internal/config"
	"filerename/internal/logger"
)

func parseTaskFlags(t *testing.T, args ...string) (*cobra.Command, *taskFlags) {
	t.Helper()
	f := &taskFlags{}
	c := &cobra.Command{Use: "test"}
	addTaskFlags(c, f)
	require.NoError(t, c.ParseFlags(args))
	return c, f
}

func TestMergeFlags_OnlyChangedFlagsOverride(t *testing.T) {
	c, f := parseTaskFlags(t, "-r", "--collision", "enumerate", "-i", "a", "-o", "b")
	cfg := config.DefaultConfig()
	cfg.MaxRetries = 7
	cfg.Copy = true

	require.NoError(t, mergeFlags(c, cfg, f))
	assert.True(t, cfg.Recursive)
	assert.Equal(t, application.CollisionEnumerate, cfg.CollisionStrategy())
	assert.Equal(t, 7, cfg.MaxRetries, "unset flag must not reset the config value")
	assert.True(t, cfg.Copy)
	assert.Equal(t, 0, cfg.MaxDepth())
}

func TestMergeFlags_RejectsInvalidValues(t *testing.T) {
	c, f := parseTaskFlags(t, "--collision", "overwrite")
	assert.Error(t, mergeFlags(c, config.DefaultConfig(), f))

	c, f = parseTaskFlags(t, "--max-retries", "-1")
	assert.Error(t, mergeFlags(c, config.DefaultConfig(), f))
}

func TestBuildTasks_OnePerPair(t *testing.T) {
	root := t.TempDir()
	_, f := parseTaskFlags(t, "-p", root,
		"-i", "IMG_<<TS|yyyyMMdd>>.jpg", "-o", "<<TS|yyyy-MM-dd>>.jpg",
		"-i", "a,b.txt", "-o", "c.txt",
	)

	tasks, err := buildTasks(config.DefaultConfig(), f, true, logger.NopLogger{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a,b.txt", tasks[1].Args.InputTemplate, "templates must not be split on commas")
	assert.True(t, tasks[0].Args.DryRun)
	assert.True(t, filepath.IsAbs(tasks[0].Args.Root))
	assert.NotEqual(t, tasks[0].ID(), tasks[1].ID())
}

func TestBuildTasks_Errors(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"unpaired input", []string{"-p", root, "-i", "a", "-i", "b", "-o", "c"}},
		{"no pairs", []string{"-p", root}},
		{"missing root", []string{"-p", filepath.Join(root, "nope"), "-i", "a", "-o", "b"}},
		{"empty template", []string{"-p", root, "-i", " ", "-o", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, f := parseTaskFlags(t, tt.args...)
			_, err := buildTasks(config.DefaultConfig(), f, true, logger.NopLogger{})
			assert.Error(t, err)
		})
	}
}

func TestExecuteTasks_RenamesAndReports(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "IMG_20220115.jpg"), []byte("x"), 0644))
	_, f := parseTaskFlags(t, "-p", root, "-i", "IMG_<<TS|yyyyMMdd>>.jpg", "-o", "<<TS|yyyy-MM-dd>>.jpg")

	cfg := config.DefaultConfig()
	cfg.LockDir = t.TempDir()
	results, err := executeTasks(context.Background(), cfg, f, false, logger.NopLogger{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, anyFailed(results))
	assert.FileExists(t, filepath.Join(root, "2022-01-15.jpg"))

	var out bytes.Buffer
	printResults(&out, results)
	assert.Contains(t, out.String(), "SUCCESS=1")
}

func TestAnyFailed(t *testing.T) {
	ok := &commands.TaskResult{Status: application.TaskSuccess, Counts: map[application.JobStatus]int{application.JobSuccess: 2}}
	jobFailed := &commands.TaskResult{Status: application.TaskSuccess, Counts: map[application.JobStatus]int{application.JobFailed: 1}}
	aborted := &commands.TaskResult{Status: application.TaskFailure}

	assert.False(t, anyFailed([]*commands.TaskResult{ok}))
	assert.True(t, anyFailed([]*commands.TaskResult{ok, jobFailed}))
	assert.True(t, anyFailed([]*commands.TaskResult{aborted}))
	assert.True(t, anyFailed([]*commands.TaskResult{ok, nil}))
}

func TestPrintResults_ListsFailures(t *testing.T) {
	results := []*commands.TaskResult{{
		TaskID: "t1",
		Status: application.TaskSuccess,
		DryRun: true,
		Jobs: []commands.JobReport{
			{Source: "/in/a.txt", Target: "/in/b.txt", Status: application.JobSuccess, DryRun: true},
			{Source: "/in/c.txt", Status: application.JobFailed, Err: errors.New("target exists")},
		},
		Counts: map[application.JobStatus]int{application.JobSuccess: 1, application.JobFailed: 1},
	}}

	var out bytes.Buffer
	printResults(&out, results)
	assert.Contains(t, out.String(), "/in/a.txt -> /in/b.txt")
	assert.Contains(t, out.String(), "/in/c.txt: target exists")
}
