package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"filerename/internal/adapters/filelock"
	"filerename/internal/adapters/filesystem"
	"filerename/internal/application"
	"filerename/internal/application/commands"
	"filerename/internal/config"
	"filerename/internal/ports"
)

// taskFlags are shared by run and preview
type taskFlags struct {
	path             string
	recursive        bool
	inputs           []string
	outputs          []string
	dryRun           bool
	copy             bool
	collision        string
	concurrency      int
	maxRetries       int
	enumerationStart int64
	timeout          time.Duration
	report           string
}

func addTaskFlags(cmd *cobra.Command, f *taskFlags) {
	cmd.Flags().StringVarP(&f.path, "path", "p", ".", "directory containing the files")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().StringArrayVarP(&f.inputs, "input", "i", nil, "input template (repeatable, paired with --output)")
	cmd.Flags().StringArrayVarP(&f.outputs, "output", "o", nil, "output template (repeatable, paired with --input)")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "copy files instead of moving them")
	cmd.Flags().StringVar(&f.collision, "collision", "", "what to do when the target exists: fail or enumerate")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "files processed at once (0 = number of CPUs)")
	cmd.Flags().IntVar(&f.maxRetries, "max-retries", config.DefaultMaxRetries, "enumerate attempts before a job gives up")
	cmd.Flags().Int64Var(&f.enumerationStart, "enumeration-start", 0, "first value of the <<E>> counter")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "abort the run after this duration (e.g. 30s, 5m)")
	cmd.Flags().StringVar(&f.report, "report", "", "write a report (.md, .html or .csv)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
}

// mergeFlags overrides config values with the flags the user actually set
func mergeFlags(cmd *cobra.Command, c *config.Config, f *taskFlags) error {
	if cmd.Flags().Changed("recursive") {
		c.Recursive = f.recursive
	}
	if cmd.Flags().Changed("copy") {
		c.Copy = f.copy
	}
	if cmd.Flags().Changed("collision") {
		c.Collision = f.collision
	}
	if cmd.Flags().Changed("concurrency") {
		c.Concurrency = f.concurrency
	}
	if cmd.Flags().Changed("max-retries") {
		c.MaxRetries = f.maxRetries
	}
	if cmd.Flags().Changed("enumeration-start") {
		c.EnumerationStart = f.enumerationStart
	}
	if cmd.Flags().Changed("timeout") {
		c.Timeout = f.timeout
	}
	return c.Validate()
}

// buildTasks creates one task per --input/--output pair
func buildTasks(c *config.Config, f *taskFlags, dryRun bool, log ports.Logger) ([]*commands.RenameTask, error) {
	if len(f.inputs) == 0 {
		return nil, fmt.Errorf("at least one --input/--output pair is required")
	}
	if len(f.inputs) != len(f.outputs) {
		return nil, fmt.Errorf("each --input needs a matching --output (got %d inputs, %d outputs)", len(f.inputs), len(f.outputs))
	}
	root, err := filepath.Abs(filesystem.ExpandHome(f.path))
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", f.path, err)
	}
	if err := application.ValidateDirectory("root", root); err != nil {
		return nil, err
	}

	tasks := make([]*commands.RenameTask, 0, len(f.inputs))
	for i := range f.inputs {
		tasks = append(tasks, commands.NewRenameTask(fsys, log, commands.TaskArguments{
			Root:             root,
			InputTemplate:    f.inputs[i],
			OutputTemplate:   f.outputs[i],
			MaxDepth:         c.MaxDepth(),
			Copy:             c.Copy,
			DryRun:           dryRun,
			Collision:        c.CollisionStrategy(),
			MaxRetries:       c.MaxRetries,
			Concurrency:      c.Concurrency,
			EnumerationStart: c.EnumerationStart,
		}))
	}
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// executeTasks runs every pair against the root. Real runs hold the
// directory lock for their whole duration.
func executeTasks(ctx context.Context, c *config.Config, f *taskFlags, dryRun bool, log ports.Logger) ([]*commands.TaskResult, error) {
	tasks, err := buildTasks(c, f, dryRun, log)
	if err != nil {
		return nil, err
	}

	if !dryRun {
		locker := filelock.NewDirectoryLocker(c.LockDir)
		release, err := locker.Acquire(tasks[0].Args.Root)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	return commands.RunTasks(ctx, tasks)
}

// commandContext is cancelled on SIGINT/SIGTERM and after the configured timeout
func commandContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// anyFailed reports whether a run should exit non-zero
func anyFailed(results []*commands.TaskResult) bool {
	for _, r := range results {
		if r == nil || r.Status == application.TaskFailure || r.Count(application.JobFailed) > 0 {
			return true
		}
	}
	return false
}
