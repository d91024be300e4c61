package commands

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// RunTasks executes independent tasks concurrently and waits for all of
// them. results[i] belongs to tasks[i] and is nil when that task aborted.
// The returned error joins every task's error.
func RunTasks(ctx context.Context, tasks []*RenameTask) ([]*TaskResult, error) {
	results := make([]*TaskResult, len(tasks))
	errs := make([]error, len(tasks))

	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			results[i], errs[i] = task.Execute(ctx)
			return nil
		})
	}
	g.Wait()

	return results, errors.Join(errs...)
}
