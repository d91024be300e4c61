package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for task-level conditions
var (
	ErrTaskFailed = errors.New("task failed")
	ErrLocked     = errors.New("directory is locked by another run")
)

// ValidationError represents an invalid argument with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TaskError reports why a task could not run any job
type TaskError struct {
	TaskID string
	Stage  string
	Err    error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed during %s: %v", e.TaskID, e.Stage, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

func (e *TaskError) Is(target error) bool {
	return target == ErrTaskFailed
}
